package models

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/mj36/internal/common"
)

// Feature names a functional area that can be switched off by the admin.
type Feature string

const (
	FeaturePosts    Feature = "posts"
	FeatureMessages Feature = "messages"
	FeatureStories  Feature = "stories"
	FeatureWatch    Feature = "watch"
	FeatureNovels   Feature = "novels"
)

// Features holds one flag per Feature.
type Features struct {
	Posts    bool `json:"posts"`
	Messages bool `json:"messages"`
	Stories  bool `json:"stories"`
	Watch    bool `json:"watch"`
	Novels   bool `json:"novels"`
}

func (f *Features) flag(name Feature) (*bool, error) {
	switch name {
	case FeaturePosts:
		return &f.Posts, nil
	case FeatureMessages:
		return &f.Messages, nil
	case FeatureStories:
		return &f.Stories, nil
	case FeatureWatch:
		return &f.Watch, nil
	case FeatureNovels:
		return &f.Novels, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownFeature, name)
	}
}

// Set switches a single feature.
func (f *Features) Set(name Feature, enabled bool) error {
	p, err := f.flag(name)
	if err != nil {
		return err
	}
	*p = enabled
	return nil
}

// Enabled reports whether a feature is on. Unknown names are off.
func (f Features) Enabled(name Feature) bool {
	p, err := f.flag(name)
	if err != nil {
		return false
	}
	return *p
}

type Settings struct {
	GlobalCode  string   `json:"globalCode"`
	AdminCode   string   `json:"adminCode"`
	Features    Features `json:"features"`
	Theme       string   `json:"theme"`
	Language    string   `json:"language"`
	LockEnabled bool     `json:"lockEnabled"`
	LockPinHash string   `json:"lockPinHash,omitempty"`
}

// UnmarshalJSON also accepts the web app's "lockPin" field name.
func (s *Settings) UnmarshalJSON(b []byte) error {
	type plain Settings
	var aux struct {
		plain
		LockPin *string `json:"lockPin"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*s = Settings(aux.plain)
	if s.LockPinHash == "" && aux.LockPin != nil {
		s.LockPinHash = *aux.LockPin
	}
	return nil
}

// SettingsPatch lists the settings to change; nil fields are left alone.
type SettingsPatch struct {
	GlobalCode  *string
	AdminCode   *string
	Features    *Features
	Theme       *string
	Language    *string
	LockEnabled *bool
	LockPinHash *string
}

// Apply merges the non-nil fields of p into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.GlobalCode != nil {
		s.GlobalCode = *p.GlobalCode
	}
	if p.AdminCode != nil {
		s.AdminCode = *p.AdminCode
	}
	if p.Features != nil {
		s.Features = *p.Features
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.LockEnabled != nil {
		s.LockEnabled = *p.LockEnabled
	}
	if p.LockPinHash != nil {
		s.LockPinHash = *p.LockPinHash
	}
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
