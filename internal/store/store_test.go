package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/cryptox"
	"github.com/dmitrijs2005/mj36/internal/database"
	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/notify"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.DefaultParams.Memory = 1024
	cryptox.DefaultParams.Threads = 1
	m.Run()
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type event struct {
	kind    notify.EventKind
	payload any
}

type fixture struct {
	store  *Store
	repo   records.Repository
	clock  *testClock
	events *[]event
}

func sequentialIDs(prefix string) func() models.ID {
	n := 0
	return func() models.ID {
		n++
		return models.ID(fmt.Sprintf("%s%d", prefix, n))
	}
}

func newFixture(t *testing.T, repo records.Repository) fixture {
	t.Helper()
	if repo == nil {
		repo = records.NewMemoryRepository()
	}

	clock := &testClock{now: t0}
	n := notify.New(nil)
	events := &[]event{}
	n.AddWatcher(func(_ context.Context, kind notify.EventKind, payload any) error {
		*events = append(*events, event{kind, payload})
		return nil
	})

	s := New(repo, n, nil, WithClock(clock.Now), WithIDGenerator(sequentialIDs("id-")))
	require.NoError(t, s.Init(context.Background()))
	*events = nil

	return fixture{store: s, repo: repo, clock: clock, events: events}
}

func kinds(events []event) []notify.EventKind {
	out := make([]notify.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.kind)
	}
	return out
}

func TestInit_SeedsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	doc, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Version)
	require.Len(t, doc.Users, 2)
	assert.Equal(t, models.SeedGlobalCode, doc.Settings.GlobalCode)

	require.NoError(t, f.store.Init(ctx))
	again, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Version)
	assert.Empty(t, *f.events)
}

func TestLoad_MissingAndCorruptRecordYieldSeed(t *testing.T) {
	ctx := context.Background()
	repo := records.NewMemoryRepository()
	s := New(repo, nil, nil, WithClock(func() time.Time { return t0 }))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), doc.Version)
	assert.Len(t, doc.Users, 2)

	require.NoError(t, repo.Set(ctx, records.KeyAppData, []byte("{not json")))
	doc, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 2)

	// The corrupt record is left alone until the next mutation.
	raw, err := repo.Get(ctx, records.KeyAppData)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))

	_, err = s.AddPost(ctx, models.Post{UserID: doc.Users[0].ID, Content: "hi"})
	require.NoError(t, err)
	doc, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Version)
	assert.Len(t, doc.Posts, 4)

	// A readable version on an otherwise broken record must not block writes.
	require.NoError(t, repo.Set(ctx, records.KeyAppData, []byte(`{"version":7,"users":{}}`)))
	doc, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 2)
	assert.Equal(t, int64(7), doc.Version)

	_, err = s.AddNovel(ctx, models.Novel{Title: "after", AuthorID: doc.Users[0].ID})
	require.NoError(t, err)
	_, err = s.UpdateSettings(ctx, models.SettingsPatch{Theme: models.Ptr("dark")})
	require.NoError(t, err)

	doc, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), doc.Version)
	assert.Len(t, doc.Novels, 3)
	assert.Equal(t, "dark", doc.Settings.Theme)
}

func TestSave_RejectsStaleDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.store.Load(ctx)
	require.NoError(t, err)
	second, err := f.store.Load(ctx)
	require.NoError(t, err)

	first.Settings.Theme = "dark"
	require.NoError(t, f.store.Save(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.Settings.Theme = "pink"
	err = f.store.Save(ctx, second)
	require.ErrorIs(t, err, common.ErrVersionConflict)
	assert.Equal(t, int64(1), second.Version)

	stored, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", stored.Settings.Theme)
	assert.Equal(t, []notify.EventKind{notify.EventDataChanged}, kinds(*f.events))
}

func TestSave_RejectsStaleDocumentOnSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := newFixture(t, records.NewSQLiteRepository(db))

	stale, err := f.store.Load(ctx)
	require.NoError(t, err)

	_, err = f.store.AddMessage(ctx, models.Message{SenderID: "a", ReceiverID: "b", Content: "hello"})
	require.NoError(t, err)

	stale.Posts = nil
	require.ErrorIs(t, f.store.Save(ctx, stale), common.ErrVersionConflict)

	posts, err := f.store.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestSave_WatcherFailureDoesNotFailSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.store.Notifier().AddWatcher(func(context.Context, notify.EventKind, any) error {
		return assert.AnError
	})
	f.store.Notifier().AddWatcher(func(context.Context, notify.EventKind, any) error {
		panic("render crashed")
	})

	_, err := f.store.AddNovel(ctx, models.Novel{Title: "t", Content: "c", AuthorID: "x"})
	require.NoError(t, err)
	assert.Len(t, *f.events, 1)
}

func TestAddUser_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	u, err := f.store.AddUser(ctx, NewUser{Username: "sara", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAvatar, u.Avatar)
	assert.Equal(t, t0, u.CreatedAt)
	ok, _ := cryptox.VerifySecret("secret1", u.PasswordHash)
	assert.True(t, ok)

	_, err = f.store.AddUser(ctx, NewUser{Username: "sara", Password: "other12"})
	require.ErrorIs(t, err, common.ErrUsernameTaken)

	users, err := f.store.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	jehad, err := f.store.UserByUsername(ctx, models.SeedUserJehad)
	require.NoError(t, err)

	_, err = f.store.UpdateUser(ctx, jehad.ID, func(u *models.User) error {
		u.Username = models.SeedUserHabibti
		return nil
	})
	require.ErrorIs(t, err, common.ErrUsernameTaken)

	updated, err := f.store.UpdateUser(ctx, jehad.ID, func(u *models.User) error {
		u.Avatar = "new.png"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new.png", updated.Avatar)

	_, err = f.store.UpdateUser(ctx, "missing", func(*models.User) error { return nil })
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTouchUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	jehad, err := f.store.UserByUsername(ctx, models.SeedUserJehad)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	require.NoError(t, f.store.TouchUser(ctx, jehad.ID))
	got, err := f.store.UserByID(ctx, jehad.ID)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), got.LastActive)

	*f.events = nil
	require.NoError(t, f.store.TouchUser(ctx, "missing"))
	assert.Empty(t, *f.events)
}

func TestDeleteUser_LeavesContentDangling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	jehad, err := f.store.UserByUsername(ctx, models.SeedUserJehad)
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteUser(ctx, jehad.ID))

	_, err = f.store.UserByID(ctx, jehad.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	doc, err := f.store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Posts, 3)

	var author models.User
	for _, p := range doc.Posts {
		if p.UserID == jehad.ID {
			author = doc.ResolveUser(p.UserID)
		}
	}
	assert.Equal(t, models.UnknownUsername, author.Username)
}

func TestTogglePostLike_TwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	p, err := f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Likes)

	liked, err := f.store.TogglePostLike(ctx, p.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []models.ID{"u2"}, liked.LikedBy)

	unliked, err := f.store.TogglePostLike(ctx, p.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
	assert.Empty(t, unliked.LikedBy)

	_, err = f.store.TogglePostLike(ctx, "nope", "u2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdatePost_KeepsLikesConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	p, err := f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "draft"})
	require.NoError(t, err)

	updated, err := f.store.UpdatePost(ctx, p.ID, func(p *models.Post) {
		p.Content = "final"
		p.ID = "hijacked"
		p.LikedBy = []models.ID{"a", "b"}
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, 2, updated.Likes)
}

func TestDeleteOperations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		add    func(s *Store) (models.ID, error)
		remove func(s *Store, id models.ID) error
		count  func(d *models.Document) int
	}{
		{
			name: "post",
			add: func(s *Store) (models.ID, error) {
				p, err := s.AddPost(ctx, models.Post{UserID: "u1", Content: "bye"})
				if err != nil {
					return "", err
				}
				return p.ID, nil
			},
			remove: func(s *Store, id models.ID) error { return s.DeletePost(ctx, id) },
			count:  func(d *models.Document) int { return len(d.Posts) },
		},
		{
			name: "message",
			add: func(s *Store) (models.ID, error) {
				m, err := s.AddMessage(ctx, models.Message{SenderID: "u1", ReceiverID: "u2", Content: "bye"})
				if err != nil {
					return "", err
				}
				return m.ID, nil
			},
			remove: func(s *Store, id models.ID) error { return s.DeleteMessage(ctx, id) },
			count:  func(d *models.Document) int { return len(d.Messages) },
		},
		{
			name: "story",
			add: func(s *Store) (models.ID, error) {
				st, err := s.AddStory(ctx, models.Story{UserID: "u1", Content: "bye"})
				if err != nil {
					return "", err
				}
				return st.ID, nil
			},
			remove: func(s *Store, id models.ID) error { return s.DeleteStory(ctx, id) },
			count:  func(d *models.Document) int { return len(d.Stories) },
		},
		{
			name: "novel",
			add: func(s *Store) (models.ID, error) {
				n, err := s.AddNovel(ctx, models.Novel{Title: "bye", AuthorID: "u1"})
				if err != nil {
					return "", err
				}
				return n.ID, nil
			},
			remove: func(s *Store, id models.ID) error { return s.DeleteNovel(ctx, id) },
			count:  func(d *models.Document) int { return len(d.Novels) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			id, err := tt.add(f.store)
			require.NoError(t, err)
			doc, err := f.store.Load(ctx)
			require.NoError(t, err)
			before := tt.count(doc)
			*f.events = nil

			require.NoError(t, tt.remove(f.store, id))

			doc, err = f.store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, before-1, tt.count(doc))

			require.Equal(t, []notify.EventKind{notify.EventDataChanged}, kinds(*f.events))
			payload, ok := (*f.events)[0].payload.(*models.Document)
			require.True(t, ok)
			assert.Equal(t, before-1, tt.count(payload))

			// Deleting an unknown id leaves the collection alone.
			require.NoError(t, tt.remove(f.store, "missing"))
			doc, err = f.store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, before-1, tt.count(doc))
		})
	}
}

func TestUpdateNovel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	n, err := f.store.AddNovel(ctx, models.Novel{Title: "draft", Content: "once", AuthorID: "u1"})
	require.NoError(t, err)
	*f.events = nil

	f.clock.Advance(time.Hour)
	updated, err := f.store.UpdateNovel(ctx, n.ID, "final", "once upon a time")
	require.NoError(t, err)
	assert.Equal(t, n.ID, updated.ID)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "once upon a time", updated.Content)
	assert.Equal(t, n.AuthorID, updated.AuthorID)
	assert.Equal(t, n.Timestamp, updated.Timestamp)
	assert.Equal(t, []notify.EventKind{notify.EventDataChanged}, kinds(*f.events))

	novels, err := f.store.Novels(ctx)
	require.NoError(t, err)
	require.Len(t, novels, 3)
	assert.Equal(t, "final", novels[0].Title)

	*f.events = nil
	before, err := f.store.ExportData(ctx)
	require.NoError(t, err)

	_, err = f.store.UpdateNovel(ctx, "missing", "x", "y")
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, *f.events)

	after, err := f.store.ExportData(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOrdering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	first, err := f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "first"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "second"})
	require.NoError(t, err)

	posts, err := f.store.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 5)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	m, err := f.store.AddMessage(ctx, models.Message{SenderID: "u1", ReceiverID: "u2", Content: "latest"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageText, m.Type)

	msgs, err := f.store.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, m.ID, msgs[4].ID)

	conv, err := f.store.Conversation(ctx, "u2", "u1")
	require.NoError(t, err)
	require.Len(t, conv, 1)
	assert.Equal(t, "latest", conv[0].Content)
}

func TestStoryExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	st, err := f.store.AddStory(ctx, models.Story{UserID: "u1", Content: "today"})
	require.NoError(t, err)
	assert.Equal(t, t0.Add(24*time.Hour), st.ExpiresAt)

	active := func() bool {
		stories, err := f.store.ActiveStories(ctx)
		require.NoError(t, err)
		for _, s := range stories {
			if s.ID == st.ID {
				return true
			}
		}
		return false
	}

	f.clock.Advance(23*time.Hour + 59*time.Minute)
	assert.True(t, active())

	f.clock.Advance(time.Minute + time.Second)
	assert.False(t, active())

	// Reads do not purge.
	doc, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Stories, 2)
}

func TestCleanup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	removed, err := f.store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, *f.events)

	f.clock.Advance(31 * 24 * time.Hour)
	_, err = f.store.AddScreenshot(ctx, "u1", "messages")
	require.NoError(t, err)

	removed, err = f.store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	doc, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Stories)
	require.Len(t, doc.Screenshots, 1)
	assert.Equal(t, "messages", doc.Screenshots[0].Page)
}

func TestUpdateSettings_MergesPatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	got, err := f.store.UpdateSettings(ctx, models.SettingsPatch{Theme: models.Ptr("dark")})
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "ar", got.Language)
	assert.Equal(t, models.SeedGlobalCode, got.GlobalCode)
}

func TestUpdateFeatureStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.store.UpdateFeatureStatus(ctx, models.FeatureStories, false))

	require.Len(t, *f.events, 2)
	assert.Equal(t, notify.EventDataChanged, (*f.events)[0].kind)
	assert.Equal(t, notify.EventFeatureChanged, (*f.events)[1].kind)
	assert.Equal(t, FeatureChange{Feature: models.FeatureStories, Enabled: false}, (*f.events)[1].payload)

	payload, err := json.Marshal((*f.events)[1].payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"feature":"stories","status":false}`, string(payload))

	settings, err := f.store.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.Features.Stories)
	assert.True(t, settings.Features.Posts)

	*f.events = nil
	err = f.store.UpdateFeatureStatus(ctx, "games", true)
	require.ErrorIs(t, err, common.ErrUnknownFeature)
	assert.Empty(t, *f.events)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "keep me"})
	require.NoError(t, err)

	exported, err := f.store.ExportData(ctx)
	require.NoError(t, err)
	assert.Contains(t, exported, "\n  \"users\": [")
	before, err := f.store.Load(ctx)
	require.NoError(t, err)

	_, err = f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "drop me"})
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteUser(ctx, before.Users[0].ID))

	require.True(t, f.store.ImportData(ctx, exported))

	after, err := f.store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(before, after, cmpopts.IgnoreFields(models.Document{}, "Version")); diff != "" {
		t.Errorf("document mismatch after import (-want +got):\n%s", diff)
	}
	assert.Greater(t, after.Version, before.Version)
}

func TestImportData_InvalidInputLeavesDataAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	before, err := f.store.ExportData(ctx)
	require.NoError(t, err)

	assert.False(t, f.store.ImportData(ctx, "not json"))

	after, err := f.store.ExportData(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, *f.events)
}

func TestImportData_AcceptsLegacyDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	legacy := `{
  "users": [{"id": 1700000000000, "username": "jehad", "password": "1450575459", "avatar": "a.png", "isAdmin": false}],
  "posts": [], "messages": [], "stories": [], "novels": [], "screenshots": [],
  "settings": {"globalCode": "g", "adminCode": "a", "features": {"posts": true}, "lockEnabled": true, "lockPin": "1509442"}
}`
	require.True(t, f.store.ImportData(ctx, legacy))

	u, err := f.store.UserByUsername(ctx, "jehad")
	require.NoError(t, err)
	assert.Equal(t, models.ID("1700000000000"), u.ID)
	assert.Equal(t, "1450575459", u.PasswordHash)

	settings, err := f.store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1509442", settings.LockPinHash)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.store.AddPost(ctx, models.Post{UserID: "u1", Content: "gone soon"})
	require.NoError(t, err)
	*f.events = nil

	require.NoError(t, f.store.Reset(ctx))
	assert.Equal(t, []notify.EventKind{notify.EventDataChanged, notify.EventDataReset}, kinds(*f.events))

	posts, err := f.store.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestCheckExternal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	changed, err := f.store.CheckExternal(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	other := New(f.repo, nil, nil, WithClock(f.clock.Now))
	_, err = other.AddNovel(ctx, models.Novel{Title: "elsewhere", AuthorID: "u1"})
	require.NoError(t, err)

	changed, err = f.store.CheckExternal(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, *f.events, 1)
	assert.Equal(t, notify.EventExternalChange, (*f.events)[0].kind)
	doc, ok := (*f.events)[0].payload.(*models.Document)
	require.True(t, ok)
	assert.Len(t, doc.Novels, 3)

	changed, err = f.store.CheckExternal(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	// Own writes are not reported as external.
	_, err = f.store.AddNovel(ctx, models.Novel{Title: "here", AuthorID: "u1"})
	require.NoError(t, err)
	changed, err = f.store.CheckExternal(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStorageErrorsSurface(t *testing.T) {
	ctx := context.Background()
	s := New(failingRepo{records.NewMemoryRepository()}, nil, nil)

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, assert.AnError)

	_, err = s.AddPost(ctx, models.Post{Content: "x"})
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, s.ImportData(ctx, `{"users":[]}`))
}

type failingRepo struct {
	*records.MemoryRepository
}

func (failingRepo) Get(context.Context, string) ([]byte, error) {
	return nil, assert.AnError
}
