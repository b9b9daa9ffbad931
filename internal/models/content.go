package models

import "time"

const (
	// StoryTTL is how long a story stays active after it is posted.
	StoryTTL = 24 * time.Hour

	// ScreenshotRetention is how long screenshot logs survive cleanup.
	ScreenshotRetention = 30 * 24 * time.Hour
)

type Post struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	LikedBy   []ID      `json:"likedBy"`
}

// ToggleLike adds userID to LikedBy or removes it if already present,
// keeping Likes equal to len(LikedBy). It reports whether the post is now
// liked by userID.
func (p *Post) ToggleLike(userID ID) bool {
	for i, id := range p.LikedBy {
		if id == userID {
			p.LikedBy = append(p.LikedBy[:i:i], p.LikedBy[i+1:]...)
			p.Likes = len(p.LikedBy)
			return false
		}
	}
	p.LikedBy = append(p.LikedBy, userID)
	p.Likes = len(p.LikedBy)
	return true
}

// MessageType values.
const (
	MessageText  = "text"
	MessageImage = "image"
)

type Message struct {
	ID         ID        `json:"id"`
	SenderID   ID        `json:"senderId"`
	ReceiverID ID        `json:"receiverId"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
}

type Story struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	Content   string    `json:"content"`
	Media     string    `json:"media,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ActiveAt reports whether the story has not yet expired at now.
func (s Story) ActiveAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

type Novel struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  ID        `json:"authorId"`
	Timestamp time.Time `json:"timestamp"`
}

// Screenshot is an audit entry recording that a user captured a page.
type Screenshot struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}
