package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/models"
)

// Posts returns all posts, newest first.
func (s *Store) Posts(ctx context.Context) ([]models.Post, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(doc.Posts, func(a, b models.Post) int { return b.Timestamp.Compare(a.Timestamp) })
	return doc.Posts, nil
}

// AddPost stores p with a fresh id, the current time and no likes.
func (s *Store) AddPost(ctx context.Context, p models.Post) (*models.Post, error) {
	p.ID = s.newID()
	p.Timestamp = s.now()
	p.Likes = 0
	p.LikedBy = []models.ID{}

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Posts = append(doc.Posts, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost applies fn to the stored post. Likes is recomputed from LikedBy
// afterwards.
func (s *Store) UpdatePost(ctx context.Context, id models.ID, fn func(p *models.Post)) (*models.Post, error) {
	var updated models.Post

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		p, err := findPost(doc, id)
		if err != nil {
			return err
		}
		fn(p)
		p.ID = id
		p.Likes = len(p.LikedBy)
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// TogglePostLike likes the post for userID, or removes the like if it is
// already there. Unknown posts yield common.ErrorNotFound.
func (s *Store) TogglePostLike(ctx context.Context, postID, userID models.ID) (*models.Post, error) {
	var updated models.Post

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		p, err := findPost(doc, postID)
		if err != nil {
			return err
		}
		p.ToggleLike(userID)
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeletePost(ctx context.Context, id models.ID) error {
	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Posts = models.Filter(doc.Posts, func(p models.Post) bool { return p.ID != id })
		return nil
	})
	return err
}

func findPost(doc *models.Document, id models.ID) (*models.Post, error) {
	for i := range doc.Posts {
		if doc.Posts[i].ID == id {
			return &doc.Posts[i], nil
		}
	}
	return nil, fmt.Errorf("post %q: %w", id, common.ErrorNotFound)
}

// Messages returns all messages, oldest first.
func (s *Store) Messages(ctx context.Context) ([]models.Message, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(doc.Messages, func(a, b models.Message) int { return a.Timestamp.Compare(b.Timestamp) })
	return doc.Messages, nil
}

// Conversation returns the messages exchanged between a and b, oldest first.
func (s *Store) Conversation(ctx context.Context, a, b models.ID) ([]models.Message, error) {
	msgs, err := s.Messages(ctx)
	if err != nil {
		return nil, err
	}
	return models.Filter(msgs, func(m models.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}), nil
}

// AddMessage stores m with a fresh id and the current time. An empty type
// means text.
func (s *Store) AddMessage(ctx context.Context, m models.Message) (*models.Message, error) {
	m.ID = s.newID()
	m.Timestamp = s.now()
	if m.Type == "" {
		m.Type = models.MessageText
	}

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Messages = append(doc.Messages, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) DeleteMessage(ctx context.Context, id models.ID) error {
	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Messages = models.Filter(doc.Messages, func(m models.Message) bool { return m.ID != id })
		return nil
	})
	return err
}

// ActiveStories returns the stories that have not expired yet, newest first.
// Expired stories stay stored until Cleanup.
func (s *Store) ActiveStories(ctx context.Context) ([]models.Story, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := models.Filter(doc.Stories, func(st models.Story) bool { return st.ActiveAt(now) })
	slices.SortStableFunc(active, func(a, b models.Story) int { return b.Timestamp.Compare(a.Timestamp) })
	return active, nil
}

// AddStory stores st with a fresh id; it expires models.StoryTTL from now.
func (s *Store) AddStory(ctx context.Context, st models.Story) (*models.Story, error) {
	st.ID = s.newID()
	st.Timestamp = s.now()
	st.ExpiresAt = st.Timestamp.Add(models.StoryTTL)

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Stories = append(doc.Stories, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) DeleteStory(ctx context.Context, id models.ID) error {
	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Stories = models.Filter(doc.Stories, func(st models.Story) bool { return st.ID != id })
		return nil
	})
	return err
}

// Novels returns all novels, newest first.
func (s *Store) Novels(ctx context.Context) ([]models.Novel, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(doc.Novels, func(a, b models.Novel) int { return b.Timestamp.Compare(a.Timestamp) })
	return doc.Novels, nil
}

func (s *Store) AddNovel(ctx context.Context, n models.Novel) (*models.Novel, error) {
	n.ID = s.newID()
	n.Timestamp = s.now()

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Novels = append(doc.Novels, n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNovel sets the title and content of a stored novel.
func (s *Store) UpdateNovel(ctx context.Context, id models.ID, title, content string) (*models.Novel, error) {
	var updated models.Novel

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		for i := range doc.Novels {
			if doc.Novels[i].ID == id {
				doc.Novels[i].Title = title
				doc.Novels[i].Content = content
				updated = doc.Novels[i]
				return nil
			}
		}
		return fmt.Errorf("novel %q: %w", id, common.ErrorNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteNovel(ctx context.Context, id models.ID) error {
	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Novels = models.Filter(doc.Novels, func(n models.Novel) bool { return n.ID != id })
		return nil
	})
	return err
}

// Screenshots returns the screenshot log, newest first.
func (s *Store) Screenshots(ctx context.Context) ([]models.Screenshot, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(doc.Screenshots, func(a, b models.Screenshot) int { return b.Timestamp.Compare(a.Timestamp) })
	return doc.Screenshots, nil
}

// AddScreenshot logs that userID captured page.
func (s *Store) AddScreenshot(ctx context.Context, userID models.ID, page string) (*models.Screenshot, error) {
	sc := models.Screenshot{
		ID:        s.newID(),
		UserID:    userID,
		Page:      page,
		Timestamp: s.now(),
	}

	_, err := s.mutate(ctx, func(doc *models.Document) error {
		doc.Screenshots = append(doc.Screenshots, sc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sc, nil
}
