package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/models"
)

const timeLayout = "2006-01-02 15:04"

// errFeatureOff is returned by commands of a switched-off feature.
type errFeatureOff models.Feature

func (e errFeatureOff) Error() string {
	return fmt.Sprintf("%s are switched off by the admin", string(e))
}

func (a *App) requireFeature(ctx context.Context, f models.Feature) error {
	settings, err := a.store.Settings(ctx)
	if err != nil {
		return err
	}
	if !settings.Features.Enabled(f) {
		return errFeatureOff(f)
	}
	return nil
}

func (a *App) currentUserID() (models.ID, error) {
	u := a.session.CurrentUser()
	if u == nil {
		return "", common.ErrNotLoggedIn
	}
	return u.ID, nil
}

// authorName resolves id against doc; dangling references show as the
// unknown user.
func authorName(doc *models.Document, id models.ID) string {
	return doc.ResolveUser(id).Username
}

// Posts lists posts, newest first, numbered for like and delpost.
func (a *App) Posts(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeaturePosts); err != nil {
		return err
	}

	doc, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	posts, err := a.store.Posts(ctx)
	if err != nil {
		return err
	}

	me, _ := a.currentUserID()
	ids := make([]models.ID, 0, len(posts))
	for i, p := range posts {
		ids = append(ids, p.ID)
		heart := "♡"
		for _, id := range p.LikedBy {
			if id == me {
				heart = "♥"
			}
		}
		fmt.Fprintf(a.out, "[%d] %s · %s\n    %s\n", i+1, authorName(doc, p.UserID), p.Timestamp.Local().Format(timeLayout), p.Content)
		if p.Image != "" {
			fmt.Fprintf(a.out, "    🖼 %s\n", p.Image)
		}
		fmt.Fprintf(a.out, "    %s %d\n", heart, p.Likes)
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
	}

	a.mu.Lock()
	a.lastPosts = ids
	a.mu.Unlock()
	return nil
}

func (a *App) AddPost(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeaturePosts); err != nil {
		return err
	}
	me, err := a.currentUserID()
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Write your post", a.out)
	if err != nil {
		return err
	}
	image, err := getSimpleText(a.reader, "Image (empty for none)", a.out)
	if err != nil {
		return err
	}
	if content == "" && image == "" {
		fmt.Fprintln(a.out, "Nothing to post.")
		return nil
	}

	if _, err := a.store.AddPost(ctx, models.Post{UserID: me, Content: content, Image: image}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Posted.")
	return nil
}

// postByIndex maps a 1-based number from the last posts listing to an id.
func (a *App) postByIndex(arg string) (models.ID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", errors.New("usage: give the post number shown by 'posts'")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 || n > len(a.lastPosts) {
		return "", fmt.Errorf("post %d: %w", n, common.ErrorNotFound)
	}
	return a.lastPosts[n-1], nil
}

func (a *App) Like(ctx context.Context, arg string) error {
	if err := a.requireFeature(ctx, models.FeaturePosts); err != nil {
		return err
	}
	me, err := a.currentUserID()
	if err != nil {
		return err
	}
	id, err := a.postByIndex(arg)
	if err != nil {
		return err
	}

	p, err := a.store.TogglePostLike(ctx, id, me)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "♥ %d\n", p.Likes)
	return nil
}

// DeletePost removes one of the user's own posts; admins may remove any.
func (a *App) DeletePost(ctx context.Context, arg string) error {
	u := a.session.CurrentUser()
	if u == nil {
		return common.ErrNotLoggedIn
	}
	id, err := a.postByIndex(arg)
	if err != nil {
		return err
	}

	posts, err := a.store.Posts(ctx)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.ID == id && p.UserID != u.ID && !u.IsAdmin {
			return errors.New("you can only delete your own posts")
		}
	}

	if err := a.store.DeletePost(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Post deleted.")
	return nil
}

// Messages shows the messages the user sent or received, oldest first.
func (a *App) Messages(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeatureMessages); err != nil {
		return err
	}
	me, err := a.currentUserID()
	if err != nil {
		return err
	}

	doc, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	msgs, err := a.store.Messages(ctx)
	if err != nil {
		return err
	}

	shown := 0
	for _, m := range msgs {
		if m.SenderID != me && m.ReceiverID != me {
			continue
		}
		shown++
		body := m.Content
		if m.Type == models.MessageImage {
			body = "🖼 " + body
		}
		fmt.Fprintf(a.out, "%s %s → %s: %s\n", m.Timestamp.Local().Format(timeLayout),
			authorName(doc, m.SenderID), authorName(doc, m.ReceiverID), body)
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No messages yet.")
	}
	return nil
}

func (a *App) SendMessage(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeatureMessages); err != nil {
		return err
	}
	me, err := a.currentUserID()
	if err != nil {
		return err
	}

	to, err := getSimpleText(a.reader, "To (username)", a.out)
	if err != nil {
		return err
	}
	recipient, err := a.store.UserByUsername(ctx, to)
	if err != nil {
		return err
	}

	content, err := getSimpleText(a.reader, "Message", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}

	if _, err := a.store.AddMessage(ctx, models.Message{SenderID: me, ReceiverID: recipient.ID, Content: content}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sent.")
	return nil
}

// Stories lists the stories that have not expired.
func (a *App) Stories(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeatureStories); err != nil {
		return err
	}

	doc, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	stories, err := a.store.ActiveStories(ctx)
	if err != nil {
		return err
	}

	now := a.store.Now()
	for _, s := range stories {
		left := s.ExpiresAt.Sub(now).Round(time.Minute)
		fmt.Fprintf(a.out, "%s: %s (%s left)\n", authorName(doc, s.UserID), s.Content, left)
	}
	if len(stories) == 0 {
		fmt.Fprintln(a.out, "No stories right now.")
	}
	return nil
}

func (a *App) AddStory(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeatureStories); err != nil {
		return err
	}
	me, err := a.currentUserID()
	if err != nil {
		return err
	}

	content, err := getSimpleText(a.reader, "Story text", a.out)
	if err != nil {
		return err
	}
	media, err := getSimpleText(a.reader, "Media (empty for none)", a.out)
	if err != nil {
		return err
	}

	st, err := a.store.AddStory(ctx, models.Story{UserID: me, Content: content, Media: media})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Story shared until %s.\n", st.ExpiresAt.Local().Format(timeLayout))
	return nil
}

func (a *App) Novels(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeatureNovels); err != nil {
		return err
	}

	doc, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	novels, err := a.store.Novels(ctx)
	if err != nil {
		return err
	}

	for _, n := range novels {
		fmt.Fprintf(a.out, "📖 %s, by %s\n%s\n\n", n.Title, authorName(doc, n.AuthorID), n.Content)
	}
	if len(novels) == 0 {
		fmt.Fprintln(a.out, "No novels yet.")
	}
	return nil
}

func (a *App) AddNovel(ctx context.Context) error {
	if err := a.requireFeature(ctx, models.FeatureNovels); err != nil {
		return err
	}
	me, err := a.currentUserID()
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Write your novel", a.out)
	if err != nil {
		return err
	}

	if _, err := a.store.AddNovel(ctx, models.Novel{Title: title, Content: content, AuthorID: me}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Novel saved.")
	return nil
}
