package models

import "time"

// Seed codes and the demo password of the two seeded accounts.
const (
	SeedGlobalCode = "mj36mhajehad"
	SeedAdminCode  = "Wwsdjehadadmen56780097gg"
	SeedPassword   = "123456"
)

// Usernames of the seeded accounts.
const (
	SeedUserJehad   = "جهاد"
	SeedUserHabibti = "حبيبتي"
)

// SeedDocument builds the default document written on first start: the two
// accounts, a little sample content and all features switched on. newID mints
// ids and hash turns SeedPassword into a stored hash.
func SeedDocument(now time.Time, newID func() ID, hash func(string) string) *Document {
	him := User{
		ID:         newID(),
		Username:   SeedUserJehad,
		Avatar:     "assets/images/avatar-male.png",
		CreatedAt:  now,
		LastActive: now,
	}
	her := User{
		ID:         newID(),
		Username:   SeedUserHabibti,
		Avatar:     "assets/images/avatar-female.png",
		CreatedAt:  now,
		LastActive: now,
	}
	him.PasswordHash = hash(SeedPassword)
	her.PasswordHash = hash(SeedPassword)

	return &Document{
		Users: []User{him, her},
		Posts: []Post{
			{
				ID: newID(), UserID: him.ID,
				Content:   "أجمل لحظات حياتي معك يا حبيبتي ❤️",
				Image:     "assets/images/romantic-sunset.png",
				Timestamp: now.Add(-time.Hour),
				Likes:     1, LikedBy: []ID{her.ID},
			},
			{
				ID: newID(), UserID: her.ID,
				Content:   "شكرًا لك على الورود الجميلة 🌹",
				Image:     "assets/images/romantic-flowers.png",
				Timestamp: now.Add(-2 * time.Hour),
				Likes:     1, LikedBy: []ID{him.ID},
			},
			{
				ID: newID(), UserID: him.ID,
				Content:   "موعدنا في المقهى كان رائعًا ☕",
				Image:     "assets/images/coffee-date.png",
				Timestamp: now.Add(-3 * time.Hour),
				Likes:     1, LikedBy: []ID{her.ID},
			},
		},
		Messages: []Message{
			{ID: newID(), SenderID: him.ID, ReceiverID: her.ID, Content: "صباح الخير حبيبتي ☀️", Type: MessageText, Timestamp: now.Add(-30 * time.Minute)},
			{ID: newID(), SenderID: her.ID, ReceiverID: him.ID, Content: "صباح النور يا حبيبي 💕", Type: MessageText, Timestamp: now.Add(-25 * time.Minute)},
			{ID: newID(), SenderID: him.ID, ReceiverID: her.ID, Content: "كيف حالك اليوم؟", Type: MessageText, Timestamp: now.Add(-20 * time.Minute)},
			{ID: newID(), SenderID: her.ID, ReceiverID: him.ID, Content: "بخير والحمد لله، أشتاق إليك ❤️", Type: MessageText, Timestamp: now.Add(-15 * time.Minute)},
		},
		Stories: []Story{
			{
				ID: newID(), UserID: him.ID,
				Content:   "يوم جميل مع حبيبتي",
				Media:     "assets/images/romantic-sunset.png",
				Timestamp: now.Add(-time.Hour),
				ExpiresAt: now.Add(StoryTTL - time.Hour),
			},
		},
		Novels: []Novel{
			{
				ID: newID(), AuthorID: him.ID,
				Title:     "قصة حبنا",
				Content:   "في يوم من الأيام التقينا، وكانت بداية أجمل قصة حب في حياتنا. كل لحظة معك هي ذكرى جميلة أحتفظ بها في قلبي إلى الأبد.",
				Timestamp: now.Add(-24 * time.Hour),
			},
			{
				ID: newID(), AuthorID: her.ID,
				Title:     "رسالة حب",
				Content:   "حبيبي الغالي، أكتب لك هذه الكلمات من القلب. أنت نور حياتي وسر سعادتي. أحبك أكثر من كل شيء في هذا العالم.",
				Timestamp: now.Add(-48 * time.Hour),
			},
		},
		Settings: Settings{
			GlobalCode: SeedGlobalCode,
			AdminCode:  SeedAdminCode,
			Features:   Features{Posts: true, Messages: true, Stories: true, Watch: true, Novels: true},
			Theme:      "light",
			Language:   "ar",
		},
		Screenshots: []Screenshot{
			{ID: newID(), UserID: him.ID, Page: "الصفحة الرئيسية", Timestamp: now.Add(-time.Hour)},
			{ID: newID(), UserID: her.ID, Page: "الدردشة", Timestamp: now.Add(-2 * time.Hour)},
		},
	}
}
