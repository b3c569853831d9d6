package models

// Message is a single guestbook submission.
//
// SubmittedAt is stored as an RFC 3339 UTC string rather than a native
// timestamp column so the daily quota count stays a lexicographic prefix
// comparison and string ordering matches chronological ordering.
type Message struct {
	ID              uint    `gorm:"primaryKey;autoIncrement"`
	Text            string  `gorm:"type:text;not null"`
	SubmittedAt     string  `gorm:"size:40;not null;index"`
	IPHash          string  `gorm:"size:16;not null"`
	GalleryApproved bool    `gorm:"default:false;index"`
	Commentary      *string `gorm:"type:text"`
}
