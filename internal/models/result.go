package models

// QuizResult records one completed play. Rows are append-only.
type QuizResult struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	QuizID    string  `gorm:"size:36;not null;index" json:"quiz_id"`
	OutcomeID string  `gorm:"size:36;not null" json:"outcome_id"`
	UserID    *string `gorm:"size:36;index" json:"user_id,omitempty"`
	CreatedAt int64   `gorm:"not null;index" json:"created_at"`
}

// ActivityEntry is a result joined with its quiz and the taker's profile,
// used for the owner's "what friends got" feed.
type ActivityEntry struct {
	QuizResult
	QuizTitle     string `json:"quiz_title"`
	OutcomeTitle  string `json:"outcome_title"`
	OutcomeImage  string `json:"outcome_image"`
	TakerUsername string `json:"taker_username"`
	TakerAvatar   string `json:"taker_avatar,omitempty"`
}
