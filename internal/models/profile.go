package models

// Profile is the app-local profile row for an identity, created lazily on
// first sight of a new user. ID equals the owning User.ID.
type Profile struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	Username   string `gorm:"size:100;not null" json:"username"`
	AvatarText string `gorm:"size:16" json:"avatar_text"`
	CreatedAt  int64  `json:"created_at"`
}
