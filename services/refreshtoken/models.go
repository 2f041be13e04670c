package refreshtoken

// RefreshToken is the single persisted row per user holding the current
// refresh token value. The unique index on UserID is what makes Upsert atomic.
type RefreshToken struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	UserID int64  `json:"user_id" gorm:"uniqueIndex;not null"`
	Token  string `json:"-" gorm:"size:512;not null"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
