package user

// User is the identity record. Email is the login identity; Password holds a
// bcrypt hash for local signups and stays empty for external-login users.
type User struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"`
	Nickname string `json:"nickname"`
}

func (User) TableName() string {
	return "users"
}
