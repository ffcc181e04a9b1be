package account

import "time"

// Account is a console sign-in identity.
type Account struct {
	Email        string    `gorm:"column:email;primaryKey;size:255"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
