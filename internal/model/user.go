package model

import "time"

// users — аккаунт. И пользователь, и консультант — это строки этой таблицы.
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Email string `gorm:"type:varchar(254);not null;uniqueIndex"`

	// Не nil — аккаунт отключён и недоступен для новых консультаций.
	DisabledAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) IsDisabled() bool {
	return u.DisabledAt != nil
}
