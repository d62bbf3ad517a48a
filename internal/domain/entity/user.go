package entity

import "time"

// User — минимальный профиль пользователя портала. Регистрация и аутентификация
// живут в отдельном сервисе; здесь профиль нужен для сводок аудита и
// подтверждающих писем.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	FullName  string    `gorm:"size:200" json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}
