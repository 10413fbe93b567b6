package models

import "time"

// Participant представляет завершенную регистрацию в розыгрыше
type Participant struct {
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	GuardianName string    `json:"guardian_name"`
	ChildSchool  string    `json:"child_school"`
	ChildClass   string    `json:"child_class"`
	PhoneNumber  string    `json:"phone_number"`
	Code         string    `json:"code"`
	RegisteredAt time.Time `json:"registered_at"`
}
