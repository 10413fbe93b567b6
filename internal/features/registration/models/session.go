package models

// Step обозначает текущий шаг регистрации
type Step int

const (
	StepSubscription Step = iota
	StepPhone
	StepGuardianName
	StepSchool
	StepClass
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepSubscription:
		return "subscription"
	case StepPhone:
		return "phone"
	case StepGuardianName:
		return "guardian_name"
	case StepSchool:
		return "school"
	case StepClass:
		return "class"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session хранит прогресс пользователя в процессе регистрации.
// Указатели отличают "поле еще не собрано" от "собрана пустая строка".
// Сессии живут только в памяти процесса; завершенные регистрации
// переживают рестарт через хранилище участников.
type Session struct {
	TelegramID   int64
	Username     string
	FirstName    string
	Subscribed   bool
	PhoneNumber  *string
	GuardianName *string
	ChildSchool  *string
	ChildClass   *string
	Step         Step
}

// PhoneProvided сообщает, получен ли номер телефона.
func (s *Session) PhoneProvided() bool {
	return s.PhoneNumber != nil
}
