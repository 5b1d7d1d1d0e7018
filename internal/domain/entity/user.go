package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu          UserState = "main_menu"           // В главном меню
	StateAwaitingTestImage UserState = "awaiting_test_image" // Ожидание снимка для проверки модели
	StateProcessing        UserState = "processing"          // Обработка изображения
)

// User представляет оператора линии в боте
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
	Locale string    // Язык интерфейса ("ar" или "en")
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// SetLocale обновляет язык интерфейса
func (u *User) SetLocale(locale string) {
	u.Locale = locale
}
