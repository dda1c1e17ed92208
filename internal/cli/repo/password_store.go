package repo

// PasswordStore описывает абстракцию хранилища пароля администратора на клиенте.
type PasswordStore interface {
	Save(password string) error
	Load() (string, error)
	Clear() error
}
