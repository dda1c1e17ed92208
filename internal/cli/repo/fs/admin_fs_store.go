package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoPassword — пароль администратора ещё не сохранён.
var ErrNoPassword = errors.New("no stored admin password")

// AdminFSStore — файловое хранилище пароля администратора для CLI.
type AdminFSStore struct{}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "Wishwall")
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func passwordPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "admin_password"), nil
}

// Save сохраняет пароль в файл с правами 0600.
func (AdminFSStore) Save(password string) error {
	if password == "" {
		return errors.New("empty password")
	}
	p, err := passwordPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(password), 0o600)
}

// Load читает пароль из файла.
func (AdminFSStore) Load() (string, error) {
	p, err := passwordPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoPassword
	}
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	pw := strings.TrimRight(string(b), "\r\n\t ")
	if pw == "" {
		return "", ErrNoPassword
	}
	return pw, nil
}

// Clear удаляет сохранённый пароль. Отсутствие файла не ошибка.
func (AdminFSStore) Clear() error {
	p, err := passwordPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
