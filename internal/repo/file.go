package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// FileSink хранит документ в одном файле на локальном диске.
type FileSink struct {
	path string
}

// NewFileSink создаёт файловое хранилище. Каталоги создаются при первой записи.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Read читает файл целиком. Отсутствующий файл — это ErrDocumentAbsent, а не ошибка.
func (s *FileSink) Read(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrDocumentAbsent
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Write записывает документ через временный файл и rename в том же каталоге.
func (s *FileSink) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	// при любой ошибке ниже временный файл не должен остаться в каталоге
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
