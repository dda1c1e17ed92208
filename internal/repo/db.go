package repo

import (
	"Wishwall/internal/model"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// InitDB открывает БД по DSN и мигрирует таблицу документов.
// postgres:// и key=value DSN уходят в Postgres, всё остальное считается путём к SQLite (modernc).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if isPostgresDSN(dsn) {
		dial = postgres.Open(dsn)
	} else {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Document{}); err != nil {
		return nil, err
	}
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func ensureSQLiteDir(dsn string) error {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// DBSink хранит документ одной строкой таблицы documents.
type DBSink struct {
	db   *gorm.DB
	name string
}

// NewDBSink создаёт хранилище документа с именем name поверх gorm.
func NewDBSink(db *gorm.DB, name string) *DBSink {
	return &DBSink{db: db, name: name}
}

// Read находит строку по имени и возвращает её тело.
func (s *DBSink) Read(ctx context.Context) ([]byte, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentAbsent
	}
	if err != nil {
		return nil, err
	}
	return doc.Body, nil
}

// Write перезаписывает документ без проверки версии: существующая строка обновляется.
func (s *DBSink) Write(ctx context.Context, data []byte) error {
	doc := &model.Document{Name: s.name, Body: data}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(doc).Error
}
