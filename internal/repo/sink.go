package repo

import (
	"Wishwall/internal/config"
	"context"
	"errors"
	"fmt"
)

// ErrDocumentAbsent — документ ещё ни разу не записывался.
var ErrDocumentAbsent = errors.New("document absent")

// DocumentSink — место хранения единственного JSON-документа с пожеланиями.
// Документ всегда читается и перезаписывается целиком.
type DocumentSink interface {
	// Read возвращает содержимое документа или ErrDocumentAbsent.
	Read(ctx context.Context) ([]byte, error)
	// Write полностью заменяет документ.
	Write(ctx context.Context, data []byte) error
}

// NewSink выбирает реализацию хранилища по конфигурации.
func NewSink(ctx context.Context, cfg *config.Config) (DocumentSink, error) {
	switch cfg.SinkKind {
	case config.SinkFile:
		return NewFileSink(cfg.FilePath), nil
	case config.SinkDB:
		db, err := InitDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("init db: %w", err)
		}
		return NewDBSink(db, cfg.ObjectName), nil
	case config.SinkS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 sink requires a bucket")
		}
		client, err := NewS3Client(ctx, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			return nil, fmt.Errorf("init s3 client: %w", err)
		}
		return NewS3Sink(client, cfg.S3Bucket, cfg.ObjectName), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.SinkKind)
	}
}
