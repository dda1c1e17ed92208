package config

import (
	"flag"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Типы хранилища документа с пожеланиями
const (
	SinkFile = "file"
	SinkDB   = "db"
	SinkS3   = "s3"
)

type Config struct {
	// Server-side settings
	AdminPassword string   `env:"ADMIN_PASSWORD"`
	SinkKind      string   `env:"WISHES_SINK"`
	FilePath      string   `env:"WISHES_FILE"`
	ObjectName    string   `env:"WISHES_OBJECT"`
	DatabaseDSN   string   `env:"DATABASE_URI"`
	S3Bucket      string   `env:"S3_BUCKET"`
	S3Endpoint    string   `env:"S3_ENDPOINT"`
	AWSRegion     string   `env:"AWS_REGION"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envSeparator:","`

	// ListStrict выключает fail-open при чтении списка: ошибка хранилища отдаётся клиенту.
	ListStrict bool `env:"LIST_STRICT"`
	// DisableWriteQueue отключает сериализацию изменяющих операций внутри процесса.
	DisableWriteQueue bool `env:"DISABLE_WRITE_QUEUE"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "пароль администратора для ответов и удаления")
	flag.StringVar(&cfg.SinkKind, "sink", cfg.SinkKind, "хранилище документа: file | db | s3")
	flag.StringVar(&cfg.FilePath, "file", cfg.FilePath, "путь к JSON-файлу (sink=file)")
	flag.StringVar(&cfg.ObjectName, "object", cfg.ObjectName, "имя документа в удалённом хранилище (sink=db|s3)")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (sink=db)")
	flag.StringVar(&cfg.S3Bucket, "bucket", cfg.S3Bucket, "S3 bucket (sink=s3)")
	flag.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "custom S3-compatible endpoint (sink=s3)")
	flag.BoolVar(&cfg.ListStrict, "list-strict", cfg.ListStrict, "отдавать 500 при ошибке чтения списка")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the wishes server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	// Defaults
	cfg.SinkKind = strings.ToLower(strings.TrimSpace(cfg.SinkKind))
	if cfg.SinkKind == "" {
		cfg.SinkKind = SinkFile
	}
	if cfg.FilePath == "" {
		cfg.FilePath = "data/wishes.json"
	}
	if cfg.ObjectName == "" {
		cfg.ObjectName = "wishes.json"
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "data/wishes.db"
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = "us-east-1"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	return cfg
}
