package config

import (
	"errors"
	"os"

	"materials-service/internal/MinIO"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" env-default:"3000"`

	// DataDir holds the three JSON documents, UploadDir the stored binaries.
	DataDir   string `env:"DATA_DIR" env-default:"./data"`
	UploadDir string `env:"UPLOAD_DIR" env-default:"./uploads"`

	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" env-default:"10485760"`

	// InitialPassword seeds the teacher and module tables on first startup.
	InitialPassword string `env:"INITIAL_PASSWORD" env-default:"pass1234"`

	// FuzzyTeacherLookup enables the substring fallback when a teacher login
	// name does not match a display name exactly.
	FuzzyTeacherLookup bool `env:"FUZZY_TEACHER_LOOKUP" env-default:"true"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:5500"`

	// MinIOEnabled switches uploaded binaries from the local upload directory
	// to an object-storage bucket.
	MinIOEnabled bool `env:"MINIO_ENABLED" env-default:"false"`
	MinIO        MinIO.Config
}

func New() (*Config, error) {
	var cfg Config
	path := "./.env"
	if _, err := os.Stat(path); err != nil {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.New("cannot read config from environment")
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, errors.New("cannot read config")
	}
	return &cfg, nil
}
