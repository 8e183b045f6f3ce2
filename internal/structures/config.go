package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type TrackingConfig struct {
	Identity  int64  `yaml:"identity" validate:"required|min:1"`
	StartDate string `yaml:"startDate" validate:"required"`
}

type ArchiveConfig struct {
	BaseURL        string        `yaml:"baseUrl" validate:"required"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"required|min:1"`
	MaxRetries     int           `yaml:"maxRetries"`
	InitialWait    time.Duration `yaml:"initialWait" validate:"required|min:1"`
	BackoffFactor  float64       `yaml:"backoffFactor" validate:"required"`
	MaxLineBytes   int           `yaml:"maxLineBytes"`
}

type EncryptionConfig struct {
	RecipientKey string `yaml:"recipientKey"`
}

type GitConfig struct {
	RepoPath      string        `yaml:"repoPath" validate:"required"`
	Remote        string        `yaml:"remote" validate:"required"`
	MaxRetries    int           `yaml:"maxRetries"`
	InitialWait   time.Duration `yaml:"initialWait" validate:"required|min:1"`
	BackoffFactor float64       `yaml:"backoffFactor" validate:"required"`
}

type StorageConfig struct {
	DataDir      string `yaml:"dataDir" validate:"required|unixPath"`
	ProgressPath string `yaml:"progressPath" validate:"required"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName    string
	Debug      bool
	Path       string
	Tracking   TrackingConfig   `yaml:"tracking"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Encryption EncryptionConfig `yaml:"encryption"`
	Git        GitConfig        `yaml:"git"`
	Storage    StorageConfig    `yaml:"storage"`
	WebServer  Server           `yaml:"webServer"`
	Logger     LoggerConfig     `yaml:"logger"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}
