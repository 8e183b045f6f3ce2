package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ghvault/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Tracking: structures.TrackingConfig{
			Identity:  42,
			StartDate: "2020-01-01",
		},
		Archive: structures.ArchiveConfig{
			BaseURL:        "https://data.gharchive.org",
			RequestTimeout: 120 * time.Second,
			MaxRetries:     5,
			InitialWait:    time.Second,
			BackoffFactor:  2.0,
		},
		Git: structures.GitConfig{
			RepoPath:      ".",
			Remote:        "origin",
			MaxRetries:    3,
			InitialWait:   time.Second,
			BackoffFactor: 2.0,
		},
		Storage: structures.StorageConfig{
			DataDir:      "/tmp/ghvault/data",
			ProgressPath: "metadata.json",
		},
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8424,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_MissingIdentity(t *testing.T) {
	c := validConfig()
	c.Tracking.Identity = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NegativeIdentity(t *testing.T) {
	c := validConfig()
	c.Tracking.Identity = -7
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyStartDate(t *testing.T) {
	c := validConfig()
	c.Tracking.StartDate = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyBaseURL(t *testing.T) {
	c := validConfig()
	c.Archive.BaseURL = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyRepoPath(t *testing.T) {
	c := validConfig()
	c.Git.RepoPath = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
