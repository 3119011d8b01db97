package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server and editor-client configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds one durable file path per logical store. Each file is
// rewritten wholly on every mutation.
type StorageConfig struct {
	ProjectsPath  string `yaml:"projects_path"`
	TemplatesPath string `yaml:"templates_path"`
	CommitsPath   string `yaml:"commits_path"`
}

// GitConfig selects and parameterizes the version-control backend.
type GitConfig struct {
	Backend     string `yaml:"backend"` // "local" or "remote"
	RemoteURL   string `yaml:"remote_url"`
	LocalDBPath string `yaml:"local_db_path"`
	LatencyMS   int    `yaml:"latency_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		Storage: StorageConfig{
			ProjectsPath:  "projects.json",
			TemplatesPath: "templates.json",
			CommitsPath:   "git_data.json",
		},
		Git: GitConfig{
			Backend:     "local",
			RemoteURL:   "http://localhost:3000",
			LocalDBPath: "studio_git.db",
			LatencyMS:   150,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("STUDIO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("STUDIO_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("STUDIO_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid STUDIO_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if path := os.Getenv("STUDIO_PROJECTS_PATH"); path != "" {
		cfg.Storage.ProjectsPath = path
	}
	if path := os.Getenv("STUDIO_TEMPLATES_PATH"); path != "" {
		cfg.Storage.TemplatesPath = path
	}
	if path := os.Getenv("STUDIO_COMMITS_PATH"); path != "" {
		cfg.Storage.CommitsPath = path
	}
	if backend := os.Getenv("STUDIO_GIT_BACKEND"); backend != "" {
		cfg.Git.Backend = backend
	}
	if url := os.Getenv("STUDIO_GIT_REMOTE_URL"); url != "" {
		cfg.Git.RemoteURL = url
	}
	if path := os.Getenv("STUDIO_GIT_DB_PATH"); path != "" {
		cfg.Git.LocalDBPath = path
	}
	if level := os.Getenv("STUDIO_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
