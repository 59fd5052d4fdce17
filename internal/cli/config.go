package cli

import (
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080/api"

// Config holds the CLI settings.
type Config struct {
	APIURL string
	Home   string
}

// LoadConfig reads TODO_API_URL and TODO_HOME, falling back to the local
// server and ~/.todo.
func LoadConfig() Config {
	cfg := Config{
		APIURL: os.Getenv("TODO_API_URL"),
		Home:   os.Getenv("TODO_HOME"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Home = filepath.Join(home, ".todo")
	}
	return cfg
}

func (c Config) sessionPath() string { return filepath.Join(c.Home, "session") }
func (c Config) localPath() string   { return filepath.Join(c.Home, "local.db") }
