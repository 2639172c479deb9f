package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppName names the config directory and the binary
const AppName = "go-practice"

// Duration is a time.Duration that reads and writes as "30s" in JSON
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// APIConfig points the client at a track server
type APIConfig struct {
	BaseURL string   `json:"baseUrl"`
	Timeout Duration `json:"timeout,omitempty"`
}

// KeyboardConfig selects the MIDI keyboard and the computer-keyboard octave
type KeyboardConfig struct {
	PortName    string `json:"portName,omitempty"` // substring match, empty = any
	AutoConnect bool   `json:"autoConnect"`
	Channel     int    `json:"channel"` // -1 = all channels
	Octave      int    `json:"octave"`  // octave of the "a" key
}

// SessionConfig tunes the practice clock
type SessionConfig struct {
	FPS             int     `json:"fps"`
	TimeScale       float64 `json:"timeScale"`
	RewindOnRestart bool    `json:"rewindOnRestart"`
}

// FrameInterval returns the delay between frame callbacks
func (s SessionConfig) FrameInterval() time.Duration {
	fps := s.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// ServerConfig configures `serve`
type ServerConfig struct {
	Addr          string   `json:"addr"`
	LibraryDir    string   `json:"libraryDir,omitempty"`
	RedisAddr     string   `json:"redisAddr,omitempty"` // empty = no cache
	RedisPassword string   `json:"redisPassword,omitempty"`
	RedisDB       int      `json:"redisDb,omitempty"`
	CacheTTL      Duration `json:"cacheTtl,omitempty"`
}

// LogConfig configures the debug log
type LogConfig struct {
	Path       string `json:"path,omitempty"`
	Level      string `json:"level,omitempty"`
	MaxSizeMB  int    `json:"maxSizeMb,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty"`
	Compress   bool   `json:"compress,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	API      APIConfig      `json:"api"`
	Keyboard KeyboardConfig `json:"keyboard"`
	Session  SessionConfig  `json:"session"`
	Server   ServerConfig   `json:"server"`
	Log      LogConfig      `json:"log,omitempty"`

	// Palette is an embedded palette name or a path to a .gpl file
	Palette string `json:"palette,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: Duration(30 * time.Second),
		},
		Keyboard: KeyboardConfig{
			AutoConnect: true,
			Channel:     -1,
			Octave:      4,
		},
		Session: SessionConfig{
			FPS:       60,
			TimeScale: 2,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			CacheTTL: Duration(time.Hour),
		},
		Log: LogConfig{
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Palette: "plasma",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the configured log path, defaulting to debug.log in the config dir
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName+".log")
	}
	return filepath.Join(dir, "debug.log")
}

// Load reads the config from disk, or returns defaults if not found.
// Environment variables (optionally from a .env file) override the file.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}

	// A missing .env is fine, the real environment still applies
	_ = godotenv.Load()
	cfg.ApplyEnv()

	return cfg, nil
}

func loadFile() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Start from defaults so fields missing in the file keep their default
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from PRACTICE_* environment variables
func (c *Config) ApplyEnv() {
	c.API.BaseURL = getEnv("PRACTICE_API_URL", c.API.BaseURL)
	c.API.Timeout = getEnvDuration("PRACTICE_API_TIMEOUT", c.API.Timeout)
	c.Keyboard.PortName = getEnv("PRACTICE_KEYBOARD_PORT", c.Keyboard.PortName)
	c.Session.FPS = getEnvInt("PRACTICE_FPS", c.Session.FPS)
	c.Session.RewindOnRestart = getEnvBool("PRACTICE_REWIND_ON_RESTART", c.Session.RewindOnRestart)
	c.Server.Addr = getEnv("PRACTICE_LISTEN_ADDR", c.Server.Addr)
	c.Server.LibraryDir = getEnv("PRACTICE_LIBRARY_DIR", c.Server.LibraryDir)
	c.Server.RedisAddr = getEnv("PRACTICE_REDIS_ADDR", c.Server.RedisAddr)
	c.Server.RedisPassword = getEnv("PRACTICE_REDIS_PASSWORD", c.Server.RedisPassword)
	c.Server.RedisDB = getEnvInt("PRACTICE_REDIS_DB", c.Server.RedisDB)
	c.Log.Path = getEnv("PRACTICE_LOG_PATH", c.Log.Path)
	c.Log.Level = getEnv("PRACTICE_LOG_LEVEL", c.Log.Level)
	c.Palette = getEnv("PRACTICE_PALETTE", c.Palette)
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback Duration) Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return Duration(d)
		}
	}
	return fallback
}
