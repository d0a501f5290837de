package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/facekiosk/facekiosk/internal/constants"
)

//go:embed roster.yaml
var rosterYAML []byte

type Config struct {
	OpenAI  OpenAIConfig
	Gemini  GeminiConfig
	Kiosk   KioskConfig
	Store   StoreConfig
	Webhook WebhookConfig
	Roster  RosterConfig
}

type OpenAIConfig struct {
	Token string
}

type GeminiConfig struct {
	APIKey string
}

type KioskConfig struct {
	Provider            string        // "openai" (default) or "gemini"
	ConfidenceThreshold float64       // minimum confidence to accept a match
	StaffCapacity       int           // maximum registered identities
	HistoryCapacity     int           // maximum local attendance records
	MaxReferencePhotos  int           // reference photos per identification request
	DuplicateWindow     time.Duration // repeated check-in suppression window
	Camera              string        // ffmpeg input for headless capture (e.g., /dev/video0)
}

type StoreConfig struct {
	Path        string // JSON snapshot file path (file backend)
	DatabaseDSN string // MySQL DSN; when set, the mysql backend is used
}

type WebhookConfig struct {
	URL          string        // initial endpoint URL; runtime value lives in the store
	SyncInterval time.Duration // background pull/merge period, clamped to [30s, 5m]
}

// RosterConfig holds identities preloaded from the embedded roster file.
// Preloaded entries are merged into the store on first start and are skipped
// when an identity with the same ID already exists.
type RosterConfig struct {
	Staff []SeedStaff `yaml:"staff"`
}

type SeedStaff struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Description string `yaml:"description"`
	Photo       string `yaml:"photo"` // base64-encoded JPEG, optional
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float in (0, 1].
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= 1 {
		return f
	}
	return defaultVal
}

// envDuration reads an environment variable as a time.Duration.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// clampSyncInterval keeps the pull period within the supported band.
func clampSyncInterval(d time.Duration) time.Duration {
	if d < constants.MinSyncInterval {
		return constants.MinSyncInterval
	}
	if d > constants.MaxSyncInterval {
		return constants.MaxSyncInterval
	}
	return d
}

func Load() *Config {
	var roster RosterConfig
	if err := yaml.Unmarshal(rosterYAML, &roster); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded roster.yaml: " + err.Error())
	}

	return &Config{
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Kiosk: KioskConfig{
			Provider:            envString("KIOSK_PROVIDER", "openai"),
			ConfidenceThreshold: envFloat("KIOSK_CONFIDENCE_THRESHOLD", constants.DefaultConfidenceThreshold),
			StaffCapacity:       envInt("KIOSK_STAFF_CAPACITY", constants.DefaultStaffCapacity),
			HistoryCapacity:     envInt("KIOSK_HISTORY_CAPACITY", constants.DefaultHistoryCapacity),
			MaxReferencePhotos:  envInt("KIOSK_MAX_REFERENCE_PHOTOS", constants.DefaultMaxReferencePhotos),
			DuplicateWindow:     envDuration("KIOSK_DUPLICATE_WINDOW", constants.DefaultDuplicateWindow),
			Camera:              os.Getenv("KIOSK_CAMERA"),
		},
		Store: StoreConfig{
			Path:        envString("KIOSK_STORE_PATH", "kiosk-state.json"),
			DatabaseDSN: os.Getenv("KIOSK_DATABASE_DSN"),
		},
		Webhook: WebhookConfig{
			URL:          os.Getenv("KIOSK_WEBHOOK_URL"),
			SyncInterval: clampSyncInterval(envDuration("KIOSK_SYNC_INTERVAL", constants.DefaultSyncInterval)),
		},
		Roster: roster,
	}
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}
