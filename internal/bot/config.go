package bot

import (
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,notEmpty"`
	ApplicationID string `env:"APPLICATION_ID,notEmpty"`

	// PublicKey is the hex-encoded Ed25519 key Discord signs interaction
	// requests with.
	PublicKey string `env:"PUBLIC_KEY,notEmpty"`

	// Owners is the allow-list for owner-only commands.
	Owners []string `env:"OWNER_IDS" envSeparator:","`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// DataDir holds the flat-file TOML stores when Redis is not configured.
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// RedisAddr switches record storage to Redis when set.
	RedisAddr string `env:"REDIS_ADDR"`

	// SignatureMaxAge rejects interaction requests whose signature
	// timestamp is further than this from the server clock. Zero disables
	// the freshness check.
	SignatureMaxAge time.Duration `env:"SIGNATURE_MAX_AGE" envDefault:"0"`

	// ReminderSchedule is the cron spec for the reminder sweep.
	ReminderSchedule string `env:"REMINDER_SCHEDULE" envDefault:"@every 30s"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsOwner reports whether the user ID is in the owner allow-list.
func (c *Config) IsOwner(userID string) bool {
	return slices.Contains(c.Owners, userID)
}
