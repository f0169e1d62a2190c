package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// TomlScoring holds the scoring weights and bonus constants. All values have
// working defaults so a missing [scoring] section yields the stock ranking.
type TomlScoring struct {
	LikeWeight    float64 `toml:"like_weight"`
	CommentWeight float64 `toml:"comment_weight"`
	ViewWeight    float64 `toml:"view_weight"`
	DecayHours    float64 `toml:"decay_hours"`
	DecayFloor    float64 `toml:"decay_floor"`
	FreshHours    float64 `toml:"fresh_hours"`
	FreshBonus    float64 `toml:"fresh_bonus"`
	RecentHours   float64 `toml:"recent_hours"`
	RecentBonus   float64 `toml:"recent_bonus"`
	ResourceBonus float64 `toml:"resource_bonus"`
}

// TomlCompose controls page assembly: per-source quotas, the interleave
// cadence and the degrade-path placeholder.
type TomlCompose struct {
	DiscussionQuota int     `toml:"discussion_quota"`
	UpdateQuota     int     `toml:"update_quota"`
	ResourceQuota   int     `toml:"resource_quota"`
	CadencePosts    int     `toml:"cadence_posts"`
	FallbackScore   float64 `toml:"fallback_score"`
}

// TomlRedis configures the optional source-level read-through cache
type TomlRedis struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Database string      `toml:"database"`
	Hostname string      `toml:"hostname"`
	Port     int         `toml:"port"`
	Scoring  TomlScoring `toml:"scoring"`
	Compose  TomlCompose `toml:"compose"`
	Redis    TomlRedis   `toml:"redis"`
}

func LoadConfig(path string) (*TomlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config TomlConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	config.FillDefaults()
	return &config, nil
}

// Default returns a config with every field at its stock value, used when no
// config file is given.
func Default() *TomlConfig {
	cfg := &TomlConfig{}
	cfg.FillDefaults()
	return cfg
}

// FillDefaults applies default values if not provided
func (c *TomlConfig) FillDefaults() {
	if c.Database == "" {
		c.Database = "feedmix.db"
	}
	if c.Hostname == "" {
		c.Hostname = "localhost"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.Scoring.LikeWeight == 0 {
		c.Scoring.LikeWeight = 3
	}
	if c.Scoring.CommentWeight == 0 {
		c.Scoring.CommentWeight = 5
	}
	if c.Scoring.ViewWeight == 0 {
		c.Scoring.ViewWeight = 0.1
	}
	if c.Scoring.DecayHours == 0 {
		c.Scoring.DecayHours = 168
	}
	if c.Scoring.DecayFloor == 0 {
		c.Scoring.DecayFloor = 0.1
	}
	if c.Scoring.FreshHours == 0 {
		c.Scoring.FreshHours = 2
	}
	if c.Scoring.FreshBonus == 0 {
		c.Scoring.FreshBonus = 50
	}
	if c.Scoring.RecentHours == 0 {
		c.Scoring.RecentHours = 12
	}
	if c.Scoring.RecentBonus == 0 {
		c.Scoring.RecentBonus = 20
	}
	if c.Scoring.ResourceBonus == 0 {
		c.Scoring.ResourceBonus = 10
	}
	if c.Compose.DiscussionQuota == 0 {
		c.Compose.DiscussionQuota = 10
	}
	if c.Compose.UpdateQuota == 0 {
		c.Compose.UpdateQuota = 10
	}
	if c.Compose.ResourceQuota == 0 {
		c.Compose.ResourceQuota = 5
	}
	if c.Compose.CadencePosts == 0 {
		c.Compose.CadencePosts = 3
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.TTL == "" {
		c.Redis.TTL = "30s"
	}
}

// CacheTTL parses the redis TTL duration string, falling back to 30 seconds
// on an invalid value.
func (c *TomlConfig) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Redis.TTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
