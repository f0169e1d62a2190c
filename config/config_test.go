package config_test

import (
	"testing"
	"time"

	"feedmix/config"

	"github.com/stretchr/testify/assert"
)

func TestDefaultScoringConstants(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 3.0, cfg.Scoring.LikeWeight)
	assert.Equal(t, 5.0, cfg.Scoring.CommentWeight)
	assert.Equal(t, 0.1, cfg.Scoring.ViewWeight)
	assert.Equal(t, 168.0, cfg.Scoring.DecayHours)
	assert.Equal(t, 0.1, cfg.Scoring.DecayFloor)
	assert.Equal(t, 50.0, cfg.Scoring.FreshBonus)
	assert.Equal(t, 20.0, cfg.Scoring.RecentBonus)
	assert.Equal(t, 10.0, cfg.Scoring.ResourceBonus)
	assert.Equal(t, 3, cfg.Compose.CadencePosts)
}

func TestCacheTTLFallsBackOnInvalidDuration(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.TTL = "not-a-duration"
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())

	cfg.Redis.TTL = "2m"
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
}
