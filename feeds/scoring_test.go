package feeds_test

import (
	"testing"
	"time"

	"feedmix/feeds"
	"feedmix/models"

	"github.com/stretchr/testify/assert"
)

func TestScoreRecencyBonusBoundaries(t *testing.T) {
	now := time.Now()
	scorer := feeds.NewScorer(feeds.DefaultWeights())
	zero := models.EngagementCounts{}

	tests := []struct {
		name     string
		age      time.Duration
		expected float64
	}{
		{
			name:     "brand new item gets the fresh bonus",
			age:      0,
			expected: 50,
		},
		{
			name:     "one hour old still fresh",
			age:      1 * time.Hour,
			expected: 50,
		},
		{
			name:     "six hours old gets the recent bonus",
			age:      6 * time.Hour,
			expected: 20,
		},
		{
			name:     "thirteen hours old gets no bonus",
			age:      13 * time.Hour,
			expected: 0,
		},
		{
			name:     "two hundred hours old scores nothing without engagement",
			age:      200 * time.Hour,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(zero, now.Add(-tt.age), models.KindDiscussion, now)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	now := time.Now()
	scorer := feeds.NewScorer(feeds.DefaultWeights())
	createdAt := now.Add(-24 * time.Hour)

	base := scorer.Score(models.EngagementCounts{Likes: 5, Comments: 2, Views: 100}, createdAt, models.KindDiscussion, now)

	tests := []struct {
		name   string
		counts models.EngagementCounts
	}{
		{
			name:   "more likes",
			counts: models.EngagementCounts{Likes: 6, Comments: 2, Views: 100},
		},
		{
			name:   "more comments",
			counts: models.EngagementCounts{Likes: 5, Comments: 3, Views: 100},
		},
		{
			name:   "more views",
			counts: models.EngagementCounts{Likes: 5, Comments: 2, Views: 101},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.counts, createdAt, models.KindDiscussion, now)
			assert.GreaterOrEqual(t, got, base)
		})
	}
}

func TestScoreDecayFloor(t *testing.T) {
	now := time.Now()
	scorer := feeds.NewScorer(feeds.DefaultWeights())
	counts := models.EngagementCounts{Likes: 10, Comments: 4, Views: 200}

	// rawScore = 10*3 + 4*5 + 200*0.1 = 70
	raw := 70.0

	tests := []struct {
		name string
		age  time.Duration
	}{
		{name: "exactly one week", age: 168 * time.Hour},
		{name: "two weeks", age: 336 * time.Hour},
		{name: "a year", age: 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(counts, now.Add(-tt.age), models.KindDiscussion, now)
			// Items past the decay window keep exactly 10% weight, never less
			assert.InDelta(t, raw*0.1, got, 1e-9)
		})
	}
}

func TestScoreResourceBonus(t *testing.T) {
	now := time.Now()
	scorer := feeds.NewScorer(feeds.DefaultWeights())
	counts := models.EngagementCounts{Likes: 2}
	createdAt := now.Add(-24 * time.Hour)

	discussion := scorer.Score(counts, createdAt, models.KindDiscussion, now)
	update := scorer.Score(counts, createdAt, models.KindUpdate, now)
	resource := scorer.Score(counts, createdAt, models.KindResource, now)

	assert.Equal(t, discussion, update)
	assert.InDelta(t, discussion+10, resource, 1e-9)
}

func TestScoreClockSkewTreatedAsNew(t *testing.T) {
	now := time.Now()
	scorer := feeds.NewScorer(feeds.DefaultWeights())

	// createdAt in the future must behave like age zero
	got := scorer.Score(models.EngagementCounts{}, now.Add(30*time.Minute), models.KindDiscussion, now)
	assert.Equal(t, 50.0, got)
}

func TestScoreDeterminism(t *testing.T) {
	now := time.Now()
	scorer := feeds.NewScorer(feeds.DefaultWeights())
	counts := models.EngagementCounts{Likes: 7, Comments: 3, Views: 123}
	createdAt := now.Add(-30 * time.Hour)

	first := scorer.Score(counts, createdAt, models.KindResource, now)
	second := scorer.Score(counts, createdAt, models.KindResource, now)
	assert.Equal(t, first, second)
}
