package models

import "time"

// SourceKind tags which content collection a feed item came from
type SourceKind string

const (
	KindDiscussion SourceKind = "discussion"
	KindUpdate     SourceKind = "update"
	KindResource   SourceKind = "resource"
)

// EngagementCounts holds the interaction counters for a content item.
// Mutated by external write paths, never by the composer.
type EngagementCounts struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Views    int `json:"views"`
}

// ContentRecord is the raw store row shared by all three content tables
type ContentRecord struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	ViewCount    int       `json:"view_count"`
	Status       string    `json:"status"`
}

// Author is the profile record resolved by the batched lookup
type Author struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	JobTitle  string `json:"job_title"`
}

// FeedItem is the normalized, source-agnostic projection of a rankable
// content unit. Materialized fresh on every fetch and discarded once the
// response is produced.
type FeedItem struct {
	ID         string           `json:"id"`
	SourceKind SourceKind       `json:"source_kind"`
	CreatedAt  time.Time        `json:"created_at"`
	Title      string           `json:"title"`
	Body       string           `json:"body,omitempty"`
	Engagement EngagementCounts `json:"engagement"`

	// Derived, recomputed on every read, never persisted
	Score float64 `json:"score"`

	// Weak reference plus the display fields resolved by the batched join
	AuthorID     string `json:"author_id"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar,omitempty"`
	AuthorTitle  string `json:"author_title,omitempty"`
}

// CompositeKey is the deduplication identity of a feed item, unique across
// the whole feed and stable for the lifetime of the underlying content item.
func (i FeedItem) CompositeKey() string {
	return string(i.SourceKind) + ":" + i.ID
}

// PageRequest describes one page-fetch call into the composer. Seen holds
// composite keys accumulated client-side across prior pages of the same
// browsing session.
type PageRequest struct {
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	Seen     []string `json:"seen,omitempty"`
}

// FeedPage is the composed result handed back to callers
type FeedPage struct {
	Posts    []FeedItem `json:"posts"`
	HasMore  bool       `json:"hasMore"`
	NextPage int        `json:"nextPage"`
}

// EngagementAggregatedByTime backs the dashboard aggregation endpoint
type EngagementAggregatedByTime struct {
	Time     time.Time `json:"time"`
	Count    int64     `json:"count"`
	Likes    int64     `json:"likes"`
	Comments int64     `json:"comments"`
}
