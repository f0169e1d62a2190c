package feeds

import (
	"context"
	"sort"
	"strings"
	"time"

	"feedmix/config"
	"feedmix/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxPageSize     = 100
	defaultPageSize = 20

	// Display fields when the profile lookup fails or a profile is missing
	placeholderAuthorName  = "Community Member"
	placeholderAuthorTitle = ""
)

// Quotas are the per-source page sizes. Each source keeps its own offset
// cursor keyed off the page index, so raising one quota leaves the other
// sources' pagination untouched.
type Quotas struct {
	Discussion int
	Update     int
	Resource   int
}

func (q Quotas) forKind(kind models.SourceKind) int {
	switch kind {
	case models.KindDiscussion:
		return q.Discussion
	case models.KindUpdate:
		return q.Update
	case models.KindResource:
		return q.Resource
	}
	return 0
}

// Composer assembles feed pages: concurrent multi-source fetch, scoring,
// cadence merge, deduplication and the continuation signal. Stateless; every
// call computes its result from scratch, so concurrent page requests cannot
// interfere with each other.
type Composer struct {
	source  Source
	authors AuthorLookup
	scorer  Scorer
	quotas  Quotas
	cadence int

	// Degrade path settings
	fallbackKind  models.SourceKind
	fallbackScore float64
}

func NewComposer(cfg *config.TomlConfig, source Source, authors AuthorLookup) *Composer {
	return &Composer{
		source:  source,
		authors: authors,
		scorer:  NewScorer(WeightsFromConfig(cfg.Scoring)),
		quotas: Quotas{
			Discussion: cfg.Compose.DiscussionQuota,
			Update:     cfg.Compose.UpdateQuota,
			Resource:   cfg.Compose.ResourceQuota,
		},
		cadence:       cfg.Compose.CadencePosts,
		fallbackKind:  models.KindDiscussion,
		fallbackScore: cfg.Compose.FallbackScore,
	}
}

// ComposePage produces one feed page. Failures never escape: a failed
// multi-source fetch degrades to a single-source result and a failed
// fallback yields an empty terminal page.
func (c *Composer) ComposePage(ctx context.Context, req models.PageRequest) *models.FeedPage {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.PageSize < 1 || req.PageSize > maxPageSize {
		req.PageSize = defaultPageSize
	}

	excludes, seenKeys := splitSeen(req.Seen)

	fetched, overfetched, err := c.fetchAll(ctx, req.Page, excludes)
	if err != nil {
		log.WithFields(log.Fields{
			"page":  req.Page,
			"error": err,
		}).Warn("Multi-source fetch failed, degrading to single source")
		return c.composeFallback(ctx, req, excludes[c.fallbackKind])
	}

	now := time.Now()
	items := c.normalize(ctx, fetched, now)

	// Drop anything the client already saw, then enforce the page-level
	// uniqueness invariant. Server-side exclusion should already have
	// handled the former; this is the final guarantee.
	items = lo.Filter(items, func(item models.FeedItem, _ int) bool {
		_, seen := seenKeys[item.CompositeKey()]
		return !seen
	})
	items = lo.UniqBy(items, func(item models.FeedItem) string {
		return item.CompositeKey()
	})

	posts := lo.Filter(items, func(item models.FeedItem, _ int) bool {
		return item.SourceKind != models.KindResource
	})
	resources := lo.Filter(items, func(item models.FeedItem, _ int) bool {
		return item.SourceKind == models.KindResource
	})

	// Posts are ranked by score; resources keep their most-recent-first
	// fetch order and are placed by cadence alone.
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Score != posts[j].Score {
			return posts[i].Score > posts[j].Score
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	merged := Merge(posts, resources, req.PageSize, c.cadence)

	leftover := len(posts)+len(resources) > len(merged)
	hasMore := overfetched || leftover

	page := &models.FeedPage{
		Posts:   merged,
		HasMore: hasMore,
	}
	if hasMore {
		page.NextPage = req.Page + 1
	}

	log.WithFields(log.Fields{
		"page":     req.Page,
		"pageSize": req.PageSize,
		"returned": len(merged),
		"hasMore":  hasMore,
	}).Info("Composed feed page")

	return page
}

// fetchAll fans out one fetch per source kind and joins them. There is no
// partial-result acceptance: the first error cancels the siblings and fails
// the whole batch. Each source over-fetches its quota by one so the
// continuation signal is exact.
func (c *Composer) fetchAll(ctx context.Context, page int, excludes map[models.SourceKind][]string) (map[models.SourceKind][]models.ContentRecord, bool, error) {
	kinds := []models.SourceKind{models.KindDiscussion, models.KindUpdate, models.KindResource}
	results := make([][]models.ContentRecord, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			quota := c.quotas.forKind(kind)
			records, err := c.source.FetchPage(gctx, kind, page*quota, quota+1, excludes[kind])
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	fetched := make(map[models.SourceKind][]models.ContentRecord, len(kinds))
	overfetched := false
	for i, kind := range kinds {
		quota := c.quotas.forKind(kind)
		records := results[i]
		if len(records) > quota {
			records = records[:quota]
			overfetched = true
		}
		fetched[kind] = records
	}

	return fetched, overfetched, nil
}

// normalize projects raw records into scored feed items and resolves author
// display fields with a single batched lookup across all sources. A failed
// lookup is non-fatal; missing authors render under a fixed placeholder.
func (c *Composer) normalize(ctx context.Context, fetched map[models.SourceKind][]models.ContentRecord, now time.Time) []models.FeedItem {
	var items []models.FeedItem
	for _, kind := range []models.SourceKind{models.KindDiscussion, models.KindUpdate, models.KindResource} {
		for _, rec := range fetched[kind] {
			items = append(items, c.toFeedItem(rec, kind, now))
		}
	}

	authorIDs := lo.Uniq(lo.Map(items, func(item models.FeedItem, _ int) string {
		return item.AuthorID
	}))

	authors, err := c.authors.GetAuthors(ctx, authorIDs)
	if err != nil {
		log.WithFields(log.Fields{
			"authors": len(authorIDs),
			"error":   err,
		}).Warn("Author lookup failed, using placeholder profiles")
		authors = map[string]models.Author{}
	}

	for i := range items {
		if author, ok := authors[items[i].AuthorID]; ok {
			items[i].AuthorName = author.FullName
			items[i].AuthorAvatar = author.AvatarURL
			items[i].AuthorTitle = author.JobTitle
		} else {
			items[i].AuthorName = placeholderAuthorName
			items[i].AuthorTitle = placeholderAuthorTitle
		}
	}

	return items
}

func (c *Composer) toFeedItem(rec models.ContentRecord, kind models.SourceKind, now time.Time) models.FeedItem {
	counts := models.EngagementCounts{
		Likes:    clampCount(rec.LikeCount),
		Comments: clampCount(rec.CommentCount),
		Views:    clampCount(rec.ViewCount),
	}

	return models.FeedItem{
		ID:         rec.ID,
		SourceKind: kind,
		CreatedAt:  rec.CreatedAt,
		Title:      rec.Title,
		Body:       rec.Body,
		Engagement: counts,
		Score:      c.scorer.Score(counts, rec.CreatedAt, kind, now),
		AuthorID:   rec.AuthorID,
	}
}

// composeFallback is the degrade path: most-recent items from exactly one
// source with a fixed placeholder score. If even this fails the caller gets
// an empty terminal page, never an error.
func (c *Composer) composeFallback(ctx context.Context, req models.PageRequest, exclude []string) *models.FeedPage {
	records, err := c.source.FetchPage(ctx, c.fallbackKind, req.Page*req.PageSize, req.PageSize+1, exclude)
	if err != nil {
		log.WithFields(log.Fields{
			"kind":  c.fallbackKind,
			"error": err,
		}).Error("Fallback fetch failed, returning empty page")
		return &models.FeedPage{Posts: []models.FeedItem{}, HasMore: false}
	}

	hasMore := len(records) > req.PageSize
	if hasMore {
		records = records[:req.PageSize]
	}

	now := time.Now()
	fetched := map[models.SourceKind][]models.ContentRecord{c.fallbackKind: records}
	items := c.normalize(ctx, fetched, now)
	if items == nil {
		items = []models.FeedItem{}
	}
	for i := range items {
		items[i].Score = c.fallbackScore
	}

	page := &models.FeedPage{Posts: items, HasMore: hasMore}
	if hasMore {
		page.NextPage = req.Page + 1
	}
	return page
}

func clampCount(n int) int {
	if n < 0 {
		log.WithFields(log.Fields{"count": n}).Debug("Clamping negative engagement count")
		return 0
	}
	return n
}

// splitSeen partitions client-supplied seen identifiers per source kind for
// query-layer exclusion and builds the composite-key set for the final
// page-level guard. Bare ids without a kind prefix are excluded from every
// source.
func splitSeen(seen []string) (map[models.SourceKind][]string, map[string]struct{}) {
	kinds := []models.SourceKind{models.KindDiscussion, models.KindUpdate, models.KindResource}

	excludes := make(map[models.SourceKind][]string, len(kinds))
	keys := make(map[string]struct{}, len(seen))

	for _, raw := range seen {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		kind, id, found := strings.Cut(raw, ":")
		if found {
			switch k := models.SourceKind(kind); k {
			case models.KindDiscussion, models.KindUpdate, models.KindResource:
				excludes[k] = append(excludes[k], id)
				keys[raw] = struct{}{}
				continue
			}
		}

		// Bare id, applies to all kinds
		for _, k := range kinds {
			excludes[k] = append(excludes[k], raw)
			keys[string(k)+":"+raw] = struct{}{}
		}
	}

	return excludes, keys
}
