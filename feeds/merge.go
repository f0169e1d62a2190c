package feeds

import "feedmix/models"

// Merge interleaves ranked posts with resources under a fixed cadence:
// up to cadence posts, then one resource, repeated until pageSize items are
// placed or both inputs run dry. Posts arrive pre-sorted by score; resources
// keep their fetched order and are never score-compared against posts. The
// cadence is a content-mix policy, not a ranking.
//
// When one list runs out the other keeps draining under the same rhythm, so
// a resource only ever appears without its three preceding posts at the tail
// end, once posts are exhausted. Output order is stable with respect to both
// inputs and never exceeds pageSize; a short result means both inputs were
// exhausted first.
func Merge(posts []models.FeedItem, resources []models.FeedItem, pageSize int, cadence int) []models.FeedItem {
	if pageSize <= 0 {
		return []models.FeedItem{}
	}
	if cadence <= 0 {
		cadence = 3
	}

	out := make([]models.FeedItem, 0, pageSize)
	pi, ri := 0, 0

	for len(out) < pageSize && (pi < len(posts) || ri < len(resources)) {
		for n := 0; n < cadence && pi < len(posts) && len(out) < pageSize; n++ {
			out = append(out, posts[pi])
			pi++
		}
		if ri < len(resources) && len(out) < pageSize {
			out = append(out, resources[ri])
			ri++
		}
	}

	return out
}
