package feeds_test

import (
	"fmt"
	"testing"

	"feedmix/feeds"
	"feedmix/models"

	"github.com/stretchr/testify/assert"
)

func makePosts(n int) []models.FeedItem {
	posts := make([]models.FeedItem, n)
	for i := 0; i < n; i++ {
		posts[i] = models.FeedItem{
			ID:         fmt.Sprintf("post-%d", i+1),
			SourceKind: models.KindDiscussion,
			Score:      float64(n - i),
		}
	}
	return posts
}

func makeResources(n int) []models.FeedItem {
	resources := make([]models.FeedItem, n)
	for i := 0; i < n; i++ {
		resources[i] = models.FeedItem{
			ID:         fmt.Sprintf("resource-%d", i+1),
			SourceKind: models.KindResource,
		}
	}
	return resources
}

func ids(items []models.FeedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestMergeCadence(t *testing.T) {
	// Ten ranked posts, three resources, page of ten: strict 3:1 interleave
	// truncated at exactly pageSize
	out := feeds.Merge(makePosts(10), makeResources(3), 10, 3)

	assert.Equal(t, []string{
		"post-1", "post-2", "post-3", "resource-1",
		"post-4", "post-5", "post-6", "resource-2",
		"post-7", "post-8",
	}, ids(out))
}

func TestMergeDrainsResourcesWhenPostsRunOut(t *testing.T) {
	out := feeds.Merge(makePosts(2), makeResources(5), 10, 3)

	assert.Equal(t, []string{
		"post-1", "post-2", "resource-1",
		"resource-2", "resource-3", "resource-4", "resource-5",
	}, ids(out))
	assert.Len(t, out, 7)
}

func TestMergeDrainsPostsWhenResourcesRunOut(t *testing.T) {
	out := feeds.Merge(makePosts(8), makeResources(1), 10, 3)

	assert.Equal(t, []string{
		"post-1", "post-2", "post-3", "resource-1",
		"post-4", "post-5", "post-6", "post-7", "post-8",
	}, ids(out))
}

func TestMergeTruncatesAtPageSize(t *testing.T) {
	out := feeds.Merge(makePosts(20), makeResources(20), 5, 3)
	assert.Equal(t, []string{"post-1", "post-2", "post-3", "resource-1", "post-4"}, ids(out))
}

func TestMergeEmptyInputs(t *testing.T) {
	tests := []struct {
		name      string
		posts     []models.FeedItem
		resources []models.FeedItem
		expected  []string
	}{
		{
			name:     "both empty",
			expected: []string{},
		},
		{
			name:     "posts only",
			posts:    makePosts(4),
			expected: []string{"post-1", "post-2", "post-3", "post-4"},
		},
		{
			name:      "resources only",
			resources: makeResources(2),
			expected:  []string{"resource-1", "resource-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := feeds.Merge(tt.posts, tt.resources, 10, 3)
			assert.Equal(t, tt.expected, ids(out))
		})
	}
}

func TestMergeZeroPageSize(t *testing.T) {
	out := feeds.Merge(makePosts(3), makeResources(3), 0, 3)
	assert.Empty(t, out)
}
