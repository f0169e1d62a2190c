package cache

import (
	"testing"

	"feedmix/models"

	"github.com/stretchr/testify/assert"
)

func TestPageKeyStableUnderExclusionOrder(t *testing.T) {
	a := pageKey(models.KindDiscussion, 0, 11, []string{"id-1", "id-2", "id-3"})
	b := pageKey(models.KindDiscussion, 0, 11, []string{"id-3", "id-1", "id-2"})
	assert.Equal(t, a, b)
}

func TestPageKeyVariesByQueryIdentity(t *testing.T) {
	base := pageKey(models.KindDiscussion, 0, 11, nil)

	tests := []struct {
		name string
		key  string
	}{
		{
			name: "different kind",
			key:  pageKey(models.KindResource, 0, 11, nil),
		},
		{
			name: "different offset",
			key:  pageKey(models.KindDiscussion, 10, 11, nil),
		},
		{
			name: "different limit",
			key:  pageKey(models.KindDiscussion, 0, 6, nil),
		},
		{
			name: "different exclusion set",
			key:  pageKey(models.KindDiscussion, 0, 11, []string{"id-1"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.key)
		})
	}
}
