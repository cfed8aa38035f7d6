package evidence_test

import (
	"testing"

	"github.com/myrjola/dockwatch/internal/evidence"
	"github.com/stretchr/testify/require"
)

func TestStoreReplacesCategory(t *testing.T) {
	store := evidence.NewStore()

	store.Put(evidence.Item{Category: evidence.Video, Filename: "first.mp4", MediaType: "video/mp4", Payload: "Zmlyc3Q="})
	store.Put(evidence.Item{Category: evidence.Audio, Filename: "log.mp3", MediaType: "audio/mpeg", Payload: "bG9n"})
	store.Put(evidence.Item{Category: evidence.Video, Filename: "second.mp4", MediaType: "video/mp4", Payload: "c2Vjb25k"})

	require.Equal(t, 2, store.Len(), "replacement must not accumulate items")

	item, ok := store.Get(evidence.Video)
	require.True(t, ok)
	require.Equal(t, "second.mp4", item.Filename)
	require.Equal(t, "c2Vjb25k", item.Payload, "only the second file's data remains")

	// Replacement takes the newest position in insertion order.
	all := store.All()
	require.Equal(t, evidence.Audio, all[0].Category)
	require.Equal(t, evidence.Video, all[1].Category)
}

func TestStoreClear(t *testing.T) {
	store := evidence.NewStore()
	store.Put(evidence.Item{Category: evidence.Document, Filename: "manifest.pdf", MediaType: "application/pdf", Payload: "cGRm"})
	require.True(t, store.Has(evidence.Document))

	store.Clear()

	require.Equal(t, 0, store.Len())
	require.False(t, store.Has(evidence.Document))
	require.Empty(t, store.All())
}

func TestCategoryAccepts(t *testing.T) {
	tests := []struct {
		name      string
		category  evidence.Category
		mediaType string
		want      bool
	}{
		{name: "video family", category: evidence.Video, mediaType: "video/webm", want: true},
		{name: "video rejects audio", category: evidence.Video, mediaType: "audio/mpeg", want: false},
		{name: "audio family", category: evidence.Audio, mediaType: "audio/wav", want: true},
		{name: "document accepts image", category: evidence.Document, mediaType: "image/jpeg", want: true},
		{name: "document accepts pdf", category: evidence.Document, mediaType: "application/pdf", want: true},
		{name: "document rejects video", category: evidence.Document, mediaType: "video/mp4", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.category.Accepts(tt.mediaType))
		})
	}
}
