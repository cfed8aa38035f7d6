// Package evidence holds the in-memory evidence set of an investigation:
// at most one file per category, each encoded for the analysis collaborator.
package evidence

import (
	"strings"
)

// Category is one of the three fixed evidence slots.
type Category string

const (
	Video    Category = "video"
	Audio    Category = "audio"
	Document Category = "document"
)

// Categories lists the slots in their canonical display order.
var Categories = []Category{Video, Audio, Document}

func (c Category) Valid() bool {
	switch c {
	case Video, Audio, Document:
		return true
	}
	return false
}

// Accepts reports whether a media type belongs to the category's family.
// Documents accept image formats or PDF, matching scanned manifests.
func (c Category) Accepts(mediaType string) bool {
	switch c {
	case Video:
		return strings.HasPrefix(mediaType, "video/")
	case Audio:
		return strings.HasPrefix(mediaType, "audio/")
	case Document:
		return strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf"
	}
	return false
}

// Item is one encoded piece of evidence.
type Item struct {
	Category  Category
	Filename  string
	MediaType string
	// Payload is the file content encoded as standard base64 without a
	// data-URL prefix.
	Payload string
}

// Store maps the three category slots to at most one item each. It is not
// safe for concurrent use; the owning investigation session serializes access.
type Store struct {
	items []Item
}

func NewStore() *Store {
	return &Store{items: nil}
}

// Put stores the item, replacing any previous item of the same category.
// The replacement takes the newest position in the insertion order.
func (s *Store) Put(item Item) {
	kept := s.items[:0]
	for _, existing := range s.items {
		if existing.Category != item.Category {
			kept = append(kept, existing)
		}
	}
	s.items = append(kept, item)
}

func (s *Store) Has(c Category) bool {
	_, ok := s.Get(c)
	return ok
}

func (s *Store) Get(c Category) (Item, bool) {
	for _, item := range s.items {
		if item.Category == c {
			return item, true
		}
	}
	return Item{}, false
}

// All returns the current items in insertion order.
func (s *Store) All() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Clear() {
	s.items = nil
}
