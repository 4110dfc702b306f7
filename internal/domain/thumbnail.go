package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// SourceType distinguishes where a thumbnail came from
type SourceType string

const (
	SourceImage SourceType = "image"
	SourceVideo SourceType = "video"
)

// Valid reports whether s is a known source type
func (s SourceType) Valid() bool {
	return s == SourceImage || s == SourceVideo
}

// Thumbnail is a search result or a saved locker entry.
// It is a plain value: two thumbnails are equal iff every field matches,
// so == is the membership test everywhere.
type Thumbnail struct {
	Title        string     `json:"title" db:"title"`
	ThumbnailURL string     `json:"thumbnail_url" db:"thumbnail_url" yaml:"thumbnail_url"`
	MediaURL     string     `json:"media_url" db:"media_url" yaml:"media_url"`
	Source       SourceType `json:"source" db:"source"`
	DateTime     string     `json:"datetime" db:"datetime" yaml:"datetime"` // kept verbatim, never parsed
}

// Key returns a stable identifier derived from every field.
// Equal thumbnails always share a key.
func (t Thumbnail) Key() string {
	h := sha256.New()
	for _, field := range []string{t.Title, t.ThumbnailURL, t.MediaURL, string(t.Source), t.DateTime} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// IsVideo returns true for video clips
func (t Thumbnail) IsVideo() bool {
	return t.Source == SourceVideo
}

// Contains reports whether items holds a value equal to item
func Contains(items []Thumbnail, item Thumbnail) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
