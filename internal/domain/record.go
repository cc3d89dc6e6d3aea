package domain

import (
	"encoding/json"
	"time"
)

const (
	// UnknownID is used when an import entry carries no recognisable identifier.
	UnknownID = "unknown_id"
	// UnknownHandle is the default author handle.
	UnknownHandle = "Unknown"
	// UnknownName is the default author display name.
	UnknownName = "Twitter User"
)

// Record is the canonical representation of an imported post,
// whatever export tool produced it.
type Record struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	// Numeric string for real posts, UnknownID when none was found.
	ID string `json:"id"`

	// Category is the collection the record belongs to.
	Category Category `json:"category"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	FullText  string    `json:"fullText"`
	CreatedAt time.Time `json:"createdAt"`

	AuthorHandle string `json:"authorHandle"`
	AuthorName   string `json:"authorName"`
	AvatarURL    string `json:"avatarUrl,omitempty"`

	// ─────────────────────────────
	// Media
	// ─────────────────────────────

	// MediaURL is the first still image, equal to MediaURLs[0] when set.
	MediaURL string `json:"mediaUrl,omitempty"`

	// MediaURLs lists every still image in display order. Never nil.
	MediaURLs []string `json:"mediaUrls"`

	// VideoURL is the playable video, if any.
	VideoURL string `json:"videoUrl,omitempty"`

	// ─────────────────────────────
	// Provenance & liveness
	// ─────────────────────────────

	// RawPayload is the original import entry, kept verbatim.
	RawPayload json.RawMessage `json:"rawPayload,omitempty"`

	// Deleted marks a record as soft-deleted. It stays addressable by ID
	// but is hidden from every listing, export and analytics path.
	Deleted bool `json:"deleted"`
}

// HasVideo reports whether the record carries a playable video.
func (r *Record) HasVideo() bool { return r.VideoURL != "" }

// HasMedia reports whether the record carries any media at all.
func (r *Record) HasMedia() bool { return r.HasVideo() || len(r.MediaURLs) > 0 }

// MediaUnits is the number of files the record contributes to a media archive.
// A video wins over its still images.
func (r *Record) MediaUnits() int {
	if r.HasVideo() {
		return 1
	}
	return len(r.MediaURLs)
}

// Permalink returns the public URL of the post.
func (r *Record) Permalink() string {
	return "https://x.com/" + r.AuthorHandle + "/status/" + r.ID
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.MediaURLs = append([]string{}, r.MediaURLs...)
	if r.RawPayload != nil {
		c.RawPayload = append(json.RawMessage(nil), r.RawPayload...)
	}
	return &c
}
