package tweets

import (
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

var (
	idKeys     = []string{"id", "tweet_id", "tweetId", "id_str", "rest_id"}
	textKeys   = []string{"fullText", "full_text", "text"}
	handleKeys = []string{"authorHandle", "screen_name", "user.screen_name", "username", "author.handle"}
	nameKeys   = []string{"authorName", "name", "user.name", "display_name", "author.name"}
	avatarKeys = []string{"avatarUrl", "profile_image_url", "user.profile_image_url_https", "avatar", "author.avatar"}
)

// Some exporters namespace ids as "bookmark_998877".
var prefixedID = regexp.MustCompile(`^(?i:bookmark|like|tweet|favorite)_(\d+)$`)

// NormalizeID strips a recognised namespace prefix, keeping the numeric part.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if m := prefixedID.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}

func resolveID(e Entry) string {
	id := NormalizeID(e.firstString(idKeys...))
	if id == "" {
		return domain.UnknownID
	}
	return id
}

func resolveHandle(e Entry) string {
	h := strings.TrimPrefix(e.firstString(handleKeys...), "@")
	if h == "" {
		return domain.UnknownHandle
	}
	return h
}

func resolveName(e Entry) string {
	if n := e.firstString(nameKeys...); n != "" {
		return n
	}
	return domain.UnknownName
}

func resolveCategory(e Entry) domain.Category {
	if s := e.str("category"); s != "" {
		if c, err := domain.ParseCategory(s); err == nil {
			return c
		}
	}
	switch {
	case e.flag("bookmarked"):
		return domain.CategoryBookmark
	case e.flag("favorited"):
		return domain.CategoryLike
	}
	return domain.CategoryBookmark
}
