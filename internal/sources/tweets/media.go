package tweets

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// VideoVariant is one encoding of a video as listed by export tools.
type VideoVariant struct {
	URL         string
	ContentType string
	Bitrate     int64
}

// untyped media lists, in probing order
var untypedMediaKeys = []string{"extended_entities.media", "media_items", "entities.media", "media"}

type mediaSet struct {
	display []string
	video   string
}

// compareVariants orders variants by bitrate only.
func compareVariants(a, b VideoVariant) int {
	return cmp.Compare(a.Bitrate, b.Bitrate)
}

func isMP4(v VideoVariant) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(v.ContentType)), "video/mp4")
}

// BestVideoVariant picks the MP4 variant with the highest bitrate.
// Ties go to the variant listed first.
func BestVideoVariant(variants []VideoVariant) (VideoVariant, bool) {
	mp4 := make([]VideoVariant, 0, len(variants))
	for _, v := range variants {
		if isMP4(v) && v.URL != "" {
			mp4 = append(mp4, v)
		}
	}
	if len(mp4) == 0 {
		return VideoVariant{}, false
	}
	return slices.MaxFunc(mp4, compareVariants), true
}

func resolveMedia(e Entry) mediaSet {
	if e.has("mediaUrls") || e.has("mediaUrl") || e.has("videoUrl") {
		return internalMedia(e)
	}
	if items := e.list("media"); isTyped(items) {
		return typedMedia(items)
	}
	for _, key := range untypedMediaKeys {
		if items := e.list(key); len(items) > 0 {
			return untypedMedia(items)
		}
	}
	return mediaSet{}
}

// internalMedia reads the round-trip shape, repairing mediaUrl to match the list.
func internalMedia(e Entry) mediaSet {
	display := e.stringList("mediaUrls")
	if len(display) == 0 {
		if first := e.str("mediaUrl"); first != "" {
			display = []string{first}
		}
	}
	return mediaSet{display: display, video: e.str("videoUrl")}
}

func isTyped(items []Entry) bool {
	for _, it := range items {
		if it.str("type") != "" {
			return true
		}
	}
	return false
}

func typedMedia(items []Entry) mediaSet {
	var m mediaSet
	for _, it := range items {
		switch strings.ToLower(it.str("type")) {
		case "video", "animated_gif":
			if thumb := it.str("thumbnail"); thumb != "" {
				m.display = append(m.display, thumb)
			}
			if m.video == "" {
				m.video = it.firstString("original", "url")
			}
		default:
			if u := it.firstString("original", "thumbnail", "url"); u != "" {
				m.display = append(m.display, u)
			}
		}
	}
	return m
}

func untypedMedia(items []Entry) mediaSet {
	var m mediaSet
	for _, it := range items {
		if u := it.str("media_url_https"); u != "" {
			m.display = append(m.display, u)
		}
		if m.video != "" {
			continue
		}
		if best, ok := BestVideoVariant(variantsOf(it)); ok {
			m.video = best.URL
		}
	}
	return m
}

func variantsOf(item Entry) []VideoVariant {
	raw := item.list("video_info.variants")
	out := make([]VideoVariant, 0, len(raw))
	for _, v := range raw {
		bitrate, _ := strconv.ParseInt(v.str("bitrate"), 10, 64)
		out = append(out, VideoVariant{
			URL:         v.str("url"),
			ContentType: v.firstString("content_type", "contentType"),
			Bitrate:     bitrate,
		})
	}
	return out
}
