package archive

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

const (
	defaultOwner    = "tweetvault"
	defaultImageExt = "jpg"
	videoExt        = "mp4"
)

var (
	extPattern    = regexp.MustCompile(`^[a-z0-9]{2,5}$`)
	unsafeInLabel = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
)

// Unit is one file to download.
type Unit struct {
	RecordID string
	URL      string
	Name     string // path inside the archive
	Modified time.Time
}

// Candidates returns the live records that carry media.
func Candidates(records []*domain.Record) []*domain.Record {
	out := make([]*domain.Record, 0, len(records))
	for _, r := range records {
		if r != nil && !r.Deleted && r.HasMedia() {
			out = append(out, r)
		}
	}
	return out
}

// PlanUnits lists the files of one record: its video alone when it has one,
// otherwise every image.
func PlanUnits(r *domain.Record, owner string) []Unit {
	if r.HasVideo() {
		return []Unit{{
			RecordID: r.ID,
			URL:      r.VideoURL,
			Name:     FileName(owner, r, 0, videoExt),
			Modified: r.CreatedAt,
		}}
	}

	units := make([]Unit, 0, len(r.MediaURLs))
	for i, u := range r.MediaURLs {
		index := 0
		if len(r.MediaURLs) > 1 {
			index = i + 1
		}
		units = append(units, Unit{
			RecordID: r.ID,
			URL:      u,
			Name:     FileName(owner, r, index, ImageExt(u)),
			Modified: r.CreatedAt,
		})
	}
	return units
}

// FileName builds "<owner>/<owner>_<date>_<id>[_<index>].<ext>".
// index 0 means the record contributes a single file.
func FileName(owner string, r *domain.Record, index int, ext string) string {
	base := fmt.Sprintf("%s_%s_%s", owner, r.CreatedAt.UTC().Format("2006-01-02"), sanitize(r.ID))
	if index > 0 {
		base = fmt.Sprintf("%s_%d", base, index)
	}
	return owner + "/" + base + "." + ext
}

// ImageExt picks the extension of an image URL from its "format" query
// parameter or its path, defaulting to jpg.
func ImageExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return defaultImageExt
	}
	if f := strings.ToLower(u.Query().Get("format")); extPattern.MatchString(f) {
		return f
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	// pbs-style "name.jpg:large" suffixes
	ext, _, _ = strings.Cut(ext, ":")
	if extPattern.MatchString(ext) {
		return ext
	}
	return defaultImageExt
}

// OwnerLabel normalizes the requesting handle into a folder-safe label.
func OwnerLabel(owner string) string {
	owner = sanitize(strings.TrimPrefix(strings.TrimSpace(owner), "@"))
	if owner == "" {
		return defaultOwner
	}
	return owner
}

// dedupeNames renames units whose name is already taken, such as ids that
// only differ in characters sanitize replaces. Later units get a "-<n>"
// suffix before the extension, so the first keeps its plain name.
func dedupeNames(plans [][]Unit) {
	seen := make(map[string]bool)
	for _, units := range plans {
		for i := range units {
			name := units[i].Name
			if seen[name] {
				ext := path.Ext(name)
				stem := strings.TrimSuffix(name, ext)
				for n := 2; seen[name]; n++ {
					name = fmt.Sprintf("%s-%d%s", stem, n, ext)
				}
				units[i].Name = name
			}
			seen[name] = true
		}
	}
}

func sanitize(s string) string {
	return strings.Trim(unsafeInLabel.ReplaceAllString(s, "_"), "._")
}

func sortByName(results []fetched) {
	slices.SortStableFunc(results, func(a, b fetched) int {
		return strings.Compare(a.unit.Name, b.unit.Name)
	})
}
