package redis

import "github.com/MrSnakeDoc/tweetvault/internal/domain"

const (
	// KeyNamespace prefixes every key owned by the store
	KeyNamespace = "tweetvault:"
	// KeyPrefixRecord is the prefix for record keys
	KeyPrefixRecord = KeyNamespace + "record:"
	// KeyPrefixCategory is the prefix for per-category ID sets
	KeyPrefixCategory = KeyNamespace + "category:"
	// KeyAllRecords is the key for the set of all record IDs
	KeyAllRecords = KeyNamespace + "records:all"
)

// RecordKey returns the Redis key for a record by ID
func RecordKey(id string) string {
	return KeyPrefixRecord + id
}

// CategoryKey returns the key for the set of record IDs in a category
func CategoryKey(c domain.Category) string {
	return KeyPrefixCategory + string(c)
}

// AllRecordsKey returns the key for the set of all record IDs
func AllRecordsKey() string {
	return KeyAllRecords
}
