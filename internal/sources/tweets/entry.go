package tweets

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Entry is one import object. Values stay raw and are decoded on demand,
// so any export schema can be probed without declaring its types.
type Entry struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// newEntry wraps raw if it is a JSON object.
func newEntry(raw json.RawMessage) (Entry, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Entry{}, false
	}
	return Entry{raw: raw, fields: fields}, true
}

// lookup resolves a dotted path ("user.screen_name"). JSON null counts as absent.
func (e Entry) lookup(path string) (json.RawMessage, bool) {
	fields := e.fields
	keys := strings.Split(path, ".")
	for i, key := range keys {
		v, ok := fields[key]
		if !ok || isNull(v) {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}
		var next map[string]json.RawMessage
		if err := json.Unmarshal(v, &next); err != nil {
			return nil, false
		}
		fields = next
	}
	return nil, false
}

// value decodes the value at path, keeping numbers as json.Number.
func (e Entry) value(path string) (any, bool) {
	raw, ok := e.lookup(path)
	if !ok {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// str returns the value at path as a string. Numbers keep their exact text.
func (e Entry) str(path string) string {
	v, ok := e.value(path)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	}
	return ""
}

// firstString returns the first non-empty string found along paths.
func (e Entry) firstString(paths ...string) string {
	for _, p := range paths {
		if s := e.str(p); s != "" {
			return s
		}
	}
	return ""
}

// firstText is firstString for free text: the value is returned as written.
func (e Entry) firstText(paths ...string) string {
	for _, p := range paths {
		v, ok := e.value(p)
		if !ok {
			continue
		}
		if t, ok := v.(string); ok && strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

// flag reports a boolean value, accepting "true"/"false" strings.
func (e Entry) flag(path string) bool {
	v, ok := e.value(path)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	}
	return false
}

// has reports whether path holds a non-null value.
func (e Entry) has(path string) bool {
	_, ok := e.lookup(path)
	return ok
}

// list returns the object elements of the array at path.
func (e Entry) list(path string) []Entry {
	raw, ok := e.lookup(path)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if entry, ok := newEntry(it); ok {
			out = append(out, entry)
		}
	}
	return out
}

// stringList returns the non-empty string elements of the array at path.
func (e Entry) stringList(path string) []string {
	raw, ok := e.lookup(path)
	if !ok {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
