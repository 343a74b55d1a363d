package shtml

import (
	"maps"
	"sort"
	"strings"
)

// FlagValue is stored for attributes written without a value, e.g. <input disabled>.
const FlagValue = "yes"

// AttributeMap maps attribute names to values. When an element repeats an attribute, the last
// occurrence wins.
type AttributeMap map[string]string

// Get returns the value of the attribute key, or an empty string if it is absent.
func (m AttributeMap) Get(key string) string {
	return m[key]
}

// Has reports whether the attribute key is present.
func (m AttributeMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// IsFlag reports whether key was written without a value.
func (m AttributeMap) IsFlag(key string) bool {
	v, ok := m[key]
	return ok && v == FlagValue
}

// Keys returns the attribute names in lexical order.
func (m AttributeMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both maps hold the same keys with the same values.
// A nil map equals an empty one.
func (m AttributeMap) Equal(o AttributeMap) bool {
	return maps.Equal(m, o)
}

// String returns the canonical quoted form of the attributes, sorted by name and with a
// leading space before each pair, e.g. ` class="a" id='say "hi"'`. Parsing the result back
// yields an equal map as long as no value contains both quote characters.
func (m AttributeMap) String() string {
	var sb strings.Builder
	for _, k := range m.Keys() {
		v := m[k]
		q := `"`
		if strings.Contains(v, `"`) {
			q = `'`
		}
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(q)
		sb.WriteString(v)
		sb.WriteString(q)
	}
	return sb.String()
}
