// Package featureflags evaluates switches configured through FEATURE_FLAGS,
// e.g. "newsletter=on,live_feed=25%,contact_form=off".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Known flags.
const (
	Newsletter  = "newsletter"
	ContactForm = "contact_form"
	LiveFeed    = "live_feed"
)

// defaults apply to known flags that the configuration does not mention.
var defaults = map[string]string{
	Newsletter:  "on",
	ContactForm: "on",
	LiveFeed:    "on",
}

// Set is an immutable collection of flag values. A nil *Set has every flag off.
type Set struct {
	values map[string]string
}

// Parse builds a Set from a comma-separated name=value list. Malformed pairs
// are skipped.
func Parse(raw string) *Set {
	values := make(map[string]string, len(defaults))
	for name, v := range defaults {
		values[name] = v
	}

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		values[name] = value
	}
	return &Set{values: values}
}

// Enabled evaluates name for userID. Values on/true/1 and off/false/0 are
// global; "N%" enables the flag for a stable N percent of signed-in users and
// never for anonymous callers (userID 0).
func (s *Set) Enabled(name string, userID uint) bool {
	if s == nil {
		return false
	}
	name = normalize(name)
	value, ok := s.values[name]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pct, ok := percentage(value)
	switch {
	case !ok || pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == 0:
		return false
	}
	return bucket(name, userID) < pct
}

// On reports whether name is enabled for everyone, anonymous callers included.
func (s *Set) On(name string) bool {
	return s.Enabled(name, 0)
}

// Names lists the configured flags in order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns a copy of the configured values.
func (s *Set) Raw() map[string]string {
	out := make(map[string]string)
	if s == nil {
		return out
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Snapshot evaluates every flag for userID.
func (s *Set) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool)
	for _, name := range s.Names() {
		out[name] = s.Enabled(name, userID)
	}
	return out
}

func percentage(value string) (int, bool) {
	raw, found := strings.CutSuffix(value, "%")
	if !found {
		return 0, false
	}
	pct, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return pct, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", name, userID)
	return int(h.Sum32() % 100)
}
