package naming

import (
	"regexp"
	"strings"

	"github.com/wara-ops/dataportal/internal/datetime"
)

// Grammar pairs a compiled pattern with an extraction function. Grammars
// are evaluated in order by [Parse]; the first one whose Extract succeeds
// wins. Extract returns false when the match does not hold up (bad dates,
// wrong tail shape) so that evaluation falls through to the next grammar.
type Grammar struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp
	Extract func(matches []string) (Record, bool)
}

// Patterns are searched, not anchored: the leftmost run of six
// underscore-separated fields is used.
var (
	reMetric = regexp.MustCompile(
		`([^_]+)_([^_]+)_([^_]+)_([^_]+)_([^_]+)_([^_]+)`)

	// The flag stops at the first dot; everything after it is the
	// [type.]compression tail.
	reLog = regexp.MustCompile(
		`([^_]+)_([^_]+)_([^_]+)_([^_]+)_([^_]+)_([^.]+)\.(.*)`)
)

// Grammars is the ordered grammar table. First match wins, so metric is
// always tried before log.
var Grammars = []Grammar{
	{"metric", KindMetric, reMetric, extractMetric},
	{"log", KindLog, reLog, extractLog},
}

// extractMetric: name, type, start, stop, count, flag.ext[.compression].
func extractMetric(m []string) (Record, bool) {
	start, stop := m[3], m[4]
	if !datetime.MatchToken(start) || !datetime.MatchToken(stop) {
		return nil, false
	}

	rec := Metric{
		Name:   m[1],
		Type:   m[2],
		Start:  start,
		Stop:   stop,
		Count:  m[5],
		Prefix: prefixOf(start),
	}

	tail := strings.Split(m[6], ".")
	if !allNonEmpty(tail) {
		return nil, false
	}
	switch len(tail) {
	case 3:
		rec.Flag, rec.Ext, rec.Compression = tail[0], tail[1], tail[2]
	case 2:
		rec.Flag, rec.Ext = tail[0], tail[1]
	default:
		return nil, false
	}
	return rec, true
}

// extractLog: name, start, stop, count, size, flag.[type.]compression.
func extractLog(m []string) (Record, bool) {
	start, stop := m[2], m[3]
	if !datetime.MatchToken(start) || !datetime.MatchToken(stop) {
		return nil, false
	}

	rest := m[7]
	if rest == "" {
		return nil, false
	}

	rec := Log{
		Name:        m[1],
		Start:       start,
		Stop:        stop,
		Count:       m[4],
		Size:        m[5],
		Flag:        m[6],
		Compression: rest,
		Prefix:      prefixOf(start),
	}
	if parts := strings.Split(rest, "."); len(parts) == 2 && allNonEmpty(parts) {
		rec.Type, rec.Compression = parts[0], parts[1]
	}
	return rec, true
}

// prefixOf returns the grouping key: the first four characters of a start
// timestamp (the year for canonical dates).
func prefixOf(start string) string {
	r := []rune(start)
	if len(r) < 4 {
		return start
	}
	return string(r[:4])
}

func allNonEmpty(parts []string) bool {
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
