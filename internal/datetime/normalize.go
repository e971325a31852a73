// Package datetime normalizes the timestamps used in data file names.
//
// Two input forms are accepted: Unix epoch seconds given as numeric text
// (optionally fractional) and ISO-8601 date/time strings. Both are reduced
// to a UTC instant and the canonical text form
//
//	YYYY-MM-DDTHH:MM:SS[.fff]Z
//
// which is what the naming convention embeds in file names.
package datetime

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoDate is returned for empty input. Callers treat it as "not given"
	// rather than as a malformed value.
	ErrNoDate = errors.New("no date given")

	// ErrInvalidDate is returned when the input is neither a usable epoch
	// value nor an ISO-8601 date.
	ErrInvalidDate = errors.New("invalid date")
)

const (
	// epochThreshold: numeric values above it are read as epoch seconds.
	epochThreshold = 1e9
	// epochScale bounds the accepted epoch magnitude: value/epochScale must
	// not exceed 1.0.
	epochScale = 1e10
)

// Date is a normalized instant together with its canonical text.
type Date struct {
	Time time.Time
	Text string
}

// reToken is the shape of a date inside a file name. It is searched for,
// not anchored, and says nothing about calendar validity.
var reToken = regexp.MustCompile(
	`[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}(\.[0-9]+)?Z?`)

// MatchToken reports whether s contains a date token anywhere in it.
func MatchToken(s string) bool {
	return reToken.MatchString(s)
}

// isoLayouts are tried in order. Inputs without a zone are taken as UTC.
// A fractional seconds field is accepted after any layout that ends in
// seconds (time.Parse allows it implicitly).
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
	"20060102T150405Z07:00",
	"20060102T150405",
	"20060102",
}

// Normalize parses s as epoch seconds or ISO-8601 and returns the UTC
// instant with its canonical text. Empty input yields ErrNoDate; anything
// unparseable yields an error wrapping ErrInvalidDate.
func Normalize(s string) (Date, error) {
	if s == "" {
		return Date{}, ErrNoDate
	}

	t, err := parse(s)
	if err != nil {
		return Date{}, err
	}
	t = t.UTC()
	return Date{Time: t, Text: Format(t)}, nil
}

func parse(s string) (time.Time, error) {
	f, numErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if numErr == nil && f > epochThreshold {
		if f/epochScale > 1.0 {
			return time.Time{}, fmt.Errorf("%w: epoch value %q out of range", ErrInvalidDate, s)
		}
		return fromEpoch(f), nil
	}

	// Non-numeric text, or a number too small to be an epoch: last chance
	// is an ISO-8601 string.
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// fromEpoch converts fractional epoch seconds to a UTC time with
// microsecond resolution, rounding half to even.
func fromEpoch(f float64) time.Time {
	sec := math.Floor(f)
	usec := math.RoundToEven((f - sec) * 1e6)
	if usec >= 1e6 {
		sec++
		usec -= 1e6
	}
	return time.Unix(int64(sec), int64(usec)*int64(time.Microsecond)).UTC()
}

// Format renders t (converted to UTC) in canonical form. A zero
// sub-second part is omitted; otherwise the fraction is truncated to
// milliseconds.
func Format(t time.Time) string {
	t = t.UTC()
	text := t.Format("2006-01-02T15:04:05")
	if usec := t.Nanosecond() / 1000; usec != 0 {
		text += fmt.Sprintf(".%03d", usec/1000)
	}
	return text + "Z"
}
