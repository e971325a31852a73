package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wara-ops/dataportal/internal/datetime"
)

// Sentinel errors returned by [Build]. Date failures wrap both
// ErrInvalidDate and the underlying datetime error.
var (
	ErrInvalidKind  = errors.New("kind must be 'metric' or 'log'")
	ErrInvalidCount = errors.New("count must be a positive integer")
	ErrInvalidDate  = errors.New("invalid date")
	ErrChronology   = errors.New("stop time is earlier than start time")
	ErrMissingField = errors.New("missing required field")
	ErrTailParse    = errors.New("no extension found in file name")
)

// Fields are the user-supplied values a compliant name is built from.
type Fields struct {
	DataType string // Required for metrics; selects the .<ext> part for logs.
	DataFlag string
	Start    string // Epoch seconds or ISO-8601.
	Stop     string
	Count    int
	Size     string // Uncompressed size; required for logs.
}

var (
	reTail3 = regexp.MustCompile(`([^.]+)\.([^.]+)\.([^.]+)`)
	reTail2 = regexp.MustCompile(`([^.]+)\.([^.]+)`)
)

// SplitTail decomposes a file name into base, extension and optional
// compression by searching for a three-part dot tail first, then a
// two-part one. It fails with ErrTailParse when the name has no extension.
func SplitTail(filename string) (base, ext, compression string, err error) {
	if m := reTail3.FindStringSubmatch(filename); m != nil {
		return m[1], m[2], m[3], nil
	}
	if m := reTail2.FindStringSubmatch(filename); m != nil {
		return m[1], m[2], "", nil
	}
	return "", "", "", fmt.Errorf("%w: %q", ErrTailParse, filename)
}

// Build constructs a name for filename that follows the convention for
// kind, using f for the metadata. filename contributes only its base,
// extension and compression.
//
// Checks run in a fixed order and the first failure is returned with an
// empty name: kind, count, start, stop, chronology, data flag, tail, then
// the kind-specific fields (size and compression for logs, data type for
// metrics).
func Build(f Fields, filename string, kind Kind) (string, error) {
	if kind != KindMetric && kind != KindLog {
		return "", fmt.Errorf("%w (got %q)", ErrInvalidKind, kind)
	}
	if f.Count <= 0 {
		return "", fmt.Errorf("%w (got %d)", ErrInvalidCount, f.Count)
	}

	start, err := datetime.Normalize(f.Start)
	if err != nil {
		return "", fmt.Errorf("%w: start: %w", ErrInvalidDate, err)
	}
	stop, err := datetime.Normalize(f.Stop)
	if err != nil {
		return "", fmt.Errorf("%w: stop: %w", ErrInvalidDate, err)
	}
	if stop.Time.Before(start.Time) {
		return "", fmt.Errorf("%w (%s < %s)", ErrChronology, stop.Text, start.Text)
	}

	if f.DataFlag == "" {
		return "", fmt.Errorf("%w: data flag", ErrMissingField)
	}

	base, ext, compression, err := SplitTail(filename)
	if err != nil {
		return "", err
	}

	base = Sanitize(base)
	ext = Sanitize(ext)
	flag := Sanitize(f.DataFlag)
	count := strconv.Itoa(f.Count)

	if kind == KindLog {
		if f.Size == "" {
			return "", fmt.Errorf("%w: uncompressed size is mandatory for logs", ErrMissingField)
		}
		if compression == "" {
			return "", fmt.Errorf("%w: log file %q is not compressed", ErrMissingField, filename)
		}
		name := strings.Join([]string{base, start.Text, stop.Text, count, f.Size, flag}, "_")
		if f.DataType != "" {
			name += "." + ext
		}
		return name + "." + compression, nil
	}

	if f.DataType == "" {
		return "", fmt.Errorf("%w: data type is mandatory for metrics", ErrMissingField)
	}
	name := strings.Join([]string{base, Sanitize(f.DataType), start.Text, stop.Text, count, flag}, "_") + "." + ext
	if compression != "" {
		name += "." + compression
	}
	return name, nil
}
