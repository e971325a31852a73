package info

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField    = errors.New("missing required section")
	ErrInvalidCategory = errors.New("category must be one of metric, log or logs")
)

var requiredKeys = []string{KeyDataset, KeyCategory, KeyTenant, KeyShortInfo, KeyLongInfo}

var validCategories = map[string]bool{"metric": true, "log": true, "logs": true}

// Validate reports whether doc carries everything needed to create a
// dataset. Only presence is checked, except for the category value.
func Validate(doc Document) error {
	for _, k := range requiredKeys {
		if _, ok := doc.Sections[k]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingField, k)
		}
	}
	if doc.Tags == nil {
		return fmt.Errorf("%w: %q", ErrMissingField, KeyTags)
	}

	if c := doc.Sections[KeyCategory]; !validCategories[strings.ToLower(c)] {
		return fmt.Errorf("%w (got %q)", ErrInvalidCategory, c)
	}
	return nil
}
