// Package info reads the Markdown description that accompanies a new
// dataset. A document is a sequence of "# Heading" sections; the parser
// returns their bodies keyed by lower-cased heading, plus the tags section
// decoded into a list.
package info

import (
	"regexp"
	"strings"
)

// Section keys the portal needs to register a dataset.
const (
	KeyDataset   = "dataset"
	KeyCategory  = "category"
	KeyTenant    = "tenant"
	KeyShortInfo = "short info"
	KeyLongInfo  = "long info"
	KeyTags      = "tags"
	KeyAccess    = "access"
)

// Document is a parsed info file.
type Document struct {
	// Sections maps a normalized heading to its trimmed body. Sections
	// without content are absent. The tags section is not kept here; see
	// Tags.
	Sections map[string]string

	// Tags is never nil after Parse, even when the document has no tags
	// section.
	Tags []string
}

// Get returns the body of the section with the given key.
func (d Document) Get(key string) (string, bool) {
	v, ok := d.Sections[key]
	return v, ok
}

var (
	reHeading   = regexp.MustCompile(`^#\s*(.*)$`)
	reTagMarker = regexp.MustCompile(`^[*+,\-.0-9]+\s+`)
	reTagSplit  = regexp.MustCompile(`,\s+`)
)

// Parse splits text into sections. Text before the first heading is
// ignored, blank lines before a section's first content line are skipped,
// and a repeated heading replaces the earlier body.
func Parse(text string) Document {
	doc := Document{Sections: make(map[string]string)}

	var (
		section string
		open    bool
		body    []string
	)
	flush := func() {
		if !open {
			return
		}
		if s := strings.TrimSpace(strings.Join(body, "\n")); s != "" {
			doc.Sections[section] = s
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if m := reHeading.FindStringSubmatch(line); m != nil {
			flush()
			section, open, body = headingKey(m[1]), true, nil
			continue
		}
		if line == "" && len(body) == 0 {
			continue
		}
		body = append(body, line)
	}
	flush()

	doc.Tags = splitTags(doc.Sections[KeyTags])
	delete(doc.Sections, KeyTags)
	return doc
}

// headingKey lower-cases a heading and folds the access and category
// variants ("Access type", "Data category", ...) onto their keys.
func headingKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	switch {
	case strings.Contains(h, "access"):
		return KeyAccess
	case strings.Contains(h, "category"):
		return KeyCategory
	}
	return h
}

// splitTags accepts one tag per list item, a comma separated line, or a
// mix of both.
func splitTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	for _, line := range strings.Split(raw, "\n") {
		line = reTagMarker.ReplaceAllString(strings.TrimSpace(line), "")
		for _, tok := range reTagSplit.Split(line, -1) {
			if tok = strings.TrimSpace(tok); tok != "" {
				tags = append(tags, tok)
			}
		}
	}
	return tags
}
