package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wara-ops/dataportal/internal/portal"
)

// DefaultExtraPrefix is the folder used when the prefix names none.
const DefaultExtraPrefix = "extrafiles"

// ErrIncompletePrefix marks a prefix that does not name a folder. Files
// with such a prefix are skipped, not failed.
var ErrIncompletePrefix = errors.New("incomplete prefix")

// ResolveExtraTarget maps a user prefix and a local path to the folder and
// file name inside the dataset:
//
//	"dir"      -> dir/<basename>
//	""         -> extrafiles/<basename>
//	"dir/"     -> dir/<basename>
//	"dir/name" -> dir/name
//
// A prefix with an empty folder ("/name") or more than one slash is
// incomplete.
func ResolveExtraTarget(prefix, path string) (portal.ExtraTarget, error) {
	base := filepath.Base(path)
	parts := strings.Split(prefix, "/")

	switch len(parts) {
	case 1:
		dir := parts[0]
		if dir == "" {
			dir = DefaultExtraPrefix
		}
		return portal.ExtraTarget{Prefix: dir, Filename: base}, nil
	case 2:
		dir, name := parts[0], parts[1]
		if dir == "" {
			break
		}
		if name == "" {
			name = base
		}
		return portal.ExtraTarget{Prefix: dir, Filename: name}, nil
	}
	return portal.ExtraTarget{}, fmt.Errorf("%w %q (use dir, dir/ or dir/name)", ErrIncompletePrefix, prefix)
}
