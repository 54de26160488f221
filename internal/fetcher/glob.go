package fetcher

import (
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/rotisserie/eris"
)

// Glob expands a path pattern into the matching regular files, sorted.
// "**" matches any number of directories. A pattern without wildcards
// matches itself when the file exists. Zero matches is not an error.
func Glob(pattern string) ([]string, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, eris.New("glob: empty pattern")
	}

	if !hasMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil || info.IsDir() {
			return nil, nil
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "glob: expand %q", pattern)
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
