// Package fetcher expands path patterns and streams decoded, trimmed text
// lines from the matching files.
package fetcher

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/markscan/internal/charset"
)

// StreamLines decodes every file with the encoding named by label and sends
// its trimmed lines in file order, then in-file order. A file that cannot
// be read or decoded is logged and skipped. The channel is closed when all
// files are consumed or ctx is done.
func StreamLines(ctx context.Context, files []string, label string, log *zap.Logger) <-chan string {
	lineCh := make(chan string, 256)

	go func() {
		defer close(lineCh)
		_ = SendLines(ctx, files, label, log, lineCh)
	}()

	return lineCh
}

// SendLines is the producer behind StreamLines: it sends every line to out
// and returns ctx.Err() if ctx is done first. out is not closed.
func SendLines(ctx context.Context, files []string, label string, log *zap.Logger, out chan<- string) error {
	if log == nil {
		log = zap.L()
	}

	for _, path := range files {
		lines, err := readLines(path, label, log)
		if err != nil {
			log.Warn("fetcher: skipping unreadable file",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}

		for _, line := range lines {
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// StreamPattern is Glob followed by StreamLines.
func StreamPattern(ctx context.Context, pattern, label string, log *zap.Logger) (<-chan string, error) {
	files, err := Glob(pattern)
	if err != nil {
		return nil, err
	}
	return StreamLines(ctx, files, label, log), nil
}

// readLines loads the whole file, then releases the handle before decoding.
func readLines(path, label string, log *zap.Logger) ([]string, error) {
	enc, err := charset.Lookup(label)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", path)
	}
	log.Debug("fetcher: read file",
		zap.String("file", path),
		zap.String("size", humanize.Bytes(uint64(len(raw)))),
		zap.String("encoding", label),
	)

	text, err := charset.Decode(enc, raw)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: decode %s", path)
	}

	lines := SplitLines(text)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines, nil
}

// SplitLines splits text on every line boundary: \n, \r, \r\n, \v, \f,
// the file/group/record separators, NEL, and the Unicode line and
// paragraph separators. A trailing boundary does not produce an empty
// final line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if !isLineBreak(r) {
			continue
		}
		if i < start {
			// second half of a \r\n pair
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && start < len(text) && text[start] == '\n' {
			start++
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
