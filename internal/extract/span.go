package extract

import (
	"strings"
	"unicode/utf8"
)

// find returns the rune index of the first occurrence of marker, or -1.
func find(line, marker string) int {
	i := strings.Index(line, marker)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(line[:i])
}

// after returns the rune offset just past the first occurrence of marker.
// A missing marker yields len(marker)-1, the offset find's -1 produces.
func after(line, marker string) int {
	return find(line, marker) + utf8.RuneCountInString(marker)
}

// slice cuts line between rune offsets. Negative offsets count from the
// end of the line, offsets are clamped to the line, and from >= to yields
// the empty string.
func slice(line string, from, to int) string {
	n := utf8.RuneCountInString(line)
	from, to = clamp(from, n), clamp(to, n)
	if from >= to {
		return ""
	}
	return line[byteOffset(line, from):byteOffset(line, to)]
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

func byteOffset(s string, runes int) int {
	if runes == 0 {
		return 0
	}
	seen := 0
	for i := range s {
		if seen == runes {
			return i
		}
		seen++
	}
	return len(s)
}
