package load

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Candidate separators, tried in order of how often real exports use them.
var sniffSeparators = []rune{',', ';', '\t', '|'}

// sniffComma infers the field separator from a byte sample. The winner is
// the candidate whose per-line count is highest and consistent across the
// sampled lines. Detection is heuristic and intentionally conservative:
// when nothing separates the lines, ',' wins.
func sniffComma(sample []byte) rune {
	lines := sampleLines(sample, 10)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestCount := 0
	for _, sep := range sniffSeparators {
		count := strings.Count(lines[0], string(sep))
		if count == 0 {
			continue
		}
		consistent := true
		for _, l := range lines[1:] {
			if strings.Count(l, string(sep)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best = sep
			bestCount = count
		}
	}
	return best
}

// sniffCharset reports "" for valid UTF-8 samples and "windows-1252" for
// anything else. Truncated trailing runes from cutting the sample mid-byte
// are not held against it.
func sniffCharset(sample []byte) string {
	cut := len(sample)
	for cut > 0 && !utf8.Valid(sample[:cut]) {
		if cut < len(sample)-utf8.UTFMax {
			return "windows-1252"
		}
		cut--
	}
	return ""
}

func sampleLines(sample []byte, max int) []string {
	var out []string
	for _, l := range bytes.Split(sample, []byte("\n")) {
		l = bytes.TrimRight(l, "\r")
		if len(bytes.TrimSpace(l)) == 0 {
			continue
		}
		out = append(out, string(l))
		if len(out) == max {
			break
		}
	}
	// Drop a possibly truncated final line so its counts do not skew the
	// consistency check.
	if len(out) > 1 && !bytes.HasSuffix(sample, []byte("\n")) {
		out = out[:len(out)-1]
	}
	return out
}
