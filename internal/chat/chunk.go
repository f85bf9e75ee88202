package chat

import "strings"

// ChunkSize is the maximum number of characters (runes) delivered to the
// client in one response. Longer answers are resumed via the cursor.
const ChunkSize = 2000

// Terminal punctuation for Arabic answers. An answer that does not end in
// one of these is considered cut off mid-sentence.
func isTerminal(r rune) bool {
	switch r {
	case '.', '؟', '!', '…':
		return true
	}
	return false
}

// EndsTerminated reports whether s, ignoring trailing whitespace, ends in
// terminal punctuation.
func EndsTerminated(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	rs := []rune(s)
	return isTerminal(rs[len(rs)-1])
}

// CutAtSentence splits text into a head of at most max runes and the
// remaining tail, preferring in order: the last terminal punctuation mark in
// the window, the last newline, the last space, then a hard cut at the
// boundary. head+tail always reconstructs text exactly.
func CutAtSentence(text string, max int) (head, tail string) {
	if text == "" {
		return "", ""
	}
	rs := []rune(text)
	if max <= 0 || len(rs) <= max {
		return text, ""
	}
	window := rs[:max]

	for i := len(window) - 1; i >= 0; i-- {
		if isTerminal(window[i]) {
			return string(rs[:i+1]), string(rs[i+1:])
		}
	}
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' {
			return string(rs[:i+1]), string(rs[i+1:])
		}
	}
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == ' ' {
			return string(rs[:i]), string(rs[i:])
		}
	}
	return string(window), string(rs[max:])
}

func runeLen(s string) int { return len([]rune(s)) }
