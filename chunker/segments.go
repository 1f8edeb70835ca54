package chunker

import (
	"regexp"
	"strings"
)

// segment is a piece of the original text together with its byte offset.
// Segments produced for one text cover it in order without gaps, so chunk
// positions can be derived directly from them.
type segment struct {
	text  string
	start int
}

// splitSentences splits text after runs of sentence punctuation (.!?) that
// are followed by whitespace. The whitespace run is kept with the preceding
// sentence so that concatenating all segments reproduces the input. Text
// without terminal punctuation becomes a single trailing segment.
func splitSentences(text string) []segment {
	var out []segment
	start := 0

	i := 0
	for i < len(text) {
		if !isSentenceEnd(text[i]) {
			i++
			continue
		}

		// Consume the full punctuation run (e.g. "?!", "...").
		j := i + 1
		for j < len(text) && isSentenceEnd(text[j]) {
			j++
		}

		if j < len(text) && !isSpace(text[j]) {
			// Punctuation inside a token (e.g. "3.5"), not a boundary.
			i = j
			continue
		}

		k := j
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		out = append(out, segment{text: text[start:k], start: start})
		start = k
		i = k
	}

	if start < len(text) {
		out = append(out, segment{text: text[start:], start: start})
	}
	return out
}

var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n+`)

// splitParagraphs splits text on blank lines. Blank-line separators are
// dropped; whitespace-only paragraphs are skipped.
func splitParagraphs(text string) []segment {
	var out []segment
	pos := 0

	for _, loc := range paragraphBreak.FindAllStringIndex(text, -1) {
		if para := text[pos:loc[0]]; strings.TrimSpace(para) != "" {
			out = append(out, segment{text: para, start: pos})
		}
		pos = loc[1]
	}
	if para := text[pos:]; strings.TrimSpace(para) != "" {
		out = append(out, segment{text: para, start: pos})
	}
	return out
}

// ladderSeparators is the recursive strategy's separator ladder, walked in
// order from coarsest to finest. The degenerate empty separator at the end
// of the conceptual ladder is handled by direct slicing in ladder.
var ladderSeparators = []string{"\n\n", "\n", ". ", " "}

// ladder reduces text to segments no longer than ChunkSize by walking the
// separator ladder iteratively: any segment still exceeding the chunk size
// at one level is re-split with the next, finer separator. Separators stay
// attached to the preceding piece so segments cover the text exactly.
// Whatever still exceeds the chunk size after the finest separator is
// sliced directly, which guarantees termination and bounded stack use.
func (s *Splitter) ladder(text string) []segment {
	segments := []segment{{text: text, start: 0}}

	for _, sep := range ladderSeparators {
		var next []segment
		for _, seg := range segments {
			if len(seg.text) <= s.cfg.ChunkSize {
				next = append(next, seg)
				continue
			}
			off := seg.start
			for _, part := range strings.SplitAfter(seg.text, sep) {
				if part == "" {
					continue
				}
				next = append(next, segment{text: part, start: off})
				off += len(part)
			}
		}
		segments = next
	}

	// Degenerate empty separator: direct slicing.
	var out []segment
	for _, seg := range segments {
		for len(seg.text) > s.cfg.ChunkSize {
			out = append(out, segment{text: seg.text[:s.cfg.ChunkSize], start: seg.start})
			seg = segment{text: seg.text[s.cfg.ChunkSize:], start: seg.start + s.cfg.ChunkSize}
		}
		if seg.text != "" {
			out = append(out, seg)
		}
	}
	return out
}

func isSentenceEnd(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
