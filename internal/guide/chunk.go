package guide

import (
	"regexp"
	"strings"
)

var (
	sectionRe    = regexp.MustCompile(`\n(##\s+[^\n]+)\n`)
	subsectionRe = regexp.MustCompile(`\n(###\s+[^\n]+)\n`)
)

// splitKeepingHeaders splits s around header lines matched by re, keeping
// each captured header as its own element between the surrounding content
// pieces.
func splitKeepingHeaders(s string, re *regexp.Regexp) []string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []string{s}
	}
	parts := make([]string, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		parts = append(parts, s[last:m[0]])
		parts = append(parts, s[m[2]:m[3]])
		last = m[1]
	}
	parts = append(parts, s[last:])
	return parts
}

// ChunkSections splits worksheet content into chunks of at most maxTokens,
// breaking on ## section boundaries and falling back to ### subsections
// when a single section is itself over budget. Content is preserved in
// order; a worksheet that fits returns a single chunk.
func ChunkSections(content string, maxTokens int) []string {
	sections := splitKeepingHeaders(content, sectionRe)

	var chunks []string
	current := ""
	currentTokens := 0

	appendPiece := func(piece string) {
		if strings.TrimSpace(piece) == "" {
			return
		}
		tokens := EstimateTokens(piece)
		if currentTokens+tokens > maxTokens && current != "" {
			chunks = append(chunks, current)
			current = piece
			currentTokens = tokens
			return
		}
		if current != "" {
			current += "\n\n" + piece
		} else {
			current = piece
		}
		currentTokens += tokens
	}

	// splitKeepingHeaders alternates content and header pieces: even
	// indices are content, odd indices are headers. Each header is
	// reattached to the content that follows it so a chunk boundary never
	// separates the two.
	consume := func(pieces []string, emit func(string)) {
		for i := 0; i < len(pieces); i++ {
			if i%2 == 1 && i+1 < len(pieces) {
				emit(pieces[i] + "\n" + pieces[i+1])
				i++
				continue
			}
			emit(pieces[i])
		}
	}

	consume(sections, func(section string) {
		if tokens := EstimateTokens(section); tokens > maxTokens {
			debugLog("chunker: section %q is %d tokens, splitting on subsections", firstLineOf(section), tokens)
			consume(splitKeepingHeaders(section, subsectionRe), appendPiece)
			return
		}
		appendPiece(section)
	})

	if current != "" {
		chunks = append(chunks, current)
	}
	if len(chunks) == 0 {
		return []string{content}
	}
	debugLog("chunker: produced %d chunks under budget %d", len(chunks), maxTokens)
	return chunks
}

func firstLineOf(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
