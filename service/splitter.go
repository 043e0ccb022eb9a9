package service

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators are tried largest-boundary first: paragraph, line,
// sentence, word, then single characters as the last resort.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits text into overlapping chunks. Splitting is a pure function
// of (text, chunk size, overlap): identical inputs always produce identical
// chunk sequences. Lengths are measured in characters (runes), not bytes.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given chunk size and overlap.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split breaks text into chunks of at most ChunkSize characters, attempting
// the largest semantic boundary available at each level and carrying
// ChunkOverlap characters of context between consecutive chunks.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= s.ChunkSize {
		return []string{text}
	}

	sep, remaining := pickSeparator(text, separators)
	if sep == "" {
		return s.windowChars(text)
	}

	pieces := splitKeep(text, sep)

	var chunks []string
	var pending []string
	for _, piece := range pieces {
		if utf8.RuneCountInString(piece) <= s.ChunkSize {
			pending = append(pending, piece)
			continue
		}
		// Piece too large for this level: flush what we have and descend to
		// the next smaller boundary.
		chunks = append(chunks, s.merge(pending)...)
		pending = nil
		chunks = append(chunks, s.split(piece, remaining)...)
	}
	chunks = append(chunks, s.merge(pending)...)
	return chunks
}

// pickSeparator returns the first separator present in text, plus the
// separators below it for recursion. The empty separator always matches.
func pickSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitKeep splits text on sep, keeping the separator attached to the end of
// the preceding piece so that concatenating the pieces reproduces the input.
func splitKeep(text, sep string) []string {
	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// merge greedily joins pieces into chunks of at most ChunkSize characters,
// retaining up to ChunkOverlap trailing characters as the start of the next
// chunk.
func (s *Splitter) merge(pieces []string) []string {
	if len(pieces) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	total := 0

	for _, piece := range pieces {
		length := utf8.RuneCountInString(piece)
		if total+length > s.ChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ""))
			for total > s.ChunkOverlap || (total+length > s.ChunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += length
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}
	return chunks
}

// windowChars is the character-level last resort: fixed windows of ChunkSize
// advancing by ChunkSize-ChunkOverlap, so consecutive windows share exactly
// ChunkOverlap characters.
func (s *Splitter) windowChars(text string) []string {
	runes := []rune(text)
	step := s.ChunkSize - s.ChunkOverlap

	var chunks []string
	for start := 0; ; start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
