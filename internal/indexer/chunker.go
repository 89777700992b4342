package indexer

// ChunkText splits text into overlapping windows of at most chunkSize runes.
//
// Each window starts overlap runes before the previous one ended. The window
// that reaches the end of the text is the last one, and iteration also stops
// when the next start would not move forward (overlap >= chunkSize), so the
// result is always finite. Empty text or chunkSize <= 0 yields no chunks.
func ChunkText(text string, chunkSize, overlap int) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 || chunkSize <= 0 {
		return []Chunk{}
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []Chunk
	start := 0
	for start < n {
		end := min(start+chunkSize, n)
		chunks = append(chunks, Chunk{
			Index:     len(chunks),
			StartChar: start,
			EndChar:   end,
			Text:      string(runes[start:end]),
		})

		if end == n {
			break
		}

		next := max(end-overlap, 0)
		if next <= start {
			break
		}
		start = next
	}

	return chunks
}

// Reassemble rebuilds document text from its chunks by dropping the part of
// each chunk already covered by earlier ones. Chunks must be sorted by StartChar.
func Reassemble(chunks []Chunk) string {
	var out []rune
	covered := 0
	for _, c := range chunks {
		runes := []rune(c.Text)
		skip := max(covered-c.StartChar, 0)
		if skip < len(runes) {
			out = append(out, runes[skip:]...)
		}
		covered = max(covered, c.StartChar+len(runes))
	}
	return string(out)
}
