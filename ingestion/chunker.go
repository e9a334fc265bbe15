package ingestion

// SplitText splits text into fixed-size overlapping windows. Every chunk
// except the last is exactly chunkSize runes; consecutive chunks share
// overlap runes, so concatenating the chunks with the overlap removed
// reconstructs the input. Empty text yields no chunks.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := chunkSize - overlap
	out := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}
