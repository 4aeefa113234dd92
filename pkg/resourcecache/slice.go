package resourcecache

// Slice returns the [startIndex, startIndex+maxChars) window of a
// cached entry's content, plus whether more content follows the
// window. maxChars <= 0 means "to the end". This is purely a read-side
// concern; stored content is never mutated.
func Slice(content string, startIndex, maxChars int) (part string, more bool) {
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(content) {
		return "", false
	}
	rest := content[startIndex:]
	if maxChars <= 0 || len(rest) <= maxChars {
		return rest, false
	}
	return rest[:maxChars], true
}
