package textutil

// Truncate shortens s to at most max runes, appending "..." when it cuts.
// Values of max below 4 return the bare prefix.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
