package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// ClosestName returns the candidate most similar to target along with its
// similarity score. Returns an empty string when nothing scores above zero.
func ClosestName(target string, candidates []string) (string, float64) {
	targetFP := NewFingerprint(target)
	if targetFP == nil {
		return "", 0
	}
	var (
		best      string
		bestScore float64
	)
	for _, candidate := range candidates {
		score := CosineSimilarity(targetFP, NewFingerprint(candidate))
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}
