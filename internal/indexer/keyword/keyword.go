// Package keyword reduces raw whitespace-delimited tokens to canonical
// keywords. A keyword is lowercase, ASCII letters only, and not a noise word.
// Tokens with a non-letter first character are rejected outright; non-letters
// after the last letter are stripped; anything non-letter in between rejects
// the whole token.
package keyword

import "strings"

// Normalizer holds the noise-word set and canonicalises raw tokens.
// It is built once before indexing and read-only afterwards.
type Normalizer struct {
	noise map[string]struct{}
}

// NewNormalizer creates a Normalizer from the raw noise-word list. Words are
// stored verbatim; the membership test against normalised candidates is
// case-sensitive.
func NewNormalizer(noiseWords []string) *Normalizer {
	noise := make(map[string]struct{}, len(noiseWords))
	for _, w := range noiseWords {
		if w == "" {
			continue
		}
		noise[w] = struct{}{}
	}
	return &Normalizer{noise: noise}
}

// NoiseWordCount returns the number of loaded noise words.
func (n *Normalizer) NoiseWordCount() int {
	return len(n.noise)
}

// Normalize returns the canonical keyword for a raw token, or ok=false when
// the token is rejected.
func (n *Normalizer) Normalize(token string) (string, bool) {
	if token == "" || !isLetter(token[0]) {
		return "", false
	}

	// End boundary: last letter, scanning backward. token[0] is a letter,
	// so the scan always terminates with end >= 0.
	end := len(token) - 1
	for !isLetter(token[end]) {
		end--
	}

	// Everything up to the end boundary must be a letter. Embedded
	// punctuation (or any other interior non-letter) invalidates the token
	// rather than being stripped; only trailing characters are tolerated.
	for i := 1; i < end; i++ {
		if !isLetter(token[i]) {
			return "", false
		}
	}

	candidate := strings.ToLower(token[:end+1])
	if _, noisy := n.noise[candidate]; noisy {
		return "", false
	}
	return candidate, true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
