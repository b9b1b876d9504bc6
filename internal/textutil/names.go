package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// acronyms keeps these tokens fully uppercased in display labels.
var acronyms = map[string]struct{}{
	"nasa": {},
	"cs":   {},
	"fps":  {},
}

// franchiseAliases maps filesystem prefixes to display franchise names.
// Order matters: earlier aliases win when several match.
var franchiseAliases = []struct {
	alias string
	label string
}{
	{"ram", "Rick and Morty"},
	{"rickandmorty", "Rick and Morty"},
	{"cs", "Counter-Strike"},
	{"counterstrike", "Counter-Strike"},
	{"callofduty", "Call of Duty"},
}

// PosterName is the normalized form of a poster or background folder name.
type PosterName struct {
	Key   string
	Label string
}

// StudioName is the franchise-enriched form of a studio poster name.
type StudioName struct {
	FranchiseKey   string
	FranchiseLabel string
	TitleKey       string
	TitleLabel     string
	DisplayName    string
}

// SplitWords splits CamelCase, snake_case, kebab-case, and glued words into
// tokens. An uppercase run followed by a lowercase tail contributes its last
// capital to the next word; a trailing uppercase run with no tail yields no
// token.
func SplitWords(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "_", " ")
	text = strings.ReplaceAll(text, "-", " ")

	runes := []rune(text)
	var words []string
	i := 0
	for i < len(runes) {
		switch {
		case isASCIIDigit(runes[i]):
			j := i
			for j < len(runes) && isASCIIDigit(runes[j]) {
				j++
			}
			words = append(words, string(runes[i:j]))
			i = j
		case isASCIIUpper(runes[i]):
			j := i
			for j < len(runes) && isASCIIUpper(runes[j]) {
				j++
			}
			if j < len(runes) && isASCIILower(runes[j]) {
				if j-i > 1 {
					words = append(words, string(runes[i:j-1]))
				}
				k := j
				for k < len(runes) && isASCIILower(runes[k]) {
					k++
				}
				words = append(words, string(runes[j-1:k]))
				i = k
			} else {
				i = j
			}
		case isASCIILower(runes[i]):
			j := i
			for j < len(runes) && isASCIILower(runes[j]) {
				j++
			}
			words = append(words, string(runes[i:j]))
			i = j
		default:
			i++
		}
	}
	return words
}

// NormalizeWords converts a word list into a stable snake_case key and a
// Title Case label with acronym preservation.
func NormalizeWords(words []string) (string, string) {
	keyParts := make([]string, 0, len(words))
	labelParts := make([]string, 0, len(words))
	caser := cases.Title(language.English)
	for _, word := range words {
		lowered := strings.ToLower(word)
		keyParts = append(keyParts, lowered)
		if _, ok := acronyms[lowered]; ok {
			labelParts = append(labelParts, strings.ToUpper(word))
		} else {
			labelParts = append(labelParts, caser.String(lowered))
		}
	}
	return strings.Join(keyParts, "_"), strings.Join(labelParts, " ")
}

// NormalizePosterName normalizes an archive poster folder name.
func NormalizePosterName(raw string) PosterName {
	key, label := NormalizeWords(SplitWords(raw))
	return PosterName{Key: key, Label: label}
}

// NormalizeBackgroundName normalizes a background variant name, for example
// AntiqueParchment to antique_parchment / Antique Parchment.
func NormalizeBackgroundName(raw string) PosterName {
	key, label := NormalizeWords(SplitWords(raw))
	return PosterName{Key: key, Label: label}
}

// FoldKey flattens a poster identifier so folder names, filenames, and user
// input compare equal regardless of separator style.
func FoldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

// NormalizeStudioName normalizes a studio poster name with franchise
// detection. When a known alias prefixes the name, the remainder becomes the
// title and the display name is "Franchise - Title".
func NormalizeStudioName(raw string) StudioName {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StudioName{}
	}

	fs := strings.ToLower(trimmed)
	fs = strings.ReplaceAll(fs, "_", "")
	fs = strings.ReplaceAll(fs, "-", "")
	fs = strings.ReplaceAll(fs, " ", "")

	for _, entry := range franchiseAliases {
		if !strings.HasPrefix(fs, entry.alias) {
			continue
		}
		// The alias matched the flattened form, so advance past it in the
		// raw string by counting non-separator characters.
		idx, consumed := 0, 0
		for idx < len(trimmed) && consumed < len(entry.alias) {
			if c := trimmed[idx]; c != '_' && c != '-' && c != ' ' {
				consumed++
			}
			idx++
		}
		remainder := strings.TrimLeft(trimmed[idx:], "_- ")
		titleKey, titleLabel := NormalizeWords(SplitWords(remainder))
		franchiseKey, _ := NormalizeWords(SplitWords(entry.label))

		displayName := entry.label
		if titleLabel != "" {
			displayName = entry.label + " - " + titleLabel
		}
		return StudioName{
			FranchiseKey:   franchiseKey,
			FranchiseLabel: entry.label,
			TitleKey:       titleKey,
			TitleLabel:     titleLabel,
			DisplayName:    displayName,
		}
	}

	titleKey, titleLabel := NormalizeWords(SplitWords(trimmed))
	return StudioName{
		TitleKey:    titleKey,
		TitleLabel:  titleLabel,
		DisplayName: titleLabel,
	}
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
