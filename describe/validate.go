package describe

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bounds is the accepted length of a description in characters.
type Bounds struct {
	MinRunes int
	MaxRunes int
}

var DefaultBounds = Bounds{MinRunes: 80, MaxRunes: 1200}

// Validation issues.
const (
	IssueEmpty       = "empty"
	IssueTooShort    = "too_short"
	IssueTooLong     = "too_long"
	IssuePlaceholder = "placeholder"
	IssuePreamble    = "assistant_preamble"
	IssueNotArabic   = "not_arabic"
	IssueNotEnglish  = "not_english"
)

// minArabicRatio is the share of letters that must be Arabic in Arabic copy.
// Brand and platform names stay in Latin script, so it is below one.
const minArabicRatio = 0.6

var (
	placeholderPattern = regexp.MustCompile(`\{\{.*?\}\}|\[[^\]]*(name|product|price|اسم|المنتج)[^\]]*\]|<[^>]+>`)
	markdownPattern    = regexp.MustCompile(`(?m)^\s*#{1,6}\s*|\*\*|__`)
	spacesPattern      = regexp.MustCompile(`[ \t]+`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)

	preambles = []string{
		"as an ai", "here is", "here's", "sure", "certainly", "of course",
		"بالتأكيد", "إليك", "اليك", "بصفتي", "حسنا", "حسناً",
	}
)

// Clean strips formatting the storefront cannot display and normalizes whitespace.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = markdownPattern.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesPattern.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	return strings.Trim(text, `"'“”«»`)
}

// Validate reports why text is not acceptable as a description in lang.
func Validate(text string, lang Language, b Bounds) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{IssueEmpty}
	}

	var issues []string
	n := utf8.RuneCountInString(text)
	if n < b.MinRunes {
		issues = append(issues, IssueTooShort)
	}
	if b.MaxRunes > 0 && n > b.MaxRunes {
		issues = append(issues, IssueTooLong)
	}
	if placeholderPattern.MatchString(text) {
		issues = append(issues, IssuePlaceholder)
	}
	if hasPreamble(text) {
		issues = append(issues, IssuePreamble)
	}

	ratio := ArabicRatio(text)
	switch lang {
	case Arabic:
		if ratio < minArabicRatio {
			issues = append(issues, IssueNotArabic)
		}
	case English:
		if ratio > 1-minArabicRatio {
			issues = append(issues, IssueNotEnglish)
		}
	}
	return issues
}

// ArabicRatio is the share of letters in text that belong to the Arabic script.
func ArabicRatio(text string) float64 {
	var letters, arabic int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(arabic) / float64(letters)
}

func hasPreamble(text string) bool {
	first := strings.ToLower(text)
	if i := strings.IndexAny(first, ".!:\n،"); i >= 0 {
		first = first[:i]
	}
	for _, p := range preambles {
		rest, ok := strings.CutPrefix(first, p)
		if !ok {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); rest == "" || !unicode.IsLetter(r) {
			return true
		}
	}
	return strings.Contains(first, "as an ai")
}
