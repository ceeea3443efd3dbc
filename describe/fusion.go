package describe

import (
	"fmt"
	"sort"
	"strings"
)

const maxHighlights = 8

// Context is the merged view of a product the prompt and templates are written from.
type Context struct {
	Name         string
	AltName      string
	Category     string
	Platform     string
	Digital      bool
	Price        string
	Highlights   []string
	ImageSubject string
	VisibleText  string
}

// Fuse merges the product record with the image analysis for lang. Names and
// categories prefer the requested language and fall back to the other one.
func Fuse(in Input, analysis *ImageAnalysis, lang Language) *Context {
	c := &Context{
		Platform: strings.TrimSpace(in.Platform),
		Digital:  strings.EqualFold(in.Kind, "digital"),
	}

	name, alt := strings.TrimSpace(in.Name), strings.TrimSpace(in.NameAr)
	category := pick(in.Category, in.CategoryAr)
	if lang == Arabic {
		name, alt = alt, name
		category = pick(in.CategoryAr, in.Category)
	}
	if name == "" {
		name, alt = alt, ""
	}
	c.Name, c.AltName, c.Category = name, alt, category

	if in.Price.IsPositive() {
		c.Price = strings.TrimSpace(in.Price.StringFixed(2) + " " + in.Currency)
	}

	seen := make(map[string]bool)
	add := func(h string) {
		h = strings.TrimSpace(h)
		key := strings.ToLower(h)
		if h == "" || seen[key] || len(c.Highlights) >= maxHighlights {
			return
		}
		seen[key] = true
		c.Highlights = append(c.Highlights, h)
	}

	keys := make([]string, 0, len(in.Attributes))
	for k := range in.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(fmt.Sprintf("%s: %v", k, in.Attributes[k]))
	}
	for _, kw := range in.Keywords {
		add(kw)
	}

	if analysis != nil {
		c.ImageSubject = analysis.Subject
		c.VisibleText = analysis.VisibleText
		for _, f := range analysis.Features {
			add(f)
		}
	}
	return c
}

func pick(first, second string) string {
	if s := strings.TrimSpace(first); s != "" {
		return s
	}
	return strings.TrimSpace(second)
}
