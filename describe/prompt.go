package describe

import (
	"fmt"
	"strings"
)

const systemInstruction = `You write product copy for an online store that sells video games, consoles,
accessories and digital gift cards. Write only the description itself: no title, no preamble,
no markdown, no placeholders, no prices unless given.`

// BuildPrompt turns the fused context into the generation prompt.
func BuildPrompt(c *Context, opts Options, b Bounds) string {
	var sb strings.Builder

	switch opts.Language {
	case English:
		sb.WriteString("Write a product description in English.\n")
	default:
		sb.WriteString("Write a product description in Modern Standard Arabic. ")
		sb.WriteString("Keep brand and platform names in Latin letters, everything else in Arabic.\n")
	}
	fmt.Fprintf(&sb, "Tone: %s. Length: between %d and %d characters, one or two short paragraphs.\n",
		opts.Tone, b.MinRunes, b.MaxRunes)

	sb.WriteString("\nProduct:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", c.Name)
	if c.AltName != "" {
		fmt.Fprintf(&sb, "- Also known as: %s\n", c.AltName)
	}
	if c.Category != "" {
		fmt.Fprintf(&sb, "- Category: %s\n", c.Category)
	}
	if c.Platform != "" {
		fmt.Fprintf(&sb, "- Platform: %s\n", c.Platform)
	}
	if c.Digital {
		sb.WriteString("- Delivery: digital code, sent by email right after payment\n")
	} else {
		sb.WriteString("- Delivery: physical item, shipped to the customer\n")
	}
	if c.Price != "" {
		fmt.Fprintf(&sb, "- Price: %s\n", c.Price)
	}
	if len(c.Highlights) > 0 {
		sb.WriteString("- Details:\n")
		for _, h := range c.Highlights {
			fmt.Fprintf(&sb, "  - %s\n", h)
		}
	}

	if c.ImageSubject != "" || c.VisibleText != "" {
		sb.WriteString("\nThe product photo shows:\n")
		if c.ImageSubject != "" {
			fmt.Fprintf(&sb, "- %s\n", c.ImageSubject)
		}
		if c.VisibleText != "" {
			fmt.Fprintf(&sb, "- Printed text: %s\n", c.VisibleText)
		}
	}

	sb.WriteString("\nMention who the product is for and why it is worth buying. Do not invent specifications.")
	return sb.String()
}
