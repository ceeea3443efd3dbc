package describe

import (
	"fmt"
	"strings"
	"text/template"
)

type templateKey struct {
	lang    Language
	digital bool
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

var fallbackTemplates = map[templateKey]*template.Template{
	{English, true}: mustTemplate("en-digital",
		`{{.Name}} is a digital product{{if .Platform}} for {{.Platform}}{{end}}, delivered as a code by email right after payment, so you can start playing without waiting for shipping.`+
			`{{if .Highlights}} Details: {{join .Highlights ", "}}.{{end}}`+
			` Order it now{{if .Category}} from our {{.Category}} collection{{end}} with fast and secure checkout.`),
	{English, false}: mustTemplate("en-physical",
		`{{.Name}}{{if .Platform}} for {{.Platform}}{{end}} is an original product, carefully packed and shipped straight to your door.`+
			`{{if .Highlights}} Details: {{join .Highlights ", "}}.{{end}}`+
			` Add it to your setup today{{if .Category}} from our {{.Category}} collection{{end}} with secure checkout and tracked delivery.`),
	{Arabic, true}: mustTemplate("ar-digital",
		`{{.Name}} منتج رقمي{{if .Platform}} لمنصة {{.Platform}}{{end}} يصلك كرمز عبر البريد الإلكتروني فور إتمام الدفع، لتبدأ اللعب مباشرة دون انتظار الشحن.`+
			`{{if .Highlights}} التفاصيل: {{join .Highlights "، "}}.{{end}}`+
			` اطلبه الآن{{if .Category}} من قسم {{.Category}}{{end}} بخطوات دفع آمنة وسريعة.`),
	{Arabic, false}: mustTemplate("ar-physical",
		`{{.Name}}{{if .Platform}} لمنصة {{.Platform}}{{end}} منتج أصلي يُغلف بعناية ويُشحن إليك حتى باب منزلك.`+
			`{{if .Highlights}} التفاصيل: {{join .Highlights "، "}}.{{end}}`+
			` أضفه إلى تجربة اللعب الخاصة بك اليوم{{if .Category}} من قسم {{.Category}}{{end}} مع دفع آمن وتوصيل يمكن تتبعه.`),
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text))
}

// RenderTemplate writes the deterministic description for c in lang.
func RenderTemplate(c *Context, lang Language) (string, error) {
	tmpl, ok := fallbackTemplates[templateKey{lang: lang, digital: c.Digital}]
	if !ok {
		return "", fmt.Errorf("no description template for language %q", lang)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, c); err != nil {
		return "", fmt.Errorf("render description template: %w", err)
	}
	return strings.TrimSpace(spacesPattern.ReplaceAllString(sb.String(), " ")), nil
}
