package textutil

import (
	"fmt"
	"strings"

	"smart-product-be/pkg/recommend/state"
)

const (
	UntitledSource = "Başlık Yok"

	sourcesHeader   = "\n\n---\n\n## 📚 Kaynaklar:\n\n"
	ecommerceHeader = "\n\n---\n\n## 🛒 E-Ticaret Siteleri:\n\n"
	ecommerceHint   = "*Önerilen ürünleri aşağıdaki sitelerde bulabilirsiniz:*\n\n"
)

// AppendSourcesSection adds a numbered markdown list of citations.
func AppendSourcesSection(text string, sources []state.Source) string {
	if len(sources) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString(sourcesHeader)
	for i, src := range sources {
		fmt.Fprintf(&sb, "%d. [%s](%s)\n", i+1, shortTitle(src.Title), src.URL)
	}
	return sb.String()
}

// shortTitle keeps what precedes the first dot, so "example.com" reads "example".
func shortTitle(title string) string {
	if title == "" {
		return UntitledSource
	}
	if i := strings.Index(title, "."); i >= 0 {
		return title[:i]
	}
	return title
}

// AppendEcommerceSection adds a per-product list of store search links.
func AppendEcommerceSection(text string, links state.Links) string {
	if len(links) == 0 {
		return text
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString(ecommerceHeader)
	sb.WriteString(ecommerceHint)
	for _, p := range links {
		fmt.Fprintf(&sb, "### 📦 %s\n\n", p.Product)
		for _, s := range p.Sites {
			fmt.Fprintf(&sb, "- **[%s](%s)**\n", s.Site, s.URL)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
