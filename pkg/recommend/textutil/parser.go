package textutil

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractJSONObject decodes the span between the first '{' and the last '}'.
// Model output often wraps JSON in prose or code fences; anything that does
// not decode strictly is reported as not found.
func ExtractJSONObject(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// StringField returns obj[key] when it is a string.
func StringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// CleanProductLine strips a leading "-" or "•" bullet. Short names would be
// emptied by that, so results of three characters or less fall back to the
// untouched line.
func CleanProductLine(line string) string {
	trimmed := strings.TrimSpace(line)
	cleaned := trimmed
	switch {
	case strings.HasPrefix(cleaned, "-"):
		cleaned = strings.TrimLeftFunc(cleaned[1:], unicode.IsSpace)
	case strings.HasPrefix(cleaned, "•"):
		cleaned = strings.TrimLeftFunc(cleaned[len("•"):], unicode.IsSpace)
	}

	if utf8.RuneCountInString(cleaned) > 3 {
		return cleaned
	}
	return line
}

// ParseProductList reads one product per line. Markdown headings and
// emphasis/bullet lines starting with '*' are noise, not products.
func ParseProductList(text string) []string {
	products := []string{}
	if strings.TrimSpace(text) == "" {
		return products
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") {
			continue
		}
		if cleaned := CleanProductLine(line); cleaned != "" {
			products = append(products, cleaned)
		}
	}
	return products
}
