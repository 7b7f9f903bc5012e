package classify

import (
	"strings"

	"github.com/bassamadnan/mailsort/email"
)

// categoryKeywords maps model-response keywords to categories. Entries are
// checked top to bottom and the first hit wins; the order is part of the
// contract.
var categoryKeywords = []struct {
	keywords []string
	category email.Category
}{
	{[]string{"important"}, email.CategoryImportant},
	{[]string{"promotional", "promo"}, email.CategoryPromotional},
	{[]string{"social"}, email.CategorySocial},
	{[]string{"marketing"}, email.CategoryMarketing},
	{[]string{"spam"}, email.CategorySpam},
	{[]string{"general"}, email.CategoryGeneral},
}

// ParseCategory normalizes raw model output into a category. The second
// return value is false when no category keyword is present, including for
// empty input; the caller is expected to fall back to the rules.
func ParseCategory(raw string) (email.Category, bool) {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	normalized := b.String()
	if normalized == "" {
		return "", false
	}
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(normalized, kw) {
				return entry.category, true
			}
		}
	}
	return "", false
}
