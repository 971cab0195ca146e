package autoapply

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"jobpilot/internal/domain"
)

// postingKey identifies a posting by company and title, ignoring case,
// accents and runs of whitespace.
func postingKey(company, title string) string {
	return fold(company) + "\x00" + fold(title)
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Fold().String(out)
	return strings.Join(strings.Fields(out), " ")
}

func appliedKeys(history []domain.Application) map[string]struct{} {
	keys := make(map[string]struct{}, len(history))
	for _, app := range history {
		keys[postingKey(app.Company, app.JobTitle)] = struct{}{}
	}
	return keys
}
