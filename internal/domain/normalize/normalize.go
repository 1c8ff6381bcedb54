// Package normalize canonicalizes free-text identity fields so that
// deduplication and joins compare stable forms instead of raw input.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are stripped from company names, first match wins.
// Checked in order against the already lowercased, whitespace-collapsed name.
var legalSuffixes = []string{" inc", " llc", " ltd", " limited", " gmbh", " s.a."}

// Email canonicalizes an email address: NFKC fold, trim, lowercase.
// Absent input yields "" and never matches anything downstream.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(email)))
}

// Name canonicalizes a person name: NFKC fold, trim, lowercase, collapse
// internal whitespace runs to a single space.
func Name(name string) string {
	return collapseWhitespace(strings.ToLower(strings.TrimSpace(norm.NFKC.String(name))))
}

// Company canonicalizes a company name with the Name rules, converting commas
// to spaces and stripping one trailing legal-entity suffix.
func Company(name string) string {
	s := strings.ToLower(strings.TrimSpace(norm.NFKC.String(name)))
	s = strings.ReplaceAll(s, ",", " ")
	s = collapseWhitespace(s)
	for _, suf := range legalSuffixes {
		if strings.HasSuffix(s, suf) {
			s = strings.TrimSpace(s[:len(s)-len(suf)])
			break
		}
	}
	return s
}

// collapseWhitespace reduces every run of whitespace to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
