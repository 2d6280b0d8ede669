package ats

import "strings"

// strippable company-name suffixes, tried in addition to the raw name
var slugSuffixes = []string{" ai", " inc", " labs", " technologies"}

// SlugVariations generates tenant-slug guesses from a company name:
// "Scale AI" -> scaleai, scale-ai, scale_ai, scale. Suffix-stripped bases
// are added in concatenated and hyphenated form. Order is preserved and
// duplicates removed, so guess loops stay deterministic.
func SlugVariations(companyName string) []string {
	name := strings.ToLower(strings.TrimSpace(companyName))
	if name == "" {
		return nil
	}

	variants := []string{
		strings.ReplaceAll(name, " ", ""),
		strings.ReplaceAll(name, " ", "-"),
		strings.ReplaceAll(name, " ", "_"),
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		variants = append(variants, name[:i])
	} else {
		variants = append(variants, name)
	}

	for _, suffix := range slugSuffixes {
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		base := strings.TrimSpace(strings.TrimSuffix(name, suffix))
		if base == "" {
			continue
		}
		variants = append(variants,
			strings.ReplaceAll(base, " ", ""),
			strings.ReplaceAll(base, " ", "-"),
		)
	}

	seen := map[string]bool{}
	out := variants[:0]
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
