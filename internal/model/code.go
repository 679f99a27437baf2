package model

import (
	"regexp"
	"strings"
)

// codeSeparator matches any run of whitespace and hyphens between code segments.
var codeSeparator = regexp.MustCompile(`[\s\-]+`)

// NormalizeCode converts a user- or data-supplied course code into the
// canonical DEPT-NUMBER form ("fnce 7030" and "FNCE-7030" both become
// "FNCE-7030"). Every boundary that accepts a code runs it through here.
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	code = codeSeparator.ReplaceAllString(code, "-")
	return strings.ToUpper(strings.Trim(code, "-"))
}

// DisplayCode renders a canonical code for messages: the first hyphen
// becomes a space, so "OIDD-8970-INDIA" reads "OIDD 8970-INDIA".
func DisplayCode(code string) string {
	return strings.Replace(code, "-", " ", 1)
}

// DisplayCodes maps DisplayCode over a list.
func DisplayCodes(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = DisplayCode(c)
	}
	return out
}

// NormalizeCodes normalizes every code and drops empties and duplicates,
// keeping first-seen order.
func NormalizeCodes(codes []string) []string {
	if len(codes) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		n := NormalizeCode(c)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// RewriteAliases replaces retired codes with their current equivalents.
// Both the stored codes and the alias table are compared in canonical form.
func RewriteAliases(codes []string, aliases map[string]string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		n := NormalizeCode(c)
		if target, ok := aliases[n]; ok {
			n = target
		}
		out[i] = n
	}
	return out
}

// DepartmentOf returns the department prefix of a canonical code.
func DepartmentOf(code string) string {
	dept, _, _ := strings.Cut(code, "-")
	return dept
}
