package enum

import (
	"errors"
	"strings"
	"unicode"
)

// RenameRule turns a variant name into its stored label.
type RenameRule int

const (
	None RenameRule = iota
	LowerCase
	UpperCase
	PascalCase
	CamelCase
	SnakeCase
	ScreamingSnakeCase
	KebabCase
	ScreamingKebabCase
)

var ErrInvalidRenameRule = errors.New("invalid rename rule")

var ruleNames = map[RenameRule]string{
	None:               "none",
	LowerCase:          "lowercase",
	UpperCase:          "UPPERCASE",
	PascalCase:         "PascalCase",
	CamelCase:          "camelCase",
	SnakeCase:          "snake_case",
	ScreamingSnakeCase: "SCREAMING_SNAKE_CASE",
	KebabCase:          "kebab-case",
	ScreamingKebabCase: "SCREAMING-KEBAB-CASE",
}

// ParseRenameRule accepts the spellings returned by String. The empty
// string is None.
func ParseRenameRule(s string) (RenameRule, error) {
	if s == "" {
		return None, nil
	}
	for rule, name := range ruleNames {
		if name == s {
			return rule, nil
		}
	}
	return None, ErrInvalidRenameRule
}

func (r RenameRule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return "invalid"
}

func (r RenameRule) Apply(name string) string {
	switch r {
	case LowerCase:
		return strings.ToLower(name)
	case UpperCase:
		return strings.ToUpper(name)
	case PascalCase:
		return joinWords(words(name), "", title, title)
	case CamelCase:
		return joinWords(words(name), "", strings.ToLower, title)
	case SnakeCase:
		return joinWords(words(name), "_", strings.ToLower, strings.ToLower)
	case ScreamingSnakeCase:
		return joinWords(words(name), "_", strings.ToUpper, strings.ToUpper)
	case KebabCase:
		return joinWords(words(name), "-", strings.ToLower, strings.ToLower)
	case ScreamingKebabCase:
		return joinWords(words(name), "-", strings.ToUpper, strings.ToUpper)
	default:
		return name
	}
}

func joinWords(ws []string, sep string, first, rest func(string) string) string {
	for i, w := range ws {
		if i == 0 {
			ws[i] = first(w)
		} else {
			ws[i] = rest(w)
		}
	}
	return strings.Join(ws, sep)
}

func title(w string) string {
	r := []rune(strings.ToLower(w))
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

// words splits an identifier on separators and case changes:
// "HTTPServer" -> [HTTP Server], "snake_case" -> [snake case].
func words(s string) []string {
	var out []string
	var current strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			continue
		}
		if i > 0 && current.Len() > 0 && boundary(runes, i) {
			out = append(out, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func boundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if unicode.IsUpper(r) && !unicode.IsUpper(prev) {
		return true
	}
	nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
	return unicode.IsUpper(r) && unicode.IsUpper(prev) && nextLower
}
