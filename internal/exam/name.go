package exam

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitName decomposes the printed patient name into last and first name.
// "SMITH.JOHN." is cut at its first dot and the final character of the
// remainder is dropped. Otherwise the name must be exactly "Last, First".
// "SMITH.JOHN." and "Smith, John" both give ("Smith", "John").
func SplitName(raw string) (last, first string, err error) {
	if strings.Contains(raw, ".") {
		parts := strings.SplitN(raw, ".", 2)
		_, size := utf8.DecodeLastRuneInString(parts[1])
		first = parts[1][:len(parts[1])-size]
		if parts[0] == "" || first == "" {
			return "", "", NewStructureError("name", LineName, ErrDelimiterNotFound, `want "LAST.FIRST."`)
		}
		return capitalize(parts[0]), capitalize(first), nil
	}

	parts := strings.Split(raw, ", ")
	if len(parts) != 2 {
		return "", "", NewStructureError("name", LineName, ErrDelimiterNotFound, `want "Last, First"`)
	}
	return capitalize(parts[0]), capitalize(parts[1]), nil
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
