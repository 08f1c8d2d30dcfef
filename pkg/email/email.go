// Package email holds pure helpers over email addresses. Masking happens at
// the read boundary; the stored address is never modified.
package email

import (
	"strings"
	"unicode"
)

// Mask hides the local part of an address, keeping the domain visible:
// "joao@example.com" becomes "***@example.com". Addresses without an "@"
// are fully masked.
func Mask(address string) string {
	at := strings.IndexByte(address, '@')
	if at < 0 {
		return "***"
	}
	return "***" + address[at:]
}

// DeriveName builds a display name from the local part of an address, used
// when a notification target has no stored name. "ana.silva@x.org" yields
// "Ana Silva".
func DeriveName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Voluntário"
	}

	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
