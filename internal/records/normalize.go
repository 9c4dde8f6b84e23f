package records

import (
	"net/url"
	"strings"
)

// NormalizeDomain lowercases a hostname and strips a leading "www.".
func NormalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

// DomainFromURL derives the normalized domain from a scheme-prefixed URL,
// or "" when the URL does not parse.
func DomainFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return NormalizeDomain(u.Hostname())
}

// DomainFromEmail derives the normalized domain from an email address.
func DomainFromEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return NormalizeDomain(email[at+1:])
}

// PhoneDigits strips everything but digits and drops a leading US country
// code, so "(555) 123-4567" and "+1 555.123.4567" collapse to "5551234567".
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}
