package extract

import (
	"regexp"
	"strings"
)

// Candidates holds pattern-matched substrings per field type, in order of
// first appearance and with exact duplicates removed. Nothing here is
// validated beyond the pattern match; OCR noise passes through uncorrected.
type Candidates struct {
	Emails       []string
	Phones       []string // bare digits, 10 per number
	URLs         []string
	LinkedInURLs []string
	Addresses    []string
	CityStateZip []CityStateZip
	JobTitles    []string
}

// CityStateZip is one "City, ST 12345" match.
type CityStateZip struct {
	City  string
	State string
	Zip   string
}

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// US-style numbers with optional +1 and common separators; the three
	// capture groups are area, prefix, line.
	rePhone    = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	reURL      = regexp.MustCompile(`https?://[-\w.]+(?::\d+)?(?:/[\w/_.]*(?:\?[\w&=%.]*)?(?:#[\w.]*)?)?`)
	reLinkedIn = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[\w-]+/?`)
	reAddress  = regexp.MustCompile(`(?i)\d+\s+[\w ]+ (?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl)\b`)
	reCSZ      = regexp.MustCompile(`([A-Za-z ]+),\s*([A-Z]{2})\s*(\d{5}(?:-\d{4})?)`)
	reJobTitle = regexp.MustCompile(`\b(?:CEO|CTO|CFO|President|Vice President|VP|Director|Manager|Coordinator|Specialist|Engineer|Developer|Analyst)\b`)
)

// ExtractFields applies the fixed pattern rules to text and returns the
// candidate sets. LinkedIn profile URLs are reported separately so they do
// not feed company-domain derivation.
func ExtractFields(text string) Candidates {
	var c Candidates

	c.Emails = dedup(reEmail.FindAllString(text, -1))

	for _, m := range rePhone.FindAllStringSubmatch(text, -1) {
		c.Phones = append(c.Phones, m[1]+m[2]+m[3])
	}
	c.Phones = dedup(c.Phones)

	c.LinkedInURLs = dedup(reLinkedIn.FindAllString(text, -1))
	for _, u := range dedup(reURL.FindAllString(text, -1)) {
		if reLinkedIn.MatchString(u) {
			continue
		}
		c.URLs = append(c.URLs, u)
	}

	c.Addresses = dedup(reAddress.FindAllString(text, -1))

	c.JobTitles = dedup(reJobTitle.FindAllString(text, -1))

	for _, m := range reCSZ.FindAllStringSubmatch(text, -1) {
		c.CityStateZip = append(c.CityStateZip, CityStateZip{
			City:  strings.TrimSpace(m[1]),
			State: m[2],
			Zip:   m[3],
		})
	}

	return c
}

func dedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
