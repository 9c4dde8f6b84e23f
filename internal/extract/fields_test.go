package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFields_ContactLine(t *testing.T) {
	c := ExtractFields("Contact: jane@acme.com, (555) 123-4567")

	require.Equal(t, []string{"jane@acme.com"}, c.Emails)
	require.Equal(t, []string{"5551234567"}, c.Phones)
	assert.Empty(t, c.URLs)
}

func TestExtractFields_PhoneSeparators(t *testing.T) {
	text := "Call 555-123-4567 or +1 555.123.4567 or (555) 987 6543"
	c := ExtractFields(text)

	// Same number through different separators collapses to one candidate.
	assert.Equal(t, []string{"5551234567", "5559876543"}, c.Phones)
}

func TestExtractFields_EmailsDeduplicated(t *testing.T) {
	text := "a@example.com b@example.org a@example.com"
	c := ExtractFields(text)

	assert.Equal(t, []string{"a@example.com", "b@example.org"}, c.Emails)
}

func TestExtractFields_URLs(t *testing.T) {
	text := "Visit https://www.acme.com/products?ref=pdf or http://acme.io"
	c := ExtractFields(text)

	require.Len(t, c.URLs, 2)
	assert.Equal(t, "https://www.acme.com/products?ref=pdf", c.URLs[0])
	assert.Equal(t, "http://acme.io", c.URLs[1])
}

func TestExtractFields_LinkedInKeptOutOfURLs(t *testing.T) {
	text := "Profile: https://www.linkedin.com/in/jane-doe and site https://acme.com"
	c := ExtractFields(text)

	assert.Equal(t, []string{"https://acme.com"}, c.URLs)
	require.Len(t, c.LinkedInURLs, 1)
	assert.Contains(t, c.LinkedInURLs[0], "linkedin.com/in/jane-doe")
}

func TestExtractFields_Address(t *testing.T) {
	text := "Headquarters\n123 Main Street\nAustin, TX 78701"
	c := ExtractFields(text)

	require.Len(t, c.Addresses, 1)
	assert.Equal(t, "123 Main Street", c.Addresses[0])

	require.Len(t, c.CityStateZip, 1)
	assert.Equal(t, "Austin", c.CityStateZip[0].City)
	assert.Equal(t, "TX", c.CityStateZip[0].State)
	assert.Equal(t, "78701", c.CityStateZip[0].Zip)
}

func TestExtractFields_ZipPlusFour(t *testing.T) {
	c := ExtractFields("Portland, OR 97201-1234")

	require.Len(t, c.CityStateZip, 1)
	assert.Equal(t, "97201-1234", c.CityStateZip[0].Zip)
}

func TestExtractFields_JobTitles(t *testing.T) {
	text := "Jane Doe, CEO\nJohn Roe, Vice President of Sales\nCEO letter, page 2"
	c := ExtractFields(text)

	// Compound titles win over their prefixes, and repeats collapse.
	assert.Equal(t, []string{"CEO", "Vice President"}, c.JobTitles)
}

func TestExtractFields_JobTitleWordBoundary(t *testing.T) {
	c := ExtractFields("VPN gateway by Developers Inc, contact the VP of Engineering")

	assert.Equal(t, []string{"VP"}, c.JobTitles)
}

func TestExtractFields_NoFabrication(t *testing.T) {
	c := ExtractFields("nothing to see here")

	assert.Empty(t, c.Emails)
	assert.Empty(t, c.Phones)
	assert.Empty(t, c.URLs)
	assert.Empty(t, c.Addresses)
	assert.Empty(t, c.CityStateZip)
	assert.Empty(t, c.JobTitles)
}
