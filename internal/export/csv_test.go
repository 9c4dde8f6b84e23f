package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadharvest/pdfcontacts/internal/changelog"
	"github.com/leadharvest/pdfcontacts/internal/entity"
)

var (
	seen = time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

	testCompanies = []entity.CompanyRecord{{
		Name:          "acme-brochure",
		Domain:        "acme.com",
		MainPhone:     "5551234567",
		Street:        "123 Main Street",
		City:          "Austin",
		State:         "TX",
		PostalCode:    "78701",
		URL:           "https://acme.com",
		ContactEmails: []string{"jane@acme.com", "bob@acme.com"},
		SourcePath:    "in/acme-brochure.pdf",
		FirstSeen:     seen,
	}}

	testContacts = []entity.ContactRecord{
		{Email: "jane@acme.com", Phone: "5551234567", CompanyDomain: "acme.com", SourcePath: "in/acme-brochure.pdf", FirstSeen: seen},
		{Email: "bob@acme.com", CompanyDomain: "acme.com", SourcePath: "in/acme-brochure.pdf", FirstSeen: seen},
	}
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	cl := changelog.New(filepath.Join(dir, "change_log.txt"), nil)
	return NewService(dir, cl, nil), dir
}

func TestWriteCSV_TimestampedPair(t *testing.T) {
	svc, _ := newTestService(t)
	svc.WithClock(func() time.Time { return time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC) })

	companyPath, contactPath, err := svc.WriteCSV(testCompanies, testContacts)
	require.NoError(t, err)

	assert.Equal(t, "companies_20260830_101500.csv", filepath.Base(companyPath))
	assert.Equal(t, "contacts_20260830_101500.csv", filepath.Base(contactPath))

	data, err := os.ReadFile(companyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "acme.com")
	assert.Contains(t, string(data), "jane@acme.com; bob@acme.com")
}

func TestWriteCSV_AppendsChangeLogEntries(t *testing.T) {
	svc, dir := newTestService(t)

	companyPath, contactPath, err := svc.WriteCSV(testCompanies, testContacts)
	require.NoError(t, err)

	cl := changelog.New(filepath.Join(dir, "change_log.txt"), nil)
	companyHist, err := cl.GetChangeHistory(companyPath)
	require.NoError(t, err)
	require.Len(t, companyHist, 1)
	assert.Contains(t, companyHist[0], "company data with 1 records")

	contactHist, err := cl.GetChangeHistory(contactPath)
	require.NoError(t, err)
	require.Len(t, contactHist, 1)
	assert.Contains(t, contactHist[0], "contact data with 2 records")
}

func TestLoadLatest_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.WriteCSV(testCompanies, testContacts)
	require.NoError(t, err)

	companies, contacts, err := svc.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, testCompanies, companies)
	assert.Equal(t, testContacts, contacts)
}

func TestLoadLatest_PicksNewestPair(t *testing.T) {
	svc, _ := newTestService(t)

	old := []entity.CompanyRecord{{Name: "old", Domain: "old.com", SourcePath: "in/old.pdf", FirstSeen: seen}}
	svc.WithClock(func() time.Time { return seen })
	_, _, err := svc.WriteCSV(old, nil)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return seen.Add(time.Hour) })
	_, _, err = svc.WriteCSV(testCompanies, testContacts)
	require.NoError(t, err)

	companies, contacts, err := svc.LoadLatest()
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "acme.com", companies[0].Domain)
	assert.Len(t, contacts, 2)
}

func TestLoadLatest_EmptyDirectory(t *testing.T) {
	svc, _ := newTestService(t)

	companies, contacts, err := svc.LoadLatest()
	require.NoError(t, err)
	assert.Empty(t, companies)
	assert.Empty(t, contacts)
}

func TestWriteXLSX_ContainsBothSheets(t *testing.T) {
	svc, _ := newTestService(t)

	data, err := svc.WriteXLSX(testCompanies, testContacts)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
