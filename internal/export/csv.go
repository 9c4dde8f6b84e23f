// Package export serializes the merged record set to timestamped CSV files
// and, on request, an XLSX workbook. Every write is recorded in the change
// log.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/leadharvest/pdfcontacts/internal/changelog"
	"github.com/leadharvest/pdfcontacts/internal/entity"
)

// FilenameStamp is the timestamp layout embedded in output filenames.
const FilenameStamp = "20060102_150405"

var companyHeaders = []string{
	"company_name", "domain", "main_phone", "street", "city", "state",
	"postal_code", "url", "contact_emails", "source_file", "first_seen",
}

var contactHeaders = []string{
	"email", "name", "phone", "company_domain", "source_file", "first_seen",
}

// Service writes and reads the CSV pair in the output directory.
type Service struct {
	outDir    string
	changeLog *changelog.Logger
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(outDir string, changeLog *changelog.Logger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outDir: outDir, changeLog: changeLog, logger: logger, now: time.Now}
}

// WithClock overrides the timestamp source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WriteCSV persists both record sets as companies_<ts>.csv and
// contacts_<ts>.csv and appends a change-log entry for each file.
func (s *Service) WriteCSV(companies []entity.CompanyRecord, contacts []entity.ContactRecord) (string, string, error) {
	stamp := s.now().Format(FilenameStamp)

	companyPath := filepath.Join(s.outDir, "companies_"+stamp+".csv")
	if err := writeCSVFile(companyPath, companyHeaders, companyRows(companies)); err != nil {
		return "", "", err
	}
	if err := s.changeLog.LogChange(companyPath, fmt.Sprintf("Created/updated company data with %d records.", len(companies))); err != nil {
		return "", "", err
	}
	s.logger.Info("export.csv.ok", "path", companyPath, "rows", len(companies))

	contactPath := filepath.Join(s.outDir, "contacts_"+stamp+".csv")
	if err := writeCSVFile(contactPath, contactHeaders, contactRows(contacts)); err != nil {
		return "", "", err
	}
	if err := s.changeLog.LogChange(contactPath, fmt.Sprintf("Created/updated contact data with %d records.", len(contacts))); err != nil {
		return "", "", err
	}
	s.logger.Info("export.csv.ok", "path", contactPath, "rows", len(contacts))

	return companyPath, contactPath, nil
}

// LoadLatest reads the newest companies_*.csv and contacts_*.csv back into
// records, so a new run can merge into the previous output. Missing files
// yield empty sets, not errors.
func (s *Service) LoadLatest() ([]entity.CompanyRecord, []entity.ContactRecord, error) {
	var companies []entity.CompanyRecord
	var contacts []entity.ContactRecord

	if path := latestMatch(filepath.Join(s.outDir, "companies_*.csv")); path != "" {
		rows, err := readCSVFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		for _, row := range rows {
			companies = append(companies, companyFromRow(row))
		}
		s.logger.Info("loaded previous companies", "path", path, "rows", len(companies))
	}

	if path := latestMatch(filepath.Join(s.outDir, "contacts_*.csv")); path != "" {
		rows, err := readCSVFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		for _, row := range rows {
			contacts = append(contacts, contactFromRow(row))
		}
		s.logger.Info("loaded previous contacts", "path", path, "rows", len(contacts))
	}

	return companies, contacts, nil
}

func companyRows(companies []entity.CompanyRecord) [][]string {
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{
			c.Name, c.Domain, c.MainPhone, c.Street, c.City, c.State,
			c.PostalCode, c.URL, strings.Join(c.ContactEmails, "; "),
			c.SourcePath, formatTime(c.FirstSeen),
		})
	}
	return rows
}

func contactRows(contacts []entity.ContactRecord) [][]string {
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{
			c.Email, c.Name, c.Phone, c.CompanyDomain, c.SourcePath,
			formatTime(c.FirstSeen),
		})
	}
	return rows
}

func companyFromRow(row map[string]string) entity.CompanyRecord {
	c := entity.CompanyRecord{
		Name:       row["company_name"],
		Domain:     row["domain"],
		MainPhone:  row["main_phone"],
		Street:     row["street"],
		City:       row["city"],
		State:      row["state"],
		PostalCode: row["postal_code"],
		URL:        row["url"],
		SourcePath: row["source_file"],
		FirstSeen:  parseTime(row["first_seen"]),
	}
	if v := row["contact_emails"]; v != "" {
		c.ContactEmails = strings.Split(v, "; ")
	}
	return c
}

func contactFromRow(row map[string]string) entity.ContactRecord {
	return entity.ContactRecord{
		Email:         row["email"],
		Name:          row["name"],
		Phone:         row["phone"],
		CompanyDomain: row["company_domain"],
		SourcePath:    row["source_file"],
		FirstSeen:     parseTime(row["first_seen"]),
	}
}

func writeCSVFile(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		_ = f.Close()
		return fmt.Errorf("write headers: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// readCSVFile returns one header-keyed map per data row.
func readCSVFile(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, nil
	}
	headers := all[0]
	rows := make([]map[string]string, 0, len(all)-1)
	for _, rec := range all[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// latestMatch returns the lexically greatest match, which for the
// timestamped filenames is also the newest, or "".
func latestMatch(pattern string) string {
	matches, _ := filepath.Glob(pattern)
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(changelog.TimeFormat)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(changelog.TimeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
