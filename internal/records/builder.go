// Package records merges extracted field candidates into company and contact
// records. Deduplication is by exact normalized-key match only: companies by
// domain, contacts by lowercased email (else name+phone).
package records

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/leadharvest/pdfcontacts/internal/entity"
	"github.com/leadharvest/pdfcontacts/internal/extract"
)

// Builder accumulates the in-memory record set for a run.
type Builder struct {
	companies    map[string]*entity.CompanyRecord
	contacts     map[string]*entity.ContactRecord
	companyOrder []string
	contactOrder []string
	now          func() time.Time
	logger       *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		companies: make(map[string]*entity.CompanyRecord),
		contacts:  make(map[string]*entity.ContactRecord),
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the timestamp source, for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Seed loads pre-existing records, typically rows read back from the last
// CSV pair, so a re-run merges into them instead of starting empty.
func (b *Builder) Seed(companies []entity.CompanyRecord, contacts []entity.ContactRecord) {
	for i := range companies {
		c := companies[i]
		if c.Domain == "" {
			continue
		}
		b.upsertCompany(&c)
	}
	for i := range contacts {
		c := contacts[i]
		b.upsertContact(&c)
	}
}

// AddBatch merges one PDF's candidates into the record set. The company key
// is the normalized domain of the first non-LinkedIn URL, falling back to
// the first email's domain; with no derivable domain the contacts are kept
// unlinked and no company is created.
func (b *Builder) AddBatch(sourcePath string, cand extract.Candidates) {
	now := b.now()
	domain := deriveDomain(cand)

	if domain != "" {
		company := &entity.CompanyRecord{
			Name:          companyNameFromPath(sourcePath),
			Domain:        domain,
			ContactEmails: append([]string(nil), cand.Emails...),
			SourcePath:    sourcePath,
			FirstSeen:     now,
		}
		if len(cand.Phones) > 0 {
			company.MainPhone = cand.Phones[0]
		}
		if len(cand.URLs) > 0 {
			company.URL = cand.URLs[0]
		}
		if len(cand.Addresses) > 0 {
			company.Street = cand.Addresses[0]
		}
		if len(cand.CityStateZip) > 0 {
			csz := cand.CityStateZip[0]
			company.City = csz.City
			company.State = csz.State
			company.PostalCode = csz.Zip
		}
		b.upsertCompany(company)
	} else if len(cand.Emails) > 0 {
		b.logger.Debug("no company domain derivable", "source", sourcePath)
	}

	for i, email := range cand.Emails {
		contact := &entity.ContactRecord{
			Email:         email,
			CompanyDomain: domain,
			SourcePath:    sourcePath,
			FirstSeen:     now,
		}
		if i < len(cand.Phones) {
			contact.Phone = cand.Phones[i]
		}
		b.upsertContact(contact)
	}
}

// Companies returns the merged companies in first-insertion order.
func (b *Builder) Companies() []entity.CompanyRecord {
	out := make([]entity.CompanyRecord, 0, len(b.companyOrder))
	for _, key := range b.companyOrder {
		out = append(out, *b.companies[key])
	}
	return out
}

// Contacts returns the merged contacts in first-insertion order.
func (b *Builder) Contacts() []entity.ContactRecord {
	out := make([]entity.ContactRecord, 0, len(b.contactOrder))
	for _, key := range b.contactOrder {
		out = append(out, *b.contacts[key])
	}
	return out
}

func (b *Builder) upsertCompany(c *entity.CompanyRecord) {
	key := c.Key()
	existing, ok := b.companies[key]
	if !ok {
		b.companies[key] = c
		b.companyOrder = append(b.companyOrder, key)
		return
	}
	// Existing record wins; only blank fields are filled in.
	fill(&existing.Name, c.Name)
	fill(&existing.MainPhone, c.MainPhone)
	fill(&existing.Street, c.Street)
	fill(&existing.City, c.City)
	fill(&existing.State, c.State)
	fill(&existing.PostalCode, c.PostalCode)
	fill(&existing.URL, c.URL)
	for _, email := range c.ContactEmails {
		if !containsFold(existing.ContactEmails, email) {
			existing.ContactEmails = append(existing.ContactEmails, email)
		}
	}
	if existing.FirstSeen.After(c.FirstSeen) && !c.FirstSeen.IsZero() {
		existing.FirstSeen = c.FirstSeen
	}
}

func (b *Builder) upsertContact(c *entity.ContactRecord) {
	key := c.Key()
	existing, ok := b.contacts[key]
	if !ok {
		b.contacts[key] = c
		b.contactOrder = append(b.contactOrder, key)
		return
	}
	fill(&existing.Name, c.Name)
	fill(&existing.Phone, c.Phone)
	fill(&existing.CompanyDomain, c.CompanyDomain)
	if existing.FirstSeen.After(c.FirstSeen) && !c.FirstSeen.IsZero() {
		existing.FirstSeen = c.FirstSeen
	}
}

func deriveDomain(cand extract.Candidates) string {
	for _, u := range cand.URLs {
		if d := DomainFromURL(u); d != "" {
			return d
		}
	}
	for _, e := range cand.Emails {
		if d := DomainFromEmail(e); d != "" {
			return d
		}
	}
	return ""
}

// companyNameFromPath uses the PDF filename, sans extension, as the default
// company name.
func companyNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fill(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
