package entity

import "time"

// CompanyRecord represents a company assembled from extracted candidates.
// A company is uniquely identified by its normalized domain.
type CompanyRecord struct {
	Name          string    `json:"name"`
	Domain        string    `json:"domain"`
	MainPhone     string    `json:"main_phone,omitempty"`
	Street        string    `json:"street,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	URL           string    `json:"url,omitempty"`
	ContactEmails []string  `json:"contact_emails,omitempty"`
	SourcePath    string    `json:"source_path"`
	FirstSeen     time.Time `json:"first_seen"`
}

// Key returns the dedup key for the company.
func (c *CompanyRecord) Key() string {
	return c.Domain
}
