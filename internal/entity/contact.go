package entity

import (
	"strings"
	"time"
)

// ContactRecord represents a person extracted from a PDF.
// A contact is uniquely identified by its email (case-insensitive) when
// present, else by the (name, phone) pair.
type ContactRecord struct {
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"` // bare digits
	CompanyDomain string    `json:"company_domain,omitempty"`
	SourcePath    string    `json:"source_path"`
	FirstSeen     time.Time `json:"first_seen"`
}

// Key returns the dedup key for the contact.
func (c *ContactRecord) Key() string {
	if c.Email != "" {
		return strings.ToLower(c.Email)
	}
	return c.Name + "\x00" + c.Phone
}
