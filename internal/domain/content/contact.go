package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// SocialLinks is a JSON-column map of platform name to profile URL
type SocialLinks map[string]string

// Value implements driver.Valuer for JSON column storage
func (l SocialLinks) Value() (driver.Value, error) {
	if l == nil {
		l = SocialLinks{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON column storage
func (l *SocialLinks) Scan(value any) error {
	if value == nil {
		*l = SocialLinks{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for SocialLinks: %T", value)
	}
}

// ContactDetails is the store's public contact page, one row per store
type ContactDetails struct {
	shared.StoreAggregateRoot

	PrimaryEmail string `gorm:"type:varchar(200);not null" json:"primary_email"`
	SupportEmail string `gorm:"type:varchar(200)" json:"support_email"`

	PrimaryPhone   string `gorm:"type:varchar(20);not null" json:"primary_phone"`
	WhatsAppNumber string `gorm:"type:varchar(20)" json:"whatsapp_number"`

	AddressLine1 string `gorm:"type:varchar(255)" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(255)" json:"address_line2"`
	City         string `gorm:"type:varchar(100)" json:"city"`
	State        string `gorm:"type:varchar(100)" json:"state"`
	PostalCode   string `gorm:"type:varchar(20)" json:"postal_code"`
	Country      string `gorm:"type:varchar(100)" json:"country"`

	// MapEmbedURL is the iframe source for the contact page map
	MapEmbedURL string      `gorm:"type:varchar(1000)" json:"map_embed_url"`
	Social      SocialLinks `gorm:"type:json" json:"social"`
}

// TableName returns the table name for GORM
func (ContactDetails) TableName() string {
	return "contact_details"
}

// NewContactDetails creates the contact page for a store
func NewContactDetails(storeID uuid.UUID, primaryEmail, primaryPhone string) (*ContactDetails, error) {
	if err := validateContactEmail(primaryEmail); err != nil {
		return nil, err
	}
	if err := validateContactPhone(primaryPhone); err != nil {
		return nil, err
	}

	c := &ContactDetails{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		PrimaryEmail:       strings.ToLower(strings.TrimSpace(primaryEmail)),
		PrimaryPhone:       strings.TrimSpace(primaryPhone),
		Social:             SocialLinks{},
	}
	return c, nil
}

// SetEmails sets the public email addresses
func (c *ContactDetails) SetEmails(primaryEmail, supportEmail string) error {
	if err := validateContactEmail(primaryEmail); err != nil {
		return err
	}
	if supportEmail != "" {
		if err := validateContactEmail(supportEmail); err != nil {
			return err
		}
	}
	c.PrimaryEmail = strings.ToLower(strings.TrimSpace(primaryEmail))
	c.SupportEmail = strings.ToLower(strings.TrimSpace(supportEmail))
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetPhones sets the public phone numbers
func (c *ContactDetails) SetPhones(primaryPhone, whatsAppNumber string) error {
	if err := validateContactPhone(primaryPhone); err != nil {
		return err
	}
	c.PrimaryPhone = strings.TrimSpace(primaryPhone)
	c.WhatsAppNumber = strings.TrimSpace(whatsAppNumber)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetAddress sets the physical address shown on the contact page
func (c *ContactDetails) SetAddress(line1, line2, city, state, postalCode, country string) {
	c.AddressLine1 = line1
	c.AddressLine2 = line2
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.Country = country
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetMapEmbed sets the contact page map iframe source
func (c *ContactDetails) SetMapEmbed(url string) error {
	if len(url) > 1000 {
		return shared.NewDomainError("INVALID_MAP_EMBED", "map embed URL exceeds 1000 characters")
	}
	c.MapEmbedURL = url
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetSocialLinks replaces the social profile links
func (c *ContactDetails) SetSocialLinks(links map[string]string) {
	if links == nil {
		links = map[string]string{}
	}
	c.Social = SocialLinks(links)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateContactEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || len(email) > 200 {
		return shared.NewDomainError("INVALID_CONTACT_EMAIL", "a valid contact email is required")
	}
	return nil
}

func validateContactPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || len(phone) > 20 {
		return shared.NewDomainError("INVALID_CONTACT_PHONE", "a valid contact phone is required")
	}
	return nil
}
