package content

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// PolicyType identifies a standard store policy page
type PolicyType string

const (
	PolicyTypePrivacy  PolicyType = "privacy"
	PolicyTypeTerms    PolicyType = "terms"
	PolicyTypeRefund   PolicyType = "refund"
	PolicyTypeShipping PolicyType = "shipping"
)

// IsValid returns true if the policy type is valid
func (t PolicyType) IsValid() bool {
	switch t {
	case PolicyTypePrivacy, PolicyTypeTerms, PolicyTypeRefund, PolicyTypeShipping:
		return true
	default:
		return false
	}
}

// Policy represents a legal policy page, one per type per store
type Policy struct {
	shared.StoreAggregateRoot
	Type  PolicyType `gorm:"type:varchar(20);not null;uniqueIndex:idx_policy_store_type,priority:2" json:"type"`
	Title string     `gorm:"type:varchar(255);not null" json:"title"`
	// Content is the rendered HTML body
	Content string `gorm:"type:text;not null" json:"content"`

	IsPublished  bool `gorm:"default:false" json:"is_published"`
	ShowInFooter bool `gorm:"default:true" json:"show_in_footer"`

	// DocVersion is the human-facing revision label, e.g. "1.2"
	DocVersion    string     `gorm:"type:varchar(10);default:'1.0'" json:"doc_version"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// TableName returns the table name for GORM
func (Policy) TableName() string {
	return "policies"
}

// NewPolicy creates a new unpublished policy page
func NewPolicy(storeID uuid.UUID, policyType PolicyType, title, content string) (*Policy, error) {
	if !policyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_POLICY_TYPE", "unknown policy type")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "policy content is required")
	}

	p := &Policy{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Type:               policyType,
		Title:              title,
		Content:            content,
		ShowInFooter:       true,
		DocVersion:         "1.0",
	}

	p.AddDomainEvent(NewPolicyUpdatedEvent(p))
	return p, nil
}

// Revise replaces the policy text and bumps the revision label
func (p *Policy) Revise(title, content, docVersion string, effectiveDate *time.Time) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "policy content is required")
	}
	if docVersion != "" {
		if len(docVersion) > 10 {
			return shared.NewDomainError("INVALID_DOC_VERSION", "revision label exceeds 10 characters")
		}
		p.DocVersion = docVersion
	}

	p.Title = title
	p.Content = content
	p.EffectiveDate = effectiveDate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPolicyUpdatedEvent(p))
	return nil
}

// SetFooterVisibility toggles the footer link
func (p *Policy) SetFooterVisibility(visible bool) {
	p.ShowInFooter = visible
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Publish makes the policy publicly visible
func (p *Policy) Publish() {
	if p.IsPublished {
		return
	}
	now := time.Now()
	p.IsPublished = true
	p.PublishedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
}

// Unpublish hides the policy
func (p *Policy) Unpublish() {
	if !p.IsPublished {
		return
	}
	p.IsPublished = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsEffective returns true if the policy is published and its effective
// date, when set, has passed
func (p *Policy) IsEffective(at time.Time) bool {
	if !p.IsPublished {
		return false
	}
	if p.EffectiveDate != nil && at.Before(*p.EffectiveDate) {
		return false
	}
	return true
}
