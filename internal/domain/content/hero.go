package content

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// HeroSection represents one storefront homepage banner. Stores order
// their banners with SortOrder; inactive banners stay saved but hidden.
type HeroSection struct {
	shared.StoreAggregateRoot
	Title    string `gorm:"type:varchar(200);not null" json:"title"`
	Subtitle string `gorm:"type:varchar(200)" json:"subtitle"`

	ImageURL       string `gorm:"type:varchar(500);not null" json:"image_url"`
	MobileImageURL string `gorm:"type:varchar(500)" json:"mobile_image_url"`

	// CTALabel and CTAURL render the banner's call-to-action button
	CTALabel string `gorm:"type:varchar(50)" json:"cta_label"`
	CTAURL   string `gorm:"type:varchar(500)" json:"cta_url"`

	SortOrder int  `gorm:"default:0;index:idx_hero_store_sort" json:"sort_order"`
	IsActive  bool `gorm:"default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (HeroSection) TableName() string {
	return "hero_sections"
}

// NewHeroSection creates a new active banner appended at the given position
func NewHeroSection(storeID uuid.UUID, title, imageURL string, sortOrder int) (*HeroSection, error) {
	if err := validateHeroTitle(title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, shared.NewDomainError("INVALID_HERO_IMAGE", "banner image is required")
	}

	h := &HeroSection{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Title:              title,
		ImageURL:           imageURL,
		SortOrder:          sortOrder,
		IsActive:           true,
	}
	return h, nil
}

// Update updates the banner copy and imagery
func (h *HeroSection) Update(title, subtitle, imageURL, mobileImageURL string) error {
	if err := validateHeroTitle(title); err != nil {
		return err
	}
	if strings.TrimSpace(imageURL) == "" {
		return shared.NewDomainError("INVALID_HERO_IMAGE", "banner image is required")
	}
	if len(subtitle) > 200 {
		return shared.NewDomainError("INVALID_HERO_SUBTITLE", "subtitle exceeds 200 characters")
	}

	h.Title = title
	h.Subtitle = subtitle
	h.ImageURL = imageURL
	h.MobileImageURL = mobileImageURL
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}

// SetCTA sets the call-to-action button
func (h *HeroSection) SetCTA(label, url string) error {
	if len(label) > 50 {
		return shared.NewDomainError("INVALID_HERO_CTA", "button label exceeds 50 characters")
	}
	if label != "" && strings.TrimSpace(url) == "" {
		return shared.NewDomainError("INVALID_HERO_CTA", "button link is required when a label is set")
	}
	h.CTALabel = label
	h.CTAURL = url
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}

// SetSortOrder moves the banner to a new position
func (h *HeroSection) SetSortOrder(order int) {
	if h.SortOrder == order {
		return
	}
	h.SortOrder = order
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
}

// SetActive toggles banner visibility
func (h *HeroSection) SetActive(active bool) {
	if h.IsActive == active {
		return
	}
	h.IsActive = active
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
}

func validateHeroTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_HERO_TITLE", "banner title is required")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_HERO_TITLE", "banner title exceeds 200 characters")
	}
	return nil
}
