package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/content"
)

// CreateBlogRequest creates a blog post
type CreateBlogRequest struct {
	Title            string     `json:"title" binding:"required,max=255"`
	Slug             string     `json:"slug" binding:"required,max=300"`
	Content          string     `json:"content" binding:"required"`
	Excerpt          string     `json:"excerpt" binding:"max=500"`
	AuthorID         *uuid.UUID `json:"author_id"`
	AuthorName       string     `json:"author_name" binding:"max=100"`
	FeaturedImage    string     `json:"featured_image" binding:"omitempty,url,max=500"`
	FeaturedImageAlt string     `json:"featured_image_alt" binding:"max=255"`
	Category         string     `json:"category" binding:"max=100"`
	Tags             []string   `json:"tags"`
	MetaTitle        string     `json:"meta_title" binding:"max=60"`
	MetaDescription  string     `json:"meta_description" binding:"max=160"`
	IsFeatured       bool       `json:"is_featured"`
}

// UpdateBlogRequest partially updates a blog post
type UpdateBlogRequest struct {
	Title            *string  `json:"title" binding:"omitempty,max=255"`
	Slug             *string  `json:"slug" binding:"omitempty,max=300"`
	Content          *string  `json:"content"`
	Excerpt          *string  `json:"excerpt" binding:"omitempty,max=500"`
	AuthorName       *string  `json:"author_name" binding:"omitempty,max=100"`
	FeaturedImage    *string  `json:"featured_image" binding:"omitempty,max=500"`
	FeaturedImageAlt *string  `json:"featured_image_alt" binding:"omitempty,max=255"`
	Category         *string  `json:"category" binding:"omitempty,max=100"`
	Tags             []string `json:"tags"`
	MetaTitle        *string  `json:"meta_title" binding:"omitempty,max=60"`
	MetaDescription  *string  `json:"meta_description" binding:"omitempty,max=160"`
	IsFeatured       *bool    `json:"is_featured"`
}

// BlogListFilter filters the admin blog listing
type BlogListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BlogResponse is the full blog post view
type BlogResponse struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          string     `json:"excerpt"`
	Content          string     `json:"content"`
	AuthorID         *uuid.UUID `json:"author_id,omitempty"`
	AuthorName       string     `json:"author_name"`
	FeaturedImage    string     `json:"featured_image"`
	FeaturedImageAlt string     `json:"featured_image_alt"`
	Category         string     `json:"category"`
	Tags             []string   `json:"tags"`
	Status           string     `json:"status"`
	IsFeatured       bool       `json:"is_featured"`
	MetaTitle        string     `json:"meta_title"`
	MetaDescription  string     `json:"meta_description"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ReadingTime      int        `json:"reading_time"`
	ViewCount        int        `json:"view_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BlogListResponse is the condensed listing view
type BlogListResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	AuthorName    string     `json:"author_name"`
	FeaturedImage string     `json:"featured_image"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	IsFeatured    bool       `json:"is_featured"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ReadingTime   int        `json:"reading_time"`
	ViewCount     int        `json:"view_count"`
}

// ToBlogResponse converts a domain Blog to its full view
func ToBlogResponse(b *content.Blog) BlogResponse {
	return BlogResponse{
		ID:               b.ID,
		Title:            b.Title,
		Slug:             b.Slug,
		Excerpt:          b.Excerpt,
		Content:          b.Content,
		AuthorID:         b.AuthorID,
		AuthorName:       b.AuthorName,
		FeaturedImage:    b.FeaturedImage,
		FeaturedImageAlt: b.FeaturedImageAlt,
		Category:         b.Category,
		Tags:             b.Tags,
		Status:           string(b.Status),
		IsFeatured:       b.IsFeatured,
		MetaTitle:        b.MetaTitle,
		MetaDescription:  b.MetaDescription,
		PublishedAt:      b.PublishedAt,
		ReadingTime:      b.ReadingTime,
		ViewCount:        b.ViewCount,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// ToBlogListResponses converts domain Blogs to the listing view
func ToBlogListResponses(blogs []content.Blog) []BlogListResponse {
	responses := make([]BlogListResponse, len(blogs))
	for i := range blogs {
		b := &blogs[i]
		responses[i] = BlogListResponse{
			ID:            b.ID,
			Title:         b.Title,
			Slug:          b.Slug,
			Excerpt:       b.Excerpt,
			AuthorName:    b.AuthorName,
			FeaturedImage: b.FeaturedImage,
			Category:      b.Category,
			Tags:          b.Tags,
			Status:        string(b.Status),
			IsFeatured:    b.IsFeatured,
			PublishedAt:   b.PublishedAt,
			ReadingTime:   b.ReadingTime,
			ViewCount:     b.ViewCount,
		}
	}
	return responses
}

// UpsertPolicyRequest creates or revises a policy page
type UpsertPolicyRequest struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Content       string     `json:"content" binding:"required"`
	DocVersion    string     `json:"doc_version" binding:"max=10"`
	EffectiveDate *time.Time `json:"effective_date"`
	ShowInFooter  *bool      `json:"show_in_footer"`
}

// PolicyResponse is the policy page view
type PolicyResponse struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	IsPublished   bool       `json:"is_published"`
	ShowInFooter  bool       `json:"show_in_footer"`
	DocVersion    string     `json:"doc_version"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToPolicyResponse converts a domain Policy to its view
func ToPolicyResponse(p *content.Policy) PolicyResponse {
	return PolicyResponse{
		ID:            p.ID,
		Type:          string(p.Type),
		Title:         p.Title,
		Content:       p.Content,
		IsPublished:   p.IsPublished,
		ShowInFooter:  p.ShowInFooter,
		DocVersion:    p.DocVersion,
		EffectiveDate: p.EffectiveDate,
		PublishedAt:   p.PublishedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// CreateHeroRequest creates a homepage banner
type CreateHeroRequest struct {
	Title          string `json:"title" binding:"required,max=200"`
	Subtitle       string `json:"subtitle" binding:"max=200"`
	ImageURL       string `json:"image_url" binding:"required,max=500"`
	MobileImageURL string `json:"mobile_image_url" binding:"max=500"`
	CTALabel       string `json:"cta_label" binding:"max=50"`
	CTAURL         string `json:"cta_url" binding:"max=500"`
	SortOrder      int    `json:"sort_order"`
}

// UpdateHeroRequest partially updates a banner
type UpdateHeroRequest struct {
	Title          *string `json:"title" binding:"omitempty,max=200"`
	Subtitle       *string `json:"subtitle" binding:"omitempty,max=200"`
	ImageURL       *string `json:"image_url" binding:"omitempty,max=500"`
	MobileImageURL *string `json:"mobile_image_url" binding:"omitempty,max=500"`
	CTALabel       *string `json:"cta_label" binding:"omitempty,max=50"`
	CTAURL         *string `json:"cta_url" binding:"omitempty,max=500"`
	IsActive       *bool   `json:"is_active"`
}

// ReorderHerosRequest reorders banners by their listed position
type ReorderHerosRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// HeroResponse is the banner view
type HeroResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle"`
	ImageURL       string    `json:"image_url"`
	MobileImageURL string    `json:"mobile_image_url"`
	CTALabel       string    `json:"cta_label"`
	CTAURL         string    `json:"cta_url"`
	SortOrder      int       `json:"sort_order"`
	IsActive       bool      `json:"is_active"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToHeroResponse converts a domain HeroSection to its view
func ToHeroResponse(h *content.HeroSection) HeroResponse {
	return HeroResponse{
		ID:             h.ID,
		Title:          h.Title,
		Subtitle:       h.Subtitle,
		ImageURL:       h.ImageURL,
		MobileImageURL: h.MobileImageURL,
		CTALabel:       h.CTALabel,
		CTAURL:         h.CTAURL,
		SortOrder:      h.SortOrder,
		IsActive:       h.IsActive,
		UpdatedAt:      h.UpdatedAt,
	}
}

// ToHeroResponses converts domain HeroSections to views
func ToHeroResponses(banners []content.HeroSection) []HeroResponse {
	responses := make([]HeroResponse, len(banners))
	for i := range banners {
		responses[i] = ToHeroResponse(&banners[i])
	}
	return responses
}

// UpsertContactRequest creates or updates the store contact page
type UpsertContactRequest struct {
	PrimaryEmail   string            `json:"primary_email" binding:"required,email,max=200"`
	SupportEmail   string            `json:"support_email" binding:"omitempty,email,max=200"`
	PrimaryPhone   string            `json:"primary_phone" binding:"required,max=20"`
	WhatsAppNumber string            `json:"whatsapp_number" binding:"max=20"`
	AddressLine1   string            `json:"address_line1" binding:"max=255"`
	AddressLine2   string            `json:"address_line2" binding:"max=255"`
	City           string            `json:"city" binding:"max=100"`
	State          string            `json:"state" binding:"max=100"`
	PostalCode     string            `json:"postal_code" binding:"max=20"`
	Country        string            `json:"country" binding:"max=100"`
	MapEmbedURL    string            `json:"map_embed_url" binding:"max=1000"`
	Social         map[string]string `json:"social"`
}

// ContactResponse is the contact page view
type ContactResponse struct {
	PrimaryEmail   string            `json:"primary_email"`
	SupportEmail   string            `json:"support_email"`
	PrimaryPhone   string            `json:"primary_phone"`
	WhatsAppNumber string            `json:"whatsapp_number"`
	AddressLine1   string            `json:"address_line1"`
	AddressLine2   string            `json:"address_line2"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	PostalCode     string            `json:"postal_code"`
	Country        string            `json:"country"`
	MapEmbedURL    string            `json:"map_embed_url"`
	Social         map[string]string `json:"social"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ToContactResponse converts domain ContactDetails to its view
func ToContactResponse(c *content.ContactDetails) ContactResponse {
	return ContactResponse{
		PrimaryEmail:   c.PrimaryEmail,
		SupportEmail:   c.SupportEmail,
		PrimaryPhone:   c.PrimaryPhone,
		WhatsAppNumber: c.WhatsAppNumber,
		AddressLine1:   c.AddressLine1,
		AddressLine2:   c.AddressLine2,
		City:           c.City,
		State:          c.State,
		PostalCode:     c.PostalCode,
		Country:        c.Country,
		MapEmbedURL:    c.MapEmbedURL,
		Social:         c.Social,
		UpdatedAt:      c.UpdatedAt,
	}
}
