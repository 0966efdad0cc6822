package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/multistore/backend/internal/domain/shared"
)

// BlogStatus represents the publication state of a blog post
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// IsValid returns true if the status is valid
func (s BlogStatus) IsValid() bool {
	switch s {
	case BlogStatusDraft, BlogStatusPublished, BlogStatusArchived:
		return true
	default:
		return false
	}
}

var contentSlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// TagList is a JSON-column slice of post tags
type TagList []string

// Value implements driver.Valuer for JSON column storage
func (l TagList) Value() (driver.Value, error) {
	if l == nil {
		l = TagList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSON column storage
func (l *TagList) Scan(value any) error {
	if value == nil {
		*l = TagList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for TagList: %T", value)
	}
}

// wordsPerMinute is the reading speed used for the reading time estimate
const wordsPerMinute = 200

// Blog represents a blog post aggregate root
type Blog struct {
	shared.StoreAggregateRoot
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Slug    string `gorm:"type:varchar(300);not null;uniqueIndex:idx_blog_store_slug,priority:2" json:"slug"`
	Excerpt string `gorm:"type:varchar(500)" json:"excerpt"`
	// Content is the rendered HTML body
	Content string `gorm:"type:text;not null" json:"content"`

	AuthorID   *uuid.UUID `gorm:"type:char(36)" json:"author_id,omitempty"`
	AuthorName string     `gorm:"type:varchar(100)" json:"author_name"`

	FeaturedImage    string `gorm:"type:varchar(500)" json:"featured_image"`
	FeaturedImageAlt string `gorm:"type:varchar(255)" json:"featured_image_alt"`

	Category string  `gorm:"type:varchar(100)" json:"category"`
	Tags     TagList `gorm:"type:json" json:"tags"`

	Status     BlogStatus `gorm:"type:varchar(20);default:'draft';index:idx_blog_store_status" json:"status"`
	IsFeatured bool       `gorm:"default:false" json:"is_featured"`

	MetaTitle       string `gorm:"type:varchar(60)" json:"meta_title"`
	MetaDescription string `gorm:"type:varchar(160)" json:"meta_description"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	// ReadingTime is the estimated minutes to read, derived from content
	ReadingTime int `gorm:"default:0" json:"reading_time"`
	ViewCount   int `gorm:"default:0" json:"view_count"`
}

// TableName returns the table name for GORM
func (Blog) TableName() string {
	return "blogs"
}

// NewBlog creates a new draft blog post
func NewBlog(storeID uuid.UUID, title, slug, content string) (*Blog, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := ValidateContentSlug(slug); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "post content is required")
	}

	b := &Blog{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Title:              title,
		Slug:               slug,
		Content:            content,
		Status:             BlogStatusDraft,
		Tags:               TagList{},
		ReadingTime:        estimateReadingTime(content),
	}

	b.AddDomainEvent(NewBlogCreatedEvent(b))
	return b, nil
}

// Update updates the post body and metadata
func (b *Blog) Update(title, slug, content, excerpt string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := ValidateContentSlug(slug); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "post content is required")
	}
	if len(excerpt) > 500 {
		return shared.NewDomainError("INVALID_EXCERPT", "excerpt exceeds 500 characters")
	}

	b.Title = title
	b.Slug = slug
	b.Content = content
	b.Excerpt = excerpt
	b.ReadingTime = estimateReadingTime(content)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	b.AddDomainEvent(NewBlogUpdatedEvent(b))
	return nil
}

// SetAuthor sets the post author attribution
func (b *Blog) SetAuthor(authorID *uuid.UUID, authorName string) {
	b.AuthorID = authorID
	b.AuthorName = authorName
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetFeaturedImage sets the cover image
func (b *Blog) SetFeaturedImage(url, alt string) {
	b.FeaturedImage = url
	b.FeaturedImageAlt = alt
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetTags replaces the post tags
func (b *Blog) SetTags(category string, tags []string) {
	b.Category = category
	b.Tags = TagList(tags)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// SetSEO sets the search metadata
func (b *Blog) SetSEO(metaTitle, metaDescription string) error {
	if len(metaTitle) > 60 {
		return shared.NewDomainError("INVALID_META_TITLE", "meta title exceeds 60 characters")
	}
	if len(metaDescription) > 160 {
		return shared.NewDomainError("INVALID_META_DESCRIPTION", "meta description exceeds 160 characters")
	}
	b.MetaTitle = metaTitle
	b.MetaDescription = metaDescription
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SetFeatured toggles homepage featuring
func (b *Blog) SetFeatured(featured bool) {
	b.IsFeatured = featured
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Publish makes the post publicly visible. PublishedAt is set on the
// first publish only so republishing keeps the original date.
func (b *Blog) Publish() error {
	if b.Status == BlogStatusArchived {
		return shared.NewDomainError("BLOG_ARCHIVED", "archived posts cannot be published")
	}
	if b.Status == BlogStatusPublished {
		return nil
	}
	b.Status = BlogStatusPublished
	if b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	b.AddDomainEvent(NewBlogPublishedEvent(b))
	return nil
}

// Unpublish moves the post back to draft
func (b *Blog) Unpublish() {
	if b.Status != BlogStatusPublished {
		return
	}
	b.Status = BlogStatusDraft
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Archive removes the post from all listings
func (b *Blog) Archive() {
	if b.Status == BlogStatusArchived {
		return
	}
	b.Status = BlogStatusArchived
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// RecordView increments the view counter
func (b *Blog) RecordView() {
	b.ViewCount++
}

// IsPublished returns true if the post is publicly visible
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

func estimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "title is required")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "title exceeds 255 characters")
	}
	return nil
}

// ValidateContentSlug validates a URL slug for content pages
func ValidateContentSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "slug is required")
	}
	if len(slug) > 300 {
		return shared.NewDomainError("INVALID_SLUG", "slug exceeds 300 characters")
	}
	if !contentSlugRegex.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "slug must contain only lowercase letters, numbers and hyphens")
	}
	return nil
}
