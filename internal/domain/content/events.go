package content

import (
	"github.com/multistore/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeBlog   = "Blog"
	AggregateTypePolicy = "Policy"
)

// Event type constants
const (
	EventTypeBlogCreated   = "BlogCreated"
	EventTypeBlogUpdated   = "BlogUpdated"
	EventTypeBlogPublished = "BlogPublished"
	EventTypePolicyUpdated = "PolicyUpdated"
)

// BlogCreatedEvent is published when a blog post is drafted
type BlogCreatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NewBlogCreatedEvent creates a new BlogCreatedEvent
func NewBlogCreatedEvent(b *Blog) *BlogCreatedEvent {
	return &BlogCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBlogCreated, AggregateTypeBlog, b.ID, b.StoreID),
		Title:           b.Title,
		Slug:            b.Slug,
	}
}

// BlogUpdatedEvent is published when a blog post body changes
type BlogUpdatedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
}

// NewBlogUpdatedEvent creates a new BlogUpdatedEvent
func NewBlogUpdatedEvent(b *Blog) *BlogUpdatedEvent {
	return &BlogUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBlogUpdated, AggregateTypeBlog, b.ID, b.StoreID),
		Slug:            b.Slug,
	}
}

// BlogPublishedEvent is published when a blog post goes live
type BlogPublishedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NewBlogPublishedEvent creates a new BlogPublishedEvent
func NewBlogPublishedEvent(b *Blog) *BlogPublishedEvent {
	return &BlogPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBlogPublished, AggregateTypeBlog, b.ID, b.StoreID),
		Title:           b.Title,
		Slug:            b.Slug,
	}
}

// PolicyUpdatedEvent is published when a policy page is created or revised
type PolicyUpdatedEvent struct {
	shared.BaseDomainEvent
	PolicyType PolicyType `json:"policy_type"`
	DocVersion string     `json:"doc_version"`
}

// NewPolicyUpdatedEvent creates a new PolicyUpdatedEvent
func NewPolicyUpdatedEvent(p *Policy) *PolicyUpdatedEvent {
	return &PolicyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePolicyUpdated, AggregateTypePolicy, p.ID, p.StoreID),
		PolicyType:      p.Type,
		DocVersion:      p.DocVersion,
	}
}
