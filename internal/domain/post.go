// Package domain holds the travel-journal entities shared by the backend
// drivers, the facade and the HTTP API.
package domain

import "time"

// DefaultReadTime is shown when a post carries no read time.
const DefaultReadTime = 5

// Table names shared by every backend.
const (
	TableBlogPosts     = "blog_posts"
	TableDestinations  = "destinations"
	TableGalleryImages = "gallery_images"
	TableComments      = "comments"
	TableReactions     = "reactions"
	TableSubscribers   = "subscribers"
)

// Tables returns every table name, in dependency order.
func Tables() []string {
	return []string{
		TableDestinations,
		TableBlogPosts,
		TableGalleryImages,
		TableComments,
		TableReactions,
		TableSubscribers,
	}
}

// BlogPost is a travel story.
// Content is markdown. Destination and DestinationID link the post to a
// Destination by name and by id; either may be empty.
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	CreatedDate   Timestamp `json:"created_date"`
	Image         string    `json:"image,omitempty"`
	Category      string    `json:"category,omitempty"`
	Featured      bool      `json:"featured"`
	Destination   string    `json:"destination,omitempty"`
	DestinationID string    `json:"destination_id,omitempty"`
	GalleryImages []string  `json:"gallery_images,omitempty"`
	ReadTime      *int      `json:"read_time,omitempty"`
}

// DisplayReadTime returns the read time in minutes, defaulting to 5.
func (p BlogPost) DisplayReadTime() int {
	if p.ReadTime == nil || *p.ReadTime <= 0 {
		return DefaultReadTime
	}
	return *p.ReadTime
}

// NotFoundPost is returned by lookups that must never come back empty.
func NotFoundPost(id string, now time.Time) BlogPost {
	return BlogPost{
		ID:          id,
		Title:       "Blog Post Not Found",
		Content:     "This blog post does not exist",
		Author:      "Unknown",
		CreatedDate: NewTimestamp(now),
	}
}

// GalleryImage is one extra image attached to a post.
type GalleryImage struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	ImageURL    string    `json:"image_url"`
	AltText     string    `json:"alt_text,omitempty"`
	CreatedDate Timestamp `json:"created_date"`
}

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	CreatedDate Timestamp `json:"created_date"`
}
