// Package sse streams Server-Sent Events about new comments, reactions
// and signups to connected readers.
package sse

import (
	"time"

	"github.com/offroutechronicles/offroute-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventHeartbeat keeps idle connections open.
	EventHeartbeat EventType = "heartbeat"
	// EventCommentCreated is sent after a comment is stored.
	EventCommentCreated EventType = "comment.created"
	// EventReactionChanged is sent after a reaction toggle.
	EventReactionChanged EventType = "reaction.changed"
	// EventSubscriberCreated is sent after a newsletter signup.
	EventSubscriberCreated EventType = "subscriber.created"
	// EventCacheInvalidated is sent when cached query results are dropped.
	EventCacheInvalidated EventType = "cache.invalidated"
)

// Event represents an SSE event to be sent to clients.
// Topic scopes the event to one entity, as "blog_post:1". Clients that
// subscribed to a topic only receive events with that topic; an empty
// Topic goes to everyone.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
	Topic     string    `json:"topic,omitempty"`
}

// Topic names the channel for one entity.
func Topic(entityType domain.EntityType, entityID string) string {
	return string(entityType) + ":" + entityID
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      map[string]any{},
	}
}

// CommentView is a comment as readers see it. The author's email is
// stored but never broadcast.
type CommentView struct {
	ID          string           `json:"id"`
	PostID      string           `json:"post_id"`
	AuthorName  string           `json:"author_name"`
	Content     string           `json:"content"`
	ParentID    string           `json:"parent_id,omitempty"`
	CreatedDate domain.Timestamp `json:"created_date"`
}

// CommentCreatedData is the payload of EventCommentCreated.
type CommentCreatedData struct {
	Comment CommentView `json:"comment"`
}

// NewCommentCreatedEvent creates an event for a stored comment. It is
// scoped to the comment's post.
func NewCommentCreatedEvent(c domain.Comment) Event {
	return Event{
		Type:      EventCommentCreated,
		Timestamp: time.Now(),
		Topic:     Topic(domain.EntityBlogPost, c.PostID),
		Data: CommentCreatedData{Comment: CommentView{
			ID:          c.ID,
			PostID:      c.PostID,
			AuthorName:  c.AuthorName,
			Content:     c.Content,
			ParentID:    c.ParentID,
			CreatedDate: c.CreatedDate,
		}},
	}
}

// ReactionChangedData is the payload of EventReactionChanged. Reaction is
// empty when the user's reaction was removed.
type ReactionChangedData struct {
	EntityType     domain.EntityType           `json:"entity_type"`
	EntityID       string                      `json:"entity_id"`
	UserIdentifier string                      `json:"user_identifier"`
	Reaction       domain.ReactionType         `json:"reaction,omitempty"`
	Counts         map[domain.ReactionType]int `json:"counts"`
	Total          int                         `json:"total"`
}

// NewReactionChangedEvent creates an event for a reaction toggle.
func NewReactionChangedEvent(data ReactionChangedData) Event {
	return Event{
		Type:      EventReactionChanged,
		Timestamp: time.Now(),
		Topic:     Topic(data.EntityType, data.EntityID),
		Data:      data,
	}
}

// NewSubscriberCreatedEvent announces a signup without exposing the
// address.
func NewSubscriberCreatedEvent(s domain.Subscriber) Event {
	return Event{
		Type:      EventSubscriberCreated,
		Timestamp: time.Now(),
		Data:      map[string]string{"id": s.ID},
	}
}

// NewCacheInvalidatedEvent reports a dropped query key.
func NewCacheInvalidatedEvent(key []string) Event {
	return Event{
		Type:      EventCacheInvalidated,
		Timestamp: time.Now(),
		Data:      map[string][]string{"key": key},
	}
}
