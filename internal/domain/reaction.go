package domain

// EntityType names what a reaction is attached to.
type EntityType string

const (
	EntityBlogPost    EntityType = "blog_post"
	EntityDestination EntityType = "destination"
)

// Valid reports whether e is a known entity type.
func (e EntityType) Valid() bool {
	return e == EntityBlogPost || e == EntityDestination
}

// ReactionType is one of the fixed reaction kinds.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionLove    ReactionType = "love"
	ReactionWow     ReactionType = "wow"
	ReactionInspire ReactionType = "inspire"
)

// ReactionTypes lists every reaction type in display order.
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionWow, ReactionInspire}

// Valid reports whether r is a known reaction type.
func (r ReactionType) Valid() bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionWow, ReactionInspire:
		return true
	}
	return false
}

// Reaction is one user's reaction to an entity. A user holds at most one
// reaction per entity.
type Reaction struct {
	ID             string       `json:"id"`
	EntityType     EntityType   `json:"entity_type"`
	EntityID       string       `json:"entity_id"`
	ReactionType   ReactionType `json:"reaction_type"`
	UserIdentifier string       `json:"user_identifier"`
	CreatedDate    Timestamp    `json:"created_date"`
}

// NewReaction is the input for creating or replacing a reaction.
type NewReaction struct {
	EntityType     EntityType   `json:"entity_type" validate:"required,oneof=blog_post destination"`
	EntityID       string       `json:"entity_id" validate:"required"`
	ReactionType   ReactionType `json:"reaction_type" validate:"required,oneof=like love wow inspire"`
	UserIdentifier string       `json:"user_identifier" validate:"required,max=128"`
}

// ReactionKey identifies the (entity, user) slot a reaction occupies.
var ReactionKey = []string{"entity_type", "entity_id", "user_identifier"}
