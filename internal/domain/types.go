package domain

import "time"

// UserID is the Telegram user identifier.
type UserID int64

// ThoughtID identifies a stored thought (assigned by the store on creation).
type ThoughtID string

// Mode governs how an incoming message from a user is interpreted.
type Mode string

const (
	ModeNormal Mode = "normal" // store thoughts
	ModeChat   Mode = "chat"   // retrieval-augmented Q&A
	ModeGame   Mode = "game"   // "get to know you" question game
	ModeDelete Mode = "delete" // waiting for a delete selection
)

// Category is one of the fixed four-label taxonomy for thoughts.
type Category string

const (
	CategoryWork          Category = "work"
	CategoryHealth        Category = "health"
	CategoryRelationships Category = "relationships"
	CategoryPurpose       Category = "purpose"
)

// AllCategories lists every valid category, in display order.
var AllCategories = []Category{
	CategoryWork,
	CategoryHealth,
	CategoryRelationships,
	CategoryPurpose,
}

// ParseCategory returns the category matching name, and whether it is valid.
// Matching is exact; callers lowercase user input first.
func ParseCategory(name string) (Category, bool) {
	c := Category(name)
	for _, v := range AllCategories {
		if c == v {
			return c, true
		}
	}
	return "", false
}

// Collection names the store collections the bot writes to.
type Collection string

const (
	CollectionThoughts Collection = "personal_thoughts"
	CollectionGame     Collection = "game_responses"
	CollectionChat     Collection = "chat_interactions"
)

type Timestamp = time.Time
