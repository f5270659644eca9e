package chat

import (
	"time"

	"gorm.io/datatypes"

	"carelink_backend/internal/models"
)

// Conversation holds exactly one unordered pair of distinct actors.
// PairKey is the order-independent identity: both participant keys sorted
// and joined, so (A,B) and (B,A) resolve to the same row. The unique index
// collapses concurrent creation between the same pair to a single record.
type Conversation struct {
	ID               string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PairKey          string  `gorm:"uniqueIndex;not null"`
	ParticipantAID   string  `gorm:"index;not null"`
	ParticipantARole string  `gorm:"not null"`
	ParticipantBID   string  `gorm:"index;not null"`
	ParticipantBRole string  `gorm:"not null"`
	LastMessageID    *string `gorm:"index"`
	UnreadCounts     datatypes.JSONMap `gorm:"type:jsonb;default:'{}'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	LastMessage *Message `gorm:"foreignKey:LastMessageID"`
}

func (Conversation) TableName() string {
	return "chat.conversations"
}

// PairKey computes the order-independent lookup key for two actors.
func PairKey(a, b models.ActorRef) string {
	ka, kb := a.Key(), b.Key()
	if kb < ka {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

func (c *Conversation) ParticipantA() models.ActorRef {
	return models.ActorRef{ID: c.ParticipantAID, Role: models.ActorRole(c.ParticipantARole)}
}

func (c *Conversation) ParticipantB() models.ActorRef {
	return models.ActorRef{ID: c.ParticipantBID, Role: models.ActorRole(c.ParticipantBRole)}
}

func (c *Conversation) HasParticipant(actor models.ActorRef) bool {
	return c.ParticipantA().Equal(actor) || c.ParticipantB().Equal(actor)
}

// OtherParticipant returns the participant that is not the given actor.
// ok is false when the actor is not part of the conversation.
func (c *Conversation) OtherParticipant(actor models.ActorRef) (models.ActorRef, bool) {
	switch {
	case c.ParticipantA().Equal(actor):
		return c.ParticipantB(), true
	case c.ParticipantB().Equal(actor):
		return c.ParticipantA(), true
	}
	return models.ActorRef{}, false
}

// UnreadFor reads the actor's counter from the jsonb map. Values arrive as
// json numbers (float64) from the store and as ints from in-memory fakes.
func (c *Conversation) UnreadFor(actor models.ActorRef) int64 {
	if c.UnreadCounts == nil {
		return 0
	}
	switch v := c.UnreadCounts[actor.Key()].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
