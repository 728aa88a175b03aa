package profile

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventUpserted          EventType = "profile.upserted"
	EventDeleted           EventType = "profile.deleted"
	EventExperienceAdded   EventType = "experience.added"
	EventExperienceRemoved EventType = "experience.removed"
	EventEducationAdded    EventType = "education.added"
	EventEducationRemoved  EventType = "education.removed"
)

// Event announces that the profile of UserID changed.
type Event struct {
	Type       EventType `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
