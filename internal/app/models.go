package app

import (
	"time"

	"preneed-scheduler/internal/schedule"
)

// Appointment is a stored or external-calendar booking. Timestamps are UTC.
// Derived display fields are recomputed per response, never persisted.
type Appointment struct {
	ID         string    `json:"id"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	Status     string    `json:"status"`
	FamilyName string    `json:"familyName"`
	Location   string    `json:"location,omitempty"`
	LeadID     string    `json:"leadId,omitempty"`
	IsExternal bool      `json:"isExternal"`
	Provider   string    `json:"provider,omitempty"`

	schedule.Derived
}

// AvailabilitySettings is the agent's whole availability document. Saves
// always round-trip the complete structure: there is no partial-day update,
// so persisting anything less would clobber the other locations.
type AvailabilitySettings struct {
	Locations                  []string              `json:"locations"`
	AvailabilityByLocation     schedule.ByLocation   `json:"availabilityByLocation"`
	AppointmentLength          int                   `json:"appointmentLength"`
	VideoSchedule              schedule.WeekSchedule `json:"videoSchedule,omitempty"`
	AvailabilityTypeByLocation map[string]string     `json:"availabilityTypeByLocation"`
	Timezone                   string                `json:"timezone,omitempty"`
}

// DefaultSettings seeds an agent with no stored document.
func DefaultSettings() *AvailabilitySettings {
	return &AvailabilitySettings{
		Locations:                  []string{},
		AvailabilityByLocation:     schedule.ByLocation{},
		AppointmentLength:          30,
		AvailabilityTypeByLocation: map[string]string{},
	}
}

// WeekFor picks the schedule used to generate slots for a location, "video"
// selecting the video week. Locations with no stored week fall back to the
// default seed schedule.
func (s *AvailabilitySettings) WeekFor(location string) schedule.WeekSchedule {
	if location == "video" {
		if s.VideoSchedule != nil {
			return s.VideoSchedule
		}
		return schedule.DefaultWeek()
	}
	if week, ok := s.AvailabilityByLocation[schedule.NormalizeLocation(location)]; ok {
		return week
	}
	return schedule.DefaultWeek()
}

// Event is an agent-created calendar entry.
type Event struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agentId"`
	Title       string    `json:"title"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	LeadID      string    `json:"leadId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
