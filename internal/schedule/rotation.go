// Package schedule derives event-timer state from either the fixed 24-hour
// event rotation or API-supplied schedules. Everything here is pure: given
// the same "now" and schedule, the output is identical, so the UI can
// recompute on every tick without side effects.
package schedule

import (
	"github.com/trop3n/ARCompanion/internal/models"
)

const (
	// UnknownEventName fills in for slots the schedule does not cover.
	UnknownEventName = "Unknown Event"
	// UnknownMapName fills in for slots with no map.
	UnknownMapName = "Unknown Map"
)

// Slot maps one hour of the day (UTC) to a recurring event.
type Slot struct {
	Name string `json:"name"`
	Map  string `json:"map"`
	Hour int    `json:"hour"`
}

// DefaultRotation is the fixed in-game event rotation used whenever the API
// does not supply a schedule.
var DefaultRotation = []Slot{
	{Name: "Night Raid", Map: "Dam", Hour: 0},
	{Name: "Electromagnetic Storm", Map: "Buried City", Hour: 1},
	{Name: "Vortex Anomaly", Map: "Spaceport", Hour: 2},
	{Name: "Night Raid", Map: "Frozen Tundra", Hour: 3},
	{Name: "Sandstorm", Map: "Desert Outpost", Hour: 4},
	{Name: "Electromagnetic Storm", Map: "Dam", Hour: 5},
	{Name: "Vortex Anomaly", Map: "Buried City", Hour: 6},
	{Name: "Night Raid", Map: "Spaceport", Hour: 7},
	{Name: "Sandstorm", Map: "Frozen Tundra", Hour: 8},
	{Name: "Electromagnetic Storm", Map: "Desert Outpost", Hour: 9},
	{Name: "Vortex Anomaly", Map: "Dam", Hour: 10},
	{Name: "Night Raid", Map: "Buried City", Hour: 11},
	{Name: "Sandstorm", Map: "Spaceport", Hour: 12},
	{Name: "Electromagnetic Storm", Map: "Frozen Tundra", Hour: 13},
	{Name: "Vortex Anomaly", Map: "Desert Outpost", Hour: 14},
	{Name: "Night Raid", Map: "Dam", Hour: 15},
	{Name: "Sandstorm", Map: "Buried City", Hour: 16},
	{Name: "Electromagnetic Storm", Map: "Spaceport", Hour: 17},
	{Name: "Vortex Anomaly", Map: "Frozen Tundra", Hour: 18},
	{Name: "Night Raid", Map: "Desert Outpost", Hour: 19},
	{Name: "Sandstorm", Map: "Dam", Hour: 20},
	{Name: "Electromagnetic Storm", Map: "Buried City", Hour: 21},
	{Name: "Vortex Anomaly", Map: "Spaceport", Hour: 22},
	{Name: "Night Raid", Map: "Frozen Tundra", Hour: 23},
}

// Schedule is a normalized event schedule. Exactly one of the two forms is
// populated: Slots for a recurring 24-hour rotation, Explicit for events
// carrying absolute start/end instants.
type Schedule struct {
	Slots    []Slot
	Explicit []models.RawEvent
}

// IsExplicit reports whether the schedule carries absolute instants rather
// than a rotation.
func (s Schedule) IsExplicit() bool {
	return len(s.Explicit) > 0
}

// FromHourlySlots builds a rotation schedule, normalizing each slot hour to
// 0..23 and filling missing names and maps with Unknown placeholders.
func FromHourlySlots(slots []Slot) Schedule {
	normalized := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if slot.Name == "" {
			slot.Name = UnknownEventName
		}
		if slot.Map == "" {
			slot.Map = UnknownMapName
		}
		slot.Hour = normalizeHour(slot.Hour)
		normalized = append(normalized, slot)
	}
	return Schedule{Slots: normalized}
}

// FromAPIEvents normalizes an API-supplied schedule. Events that carry both
// start and end instants produce an explicit-instant schedule. Otherwise the
// list is interpreted as hour slots, taking the element index as the hour
// when the field is absent, a partial shape some upstream versions send. Nil
// or empty input falls back to the default rotation.
func FromAPIEvents(rawEvents []models.RawEvent) Schedule {
	if len(rawEvents) == 0 {
		return Schedule{Slots: DefaultRotation}
	}

	explicit := make([]models.RawEvent, 0, len(rawEvents))
	for _, raw := range rawEvents {
		if raw.StartTime != nil && raw.EndTime != nil {
			raw.Name = firstNonEmpty(raw.Name, raw.EventName, UnknownEventName)
			raw.Map = firstNonEmpty(raw.Map, raw.Location, UnknownMapName)
			explicit = append(explicit, raw)
		}
	}
	if len(explicit) > 0 {
		return Schedule{Explicit: explicit}
	}

	slots := make([]Slot, 0, len(rawEvents))
	for i, raw := range rawEvents {
		hour := i
		if raw.Hour != nil {
			hour = *raw.Hour
		}
		slots = append(slots, Slot{
			Name: firstNonEmpty(raw.Name, raw.EventName, UnknownEventName),
			Map:  firstNonEmpty(raw.Map, raw.Location, UnknownMapName),
			Hour: normalizeHour(hour),
		})
	}
	return Schedule{Slots: slots}
}

// EventForHour returns the slot covering hour (mod 24). The rotation must
// cover every hour of any day, so a gap yields an Unknown placeholder rather
// than a failure.
func EventForHour(hour int, slots []Slot) Slot {
	utcHour := normalizeHour(hour)
	for _, slot := range slots {
		if slot.Hour == utcHour {
			return slot
		}
	}
	return Slot{Name: UnknownEventName, Map: UnknownMapName, Hour: utcHour}
}

func normalizeHour(hour int) int {
	return ((hour % 24) + 24) % 24
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
