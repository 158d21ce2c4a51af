package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/trop3n/ARCompanion/internal/models"
)

const (
	// DefaultUpcomingRotation is how many upcoming events a rotation
	// schedule surfaces by default.
	DefaultUpcomingRotation = 6
	// DefaultUpcomingExplicit is the explicit-instant equivalent.
	DefaultUpcomingExplicit = 12
)

// FormatTimeRemaining renders a countdown duration, dropping leading zero
// units. Negative durations render as "Expired".
func FormatTimeRemaining(d time.Duration) string {
	if d < 0 {
		return "Expired"
	}
	totalSeconds := int64(d / time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Compute derives the still-relevant events for now. Rotation schedules
// generate the next 24 hourly instances starting at the top of the current
// hour, which bounds the window to one day ahead. Explicit schedules are
// taken as-is. Past instances are dropped and the rest sorted by start time.
func Compute(now time.Time, s Schedule) []models.ProcessedEvent {
	var events []models.ProcessedEvent
	if s.IsExplicit() {
		events = computeExplicit(now, s.Explicit)
	} else {
		events = computeRotation(now, s.Slots)
	}

	kept := events[:0]
	for _, event := range events {
		if !event.IsPast {
			kept = append(kept, event)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartTime.Before(kept[j].StartTime)
	})
	return kept
}

// ActiveEvents returns every currently running event. A rotation yields at
// most one; explicit-instant schedules may overlap.
func ActiveEvents(now time.Time, s Schedule) []models.ProcessedEvent {
	var active []models.ProcessedEvent
	for _, event := range Compute(now, s) {
		if event.IsActive {
			active = append(active, event)
		}
	}
	return active
}

// ActiveEvent returns the earliest-started active event, or nil when nothing
// is running.
func ActiveEvent(now time.Time, s Schedule) *models.ProcessedEvent {
	active := ActiveEvents(now, s)
	if len(active) == 0 {
		return nil
	}
	return &active[0]
}

// UpcomingEvents returns the first count upcoming events in start order. A
// non-positive count selects the mode default.
func UpcomingEvents(now time.Time, s Schedule, count int) []models.ProcessedEvent {
	if count <= 0 {
		if s.IsExplicit() {
			count = DefaultUpcomingExplicit
		} else {
			count = DefaultUpcomingRotation
		}
	}

	var upcoming []models.ProcessedEvent
	for _, event := range Compute(now, s) {
		if !event.IsUpcoming {
			continue
		}
		upcoming = append(upcoming, event)
		if len(upcoming) == count {
			break
		}
	}
	return upcoming
}

// computeRotation synthesizes one instance per hour for the next 24 hours.
// Slot hours are hours of the UTC day.
func computeRotation(now time.Time, slots []Slot) []models.ProcessedEvent {
	if len(slots) == 0 {
		slots = DefaultRotation
	}
	currentHour := now.UTC().Truncate(time.Hour)

	events := make([]models.ProcessedEvent, 0, 24)
	for i := 0; i < 24; i++ {
		start := currentHour.Add(time.Duration(i) * time.Hour)
		slot := EventForHour(start.Hour(), slots)
		events = append(events, processEvent(now, slot.Name, slot.Map, "", start, start.Add(time.Hour)))
	}
	return events
}

func computeExplicit(now time.Time, rawEvents []models.RawEvent) []models.ProcessedEvent {
	events := make([]models.ProcessedEvent, 0, len(rawEvents))
	for _, raw := range rawEvents {
		if raw.StartTime == nil || raw.EndTime == nil {
			continue
		}
		events = append(events, processEvent(now, raw.Name, raw.Map, raw.Icon, *raw.StartTime, *raw.EndTime))
	}
	return events
}

// processEvent evaluates one event instance against now. Exactly one of
// IsActive, IsPast, IsUpcoming holds: active iff start <= now < end.
func processEvent(now time.Time, name, mapName, icon string, start, end time.Time) models.ProcessedEvent {
	untilStart := start.Sub(now)
	untilEnd := end.Sub(now)

	isActive := untilStart <= 0 && untilEnd > 0
	isPast := untilEnd <= 0

	countdown := untilStart
	if isActive {
		countdown = untilEnd
	}

	return models.ProcessedEvent{
		Name:                   name,
		Map:                    mapName,
		Icon:                   icon,
		StartTime:              start,
		EndTime:                end,
		StartTimeFormatted:     start.UTC().Format("15:04"),
		EndTimeFormatted:       end.UTC().Format("15:04"),
		TimeUntilStart:         clampMillis(untilStart),
		TimeUntilEnd:           clampMillis(untilEnd),
		TimeRemainingFormatted: FormatTimeRemaining(countdown),
		IsActive:               isActive,
		IsPast:                 isPast,
		IsUpcoming:             !isActive && !isPast,
	}
}

func clampMillis(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
