package models

import (
	"encoding/json"
	"time"
)

// Source identifies which upstream API produced a cached payload.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// CacheRecord is one persisted resource payload. One record exists per
// resource key, overwritten on every successful fetch.
type CacheRecord struct {
	Key         string          `json:"key"`
	Data        json.RawMessage `json:"data"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Source      Source          `json:"source"`
}

// Settings is the pass-through key-value blob owned by the UI.
type Settings struct {
	Theme           string `json:"theme"`
	AutoRefresh     bool   `json:"autoRefresh"`
	RefreshInterval int    `json:"refreshInterval"`
	Notifications   bool   `json:"notifications"`
}

// DefaultSettings returns the settings served before the UI has saved any.
func DefaultSettings() Settings {
	return Settings{
		Theme:           "dark",
		AutoRefresh:     true,
		RefreshInterval: 12,
		Notifications:   true,
	}
}

// RawEvent is an event definition as delivered by an upstream API. Depending
// on the API version it carries either absolute start/end instants or an
// hour-of-day slot for the recurring rotation.
type RawEvent struct {
	Name      string     `json:"name"`
	EventName string     `json:"eventName,omitempty"`
	Map       string     `json:"map"`
	Location  string     `json:"location,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	Hour      *int       `json:"hour,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// ProcessedEvent is the derived per-tick view of one event instance. It is
// recomputed from RawEvent plus "now" and never persisted.
type ProcessedEvent struct {
	Name                   string    `json:"name"`
	Map                    string    `json:"map"`
	Icon                   string    `json:"icon,omitempty"`
	StartTime              time.Time `json:"startTime"`
	EndTime                time.Time `json:"endTime"`
	StartTimeFormatted     string    `json:"startTimeFormatted"`
	EndTimeFormatted       string    `json:"endTimeFormatted"`
	TimeUntilStart         int64     `json:"timeUntilStart"`
	TimeUntilEnd           int64     `json:"timeUntilEnd"`
	TimeRemainingFormatted string    `json:"timeRemainingFormatted"`
	IsActive               bool      `json:"isActive"`
	IsPast                 bool      `json:"isPast"`
	IsUpcoming             bool      `json:"isUpcoming"`
}

// HealthCheck is the response payload for the health endpoint.
type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
