package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trop3n/ARCompanion/internal/cache"
	"github.com/trop3n/ARCompanion/internal/fetch"
	"github.com/trop3n/ARCompanion/internal/models"
	"github.com/trop3n/ARCompanion/internal/testutils"
)

func newTestRouter(t *testing.T, primaryURL, fallbackURL string, store cache.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutils.MockConfig(primaryURL, fallbackURL)
	logger := testutils.MockLogger()
	fetchService := fetch.NewService(cfg, logger, store, nil)

	handlers := NewHandlers(HandlerConfig{
		Logger:       logger,
		FetchService: fetchService,
		Store:        store,
	})
	return handlers.SetupRoutes()
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	var request *http.Request
	if body != "" {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
	} else {
		request = httptest.NewRequest(method, path, nil)
	}
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0", "", cache.NewMemoryStore())

	recorder := doRequest(router, http.MethodGet, "/health", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var health models.HealthCheck
	if err := json.Unmarshal(recorder.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", health.Status)
	}
}

func TestResourceRoute_ServedFromCache(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := store.Set(models.CacheRecord{
		Key:         "items",
		Data:        []byte(`[{"id":1}]`),
		LastUpdated: time.Now(),
		Source:      models.SourcePrimary,
	}); err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(t, "http://127.0.0.1:0", "", store)

	recorder := doRequest(router, http.MethodGet, "/api/v1/items", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if recorder.Body.String() != `[{"id":1}]` {
		t.Errorf("body = %s, want cached payload", recorder.Body.String())
	}
}

func TestResourceRoute_FailureIsNonFatal(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:0", "", cache.NewMemoryStore())

	recorder := doRequest(router, http.MethodGet, "/api/v1/quests", "")
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", recorder.Code)
	}

	var errorResponse models.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &errorResponse); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errorResponse.Error, "quests") {
		t.Errorf("error does not name the resource: %+v", errorResponse)
	}

	// Other routes keep working
	if health := doRequest(router, http.MethodGet, "/health", ""); health.Code != http.StatusOK {
		t.Errorf("health status = %d after resource failure, want 200", health.Code)
	}
}

func TestGetEventTimers_FallsBackToRotation(t *testing.T) {
	// No events payload available: timers still come back, computed from the
	// default rotation.
	router := newTestRouter(t, "http://127.0.0.1:0", "", cache.NewMemoryStore())

	recorder := doRequest(router, http.MethodGet, "/api/v1/events/timers", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var timers EventTimersResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &timers); err != nil {
		t.Fatal(err)
	}
	if len(timers.ActiveEvents) != 1 {
		t.Errorf("ActiveEvents = %d, want 1 in rotation mode", len(timers.ActiveEvents))
	}
	if len(timers.UpcomingEvents) == 0 {
		t.Error("UpcomingEvents is empty")
	}
	if len(timers.Events) != 24 {
		t.Errorf("Events = %d, want 24", len(timers.Events))
	}
}

func TestGetEventTimers_UsesCachedSchedule(t *testing.T) {
	hour := 0
	raw := []models.RawEvent{{Name: "Harvester", Map: "Dam", Hour: &hour}}
	payload, _ := json.Marshal(raw)

	store := cache.NewMemoryStore()
	if err := store.Set(models.CacheRecord{
		Key:         "events",
		Data:        payload,
		LastUpdated: time.Now(),
		Source:      models.SourcePrimary,
	}); err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(t, "http://127.0.0.1:0", "", store)

	recorder := doRequest(router, http.MethodGet, "/api/v1/events/timers?count=3", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var timers EventTimersResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &timers); err != nil {
		t.Fatal(err)
	}
	if len(timers.UpcomingEvents) != 3 {
		t.Errorf("UpcomingEvents = %d, want count=3 honored", len(timers.UpcomingEvents))
	}
}

func TestSettings_RoundtripOverHTTP(t *testing.T) {
	store := cache.NewMemoryStore()
	router := newTestRouter(t, "http://127.0.0.1:0", "", store)

	recorder := doRequest(router, http.MethodGet, "/api/v1/settings", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", recorder.Code)
	}
	var settings models.Settings
	if err := json.Unmarshal(recorder.Body.Bytes(), &settings); err != nil {
		t.Fatal(err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("initial settings = %+v, want defaults", settings)
	}

	put := doRequest(router, http.MethodPut, "/api/v1/settings",
		`{"theme":"light","autoRefresh":false,"refreshInterval":4,"notifications":true}`)
	if put.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", put.Code)
	}

	saved, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if saved.Theme != "light" || saved.RefreshInterval != 4 {
		t.Errorf("saved settings = %+v", saved)
	}
}

func TestClearCache(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := store.Set(models.CacheRecord{Key: "items", Data: []byte(`[]`), LastUpdated: time.Now()}); err != nil {
		t.Fatal(err)
	}

	router := newTestRouter(t, "http://127.0.0.1:0", "", store)

	recorder := doRequest(router, http.MethodDelete, "/api/v1/cache", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if _, found, _ := store.Get("items"); found {
		t.Error("record survived cache clear")
	}
}
