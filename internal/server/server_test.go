package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fkoidl/heimdeck/internal/coffee"
	"github.com/fkoidl/heimdeck/internal/domain"
	"github.com/fkoidl/heimdeck/internal/feed"
	"github.com/fkoidl/heimdeck/internal/rugby"
	"github.com/fkoidl/heimdeck/internal/todo"
	"github.com/fkoidl/heimdeck/internal/weather"
	"github.com/fkoidl/heimdeck/pkg/httpclient"
)

type stubResponse struct {
	code int
	body []byte
}

func (r stubResponse) StatusCode() int { return r.code }
func (r stubResponse) Body() []byte    { return r.body }

// failingClient makes every outbound call fail so feed handlers exercise
// the degradation path deterministically.
type failingClient struct{}

func (failingClient) Get(context.Context, string, map[string]string) (httpclient.Response, error) {
	return stubResponse{code: 502}, nil
}

func (failingClient) Put(context.Context, string, map[string]string, any) (httpclient.Response, error) {
	return stubResponse{code: 502}, nil
}

func testServer() *Server {
	client := failingClient{}
	pipeline := feed.NewPipeline(feed.NewResolver(client, nil), nil)
	return New(
		pipeline,
		feed.DefaultCatalog(),
		weather.NewService(client, nil, 0, 0),
		rugby.NewCalendar(client, nil, "", ""),
		todo.NewStore(),
		coffee.NewStore(),
		coffee.NewSyncer(client, nil, "", ""),
		nil,
		nil,
	)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, testServer(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestFeedGroupDegradesToSyntheticRecords(t *testing.T) {
	rec := doJSON(t, testServer(), http.MethodGet, "/api/news?count=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var records []domain.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("no records served")
	}
	for _, r := range records {
		if !r.Synthetic() {
			t.Errorf("expected synthetic record, got %+v", r)
		}
	}
}

func TestRugbyCalendarServesGeneratedFixtures(t *testing.T) {
	rec := doJSON(t, testServer(), http.MethodGet, "/api/rugby/calendar", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var fixtures []rugby.Fixture
	if err := json.Unmarshal(rec.Body.Bytes(), &fixtures); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("no fixtures served")
	}
}

func TestWeatherFailureReturnsBadGateway(t *testing.T) {
	rec := doJSON(t, testServer(), http.MethodGet, "/api/weather/current", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestTodoLifecycle(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodPost, "/api/todos", `{"title":"write tests"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created todo.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID != 1 {
		t.Errorf("id = %d", created.ID)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/todos", `{"description":"no title"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("titleless create status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/todos/1", `{"title":"write more tests"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/todos/1/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	var toggled todo.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatal(err)
	}
	if !toggled.IsCompleted {
		t.Error("toggle did not complete the item")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/todos/stats", "")
	var stats todo.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.Completed != 1 {
		t.Errorf("stats = %+v", stats)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/todos/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/todos/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/todos/abc", `{"title":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d", rec.Code)
	}
}

func TestCoffeeValidationSurfacesAsBadRequest(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodPost, "/api/coffee",
		`{"bean_name":"House","temperature":93,"volume":36,"grind_setting":14,"brew_seconds":28,"rating":4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/coffee",
		`{"bean_name":"House","temperature":180,"volume":36,"grind_setting":14,"rating":4}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range create status = %d", rec.Code)
	}
}

func TestCoffeeSyncDisabledReportsFailure(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodPost, "/api/coffee/sync/save", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sync save status = %d", rec.Code)
	}
	var result map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result["success"] {
		t.Error("disabled sync reported success")
	}
}

func TestCountParamClamped(t *testing.T) {
	rec := doJSON(t, testServer(), http.MethodGet, "/api/gamedev?count=9999", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var records []domain.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) > maxFeedCount {
		t.Errorf("served %d records, cap is %d", len(records), maxFeedCount)
	}
}
