package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/repository"
)

type fakeRouteFinder struct {
	routes  []repository.RouteDetail
	lastSrc uint64
	lastDst uint64
}

func (f *fakeRouteFinder) FindAvailable(_ context.Context, sourceID, destinationID uint64) ([]repository.RouteDetail, error) {
	f.lastSrc, f.lastDst = sourceID, destinationID
	return f.routes, nil
}

func searchRequest(t *testing.T, h *AvailabilityHandler, query string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/availability/"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.Search(c); err != nil {
		t.Fatalf("Search: %v", err)
	}
	return rec
}

func TestAvailabilityRequiresBothStations(t *testing.T) {
	h := NewAvailabilityHandler(&fakeRouteFinder{})

	for _, query := range []string{"", "?source=1", "?destination=2"} {
		rec := searchRequest(t, h, query)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Both source and destination are required") {
			t.Errorf("query %q: body = %q", query, rec.Body.String())
		}
	}
}

func TestAvailabilityRejectsNonNumericStations(t *testing.T) {
	h := NewAvailabilityHandler(&fakeRouteFinder{})

	rec := searchRequest(t, h, "?source=NDLS&destination=2")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAvailabilityReturnsRoutes(t *testing.T) {
	finder := &fakeRouteFinder{routes: []repository.RouteDetail{
		{ID: 5, TrainName: "Rajdhani Express", SourceName: "New Delhi", DestinationName: "Mumbai Central", AvailableSeats: 12},
	}}
	h := NewAvailabilityHandler(finder)

	rec := searchRequest(t, h, "?source=1&destination=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if finder.lastSrc != 1 || finder.lastDst != 2 {
		t.Fatalf("queried (%d, %d), want (1, 2)", finder.lastSrc, finder.lastDst)
	}

	var got []repository.RouteDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].TrainName != "Rajdhani Express" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestAvailabilityEmptyResultIsArray(t *testing.T) {
	h := NewAvailabilityHandler(&fakeRouteFinder{routes: []repository.RouteDetail{}})

	rec := searchRequest(t, h, "?source=1&destination=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("body = %q, want []", rec.Body.String())
	}
}
