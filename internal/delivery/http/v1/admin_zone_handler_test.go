package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"

	"github.com/goccy/go-json"
)

// fakeZoneStore is an in-memory domain.ZoneStore for handler tests.
type fakeZoneStore struct {
	fakeReader
	nextID int32
}

func (f *fakeZoneStore) ListZones(ctx context.Context) ([]domain.DeliveryZone, error) {
	return f.zones, nil
}

func (f *fakeZoneStore) GetZoneByID(ctx context.Context, id int32) (*domain.DeliveryZone, error) {
	for i := range f.zones {
		if f.zones[i].ID == id {
			return &f.zones[i], nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (f *fakeZoneStore) CreateZone(ctx context.Context, name string, geojson domain.RawJSON) (*domain.DeliveryZone, error) {
	f.nextID++
	zone := domain.DeliveryZone{ID: f.nextID, Name: name, GeoJSON: geojson}
	f.zones = append(f.zones, zone)
	return &zone, nil
}

func (f *fakeZoneStore) UpdateZone(ctx context.Context, id int32, name string, geojson domain.RawJSON) (*domain.DeliveryZone, error) {
	for i := range f.zones {
		if f.zones[i].ID == id {
			f.zones[i].Name = name
			f.zones[i].GeoJSON = geojson
			return &f.zones[i], nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (f *fakeZoneStore) DeleteZone(ctx context.Context, id int32) error {
	for i := range f.zones {
		if f.zones[i].ID == id {
			f.zones = append(f.zones[:i], f.zones[i+1:]...)
			return nil
		}
	}
	return domain.ErrZoneNotFound
}

func (f *fakeZoneStore) AddFreeDate(ctx context.Context, zoneID int32, date domain.Date) error {
	if f.freeDates == nil {
		f.freeDates = make(map[int32][]domain.Date)
	}
	f.freeDates[zoneID] = append(f.freeDates[zoneID], date)
	return nil
}

func (f *fakeZoneStore) RemoveFreeDate(ctx context.Context, zoneID int32, date domain.Date) error {
	dates := f.freeDates[zoneID]
	for i, d := range dates {
		if d == date {
			f.freeDates[zoneID] = append(dates[:i], dates[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeZoneStore) ListFreeDatesThrough(ctx context.Context, from, through domain.Date) ([]domain.ZoneFreeDate, error) {
	var out []domain.ZoneFreeDate
	for zoneID, dates := range f.freeDates {
		for _, d := range dates {
			if !d.Before(from) && !through.Before(d) {
				out = append(out, domain.ZoneFreeDate{ZoneID: zoneID, Date: d})
			}
		}
	}
	return out, nil
}

func (f *fakeZoneStore) DeleteFreeDatesBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	return 0, nil
}

type spyInvalidator struct {
	calls int
}

func (s *spyInvalidator) Invalidate() {
	s.calls++
}

func TestAdminCreateZone(t *testing.T) {
	store := &fakeZoneStore{}
	index := &spyInvalidator{}
	h := NewAdminZoneHandler(store, index)

	body := `{"name":"Green Valley","geojson":{"type":"Polygon","coordinates":[[[77.50,12.90],[77.55,12.90],[77.55,12.95],[77.50,12.95],[77.50,12.90]]]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/zones", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateZone(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	if index.calls != 1 {
		t.Fatalf("invalidations = %d, want 1", index.calls)
	}

	var zone domain.DeliveryZone
	if err := json.Unmarshal(rr.Body.Bytes(), &zone); err != nil {
		t.Fatal(err)
	}
	if zone.ID == 0 || zone.Name != "Green Valley" {
		t.Fatalf("zone = %+v", zone)
	}
}

func TestAdminCreateZone_Validation(t *testing.T) {
	h := NewAdminZoneHandler(&fakeZoneStore{}, &spyInvalidator{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/zones", strings.NewReader(`{"name":""}`))
	rr := httptest.NewRecorder()
	h.CreateZone(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAdminGetZone_NotFound(t *testing.T) {
	h := NewAdminZoneHandler(&fakeZoneStore{}, &spyInvalidator{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/zones/99", nil)
	req.SetPathValue("id", "99")
	rr := httptest.NewRecorder()
	h.GetZone(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAdminAddFreeDate(t *testing.T) {
	store := &fakeZoneStore{fakeReader: fakeReader{zones: []domain.DeliveryZone{{ID: 1, Name: "Green Valley"}}}}
	index := &spyInvalidator{}
	h := NewAdminZoneHandler(store, index)

	date := domain.DateOf(time.Now()).AddDays(3)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/zones/1/free-dates", strings.NewReader(`{"date":"`+date.String()+`"}`))
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.AddFreeDate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	if len(store.freeDates[1]) != 1 {
		t.Fatalf("freeDates = %v", store.freeDates)
	}
	if index.calls != 1 {
		t.Fatalf("invalidations = %d, want 1", index.calls)
	}
}

func TestAdminAddFreeDate_RejectsPast(t *testing.T) {
	store := &fakeZoneStore{fakeReader: fakeReader{zones: []domain.DeliveryZone{{ID: 1, Name: "Green Valley"}}}}
	h := NewAdminZoneHandler(store, &spyInvalidator{})

	date := domain.DateOf(time.Now()).AddDays(-1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/zones/1/free-dates", strings.NewReader(`{"date":"`+date.String()+`"}`))
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.AddFreeDate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestAdminRemoveFreeDate(t *testing.T) {
	date := domain.DateOf(time.Now()).AddDays(3)
	store := &fakeZoneStore{fakeReader: fakeReader{
		zones:     []domain.DeliveryZone{{ID: 1, Name: "Green Valley"}},
		freeDates: map[int32][]domain.Date{1: {date}},
	}}
	index := &spyInvalidator{}
	h := NewAdminZoneHandler(store, index)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/zones/1/free-dates/"+date.String(), nil)
	req.SetPathValue("id", "1")
	req.SetPathValue("date", date.String())
	rr := httptest.NewRecorder()
	h.RemoveFreeDate(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	if len(store.freeDates[1]) != 0 {
		t.Fatalf("freeDates = %v, want empty", store.freeDates)
	}
	if index.calls != 1 {
		t.Fatalf("invalidations = %d, want 1", index.calls)
	}
}

func TestAdminUpcomingFreeDates_Validation(t *testing.T) {
	h := NewAdminZoneHandler(&fakeZoneStore{}, &spyInvalidator{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/zones/free-dates/upcoming?days=0", nil)
	rr := httptest.NewRecorder()
	h.UpcomingFreeDates(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
