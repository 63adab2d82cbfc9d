package zonecache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/geo"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production", "error")
	os.Exit(m.Run())
}

// mapCache is a CacheService over a bare map, ignoring TTLs.
type mapCache struct {
	items map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]interface{})}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, _ time.Duration) {
	c.items[key] = value
}

func (c *mapCache) Delete(key string) {
	delete(c.items, key)
}

func (c *mapCache) Flush() {
	c.items = make(map[string]interface{})
}

type countingStore struct {
	zones []domain.DeliveryZone
	dates []domain.Date

	listErr   error
	listCalls int
	findCalls int
	dateCalls int
}

func (s *countingStore) ListZones(ctx context.Context) ([]domain.DeliveryZone, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.zones, nil
}

func (s *countingStore) FindZoneContaining(ctx context.Context, lon, lat float64) (*domain.DeliveryZone, error) {
	s.findCalls++
	pt := geo.Point{Lon: lon, Lat: lat}
	for i := range s.zones {
		if geo.PointInRing(pt, s.zones[i].Boundary) {
			return &s.zones[i], nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (s *countingStore) UpcomingFreeDates(ctx context.Context, zoneID int32, onOrAfter domain.Date) ([]domain.Date, error) {
	s.dateCalls++
	return s.dates, nil
}

func squareZone(id int32, name string) domain.DeliveryZone {
	return domain.DeliveryZone{
		ID:   id,
		Name: name,
		Boundary: []geo.Point{
			{Lon: 10, Lat: 10},
			{Lon: 20, Lat: 10},
			{Lon: 20, Lat: 20},
			{Lon: 10, Lat: 20},
			{Lon: 10, Lat: 10},
		},
	}
}

func TestCachedStore_ContainmentFromSnapshot(t *testing.T) {
	store := &countingStore{zones: []domain.DeliveryZone{squareZone(1, "North")}}
	cached := New(store, newMapCache(), time.Minute, time.Minute)

	zone, err := cached.FindZoneContaining(context.Background(), 15, 15)
	if err != nil {
		t.Fatal(err)
	}
	if zone.Name != "North" {
		t.Fatalf("zone = %+v, want North", zone)
	}

	// Second query answers from the snapshot: one ListZones, zero
	// store-side containment calls.
	if _, err := cached.FindZoneContaining(context.Background(), 11, 19); err != nil {
		t.Fatal(err)
	}
	if store.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", store.listCalls)
	}
	if store.findCalls != 0 {
		t.Fatalf("findCalls = %d, want 0", store.findCalls)
	}

	if _, err := cached.FindZoneContaining(context.Background(), 50, 50); !errors.Is(err, domain.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound outside all zones, got %v", err)
	}
}

func TestCachedStore_FallsBackWhenSnapshotUnavailable(t *testing.T) {
	store := &countingStore{
		zones:   []domain.DeliveryZone{squareZone(1, "North")},
		listErr: errors.New("db down"),
	}
	cached := New(store, newMapCache(), time.Minute, time.Minute)

	zone, err := cached.FindZoneContaining(context.Background(), 15, 15)
	if err != nil {
		t.Fatal(err)
	}
	if zone.Name != "North" {
		t.Fatalf("zone = %+v, want North via store fallback", zone)
	}
	if store.findCalls != 1 {
		t.Fatalf("findCalls = %d, want 1", store.findCalls)
	}
}

func TestCachedStore_FreeDatesCached(t *testing.T) {
	today := domain.DateOf(time.Now())
	store := &countingStore{dates: []domain.Date{today.AddDays(1)}}
	cached := New(store, newMapCache(), time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		dates, err := cached.UpcomingFreeDates(context.Background(), 1, today)
		if err != nil {
			t.Fatal(err)
		}
		if len(dates) != 1 {
			t.Fatalf("dates = %v, want one", dates)
		}
	}
	if store.dateCalls != 1 {
		t.Fatalf("dateCalls = %d, want 1", store.dateCalls)
	}
}

func TestCachedStore_InvalidateDropsSnapshot(t *testing.T) {
	store := &countingStore{zones: []domain.DeliveryZone{squareZone(1, "North")}}
	cached := New(store, newMapCache(), time.Minute, time.Minute)

	if _, err := cached.FindZoneContaining(context.Background(), 15, 15); err != nil {
		t.Fatal(err)
	}

	// Simulate an admin edit: the old zone is replaced.
	store.zones = []domain.DeliveryZone{squareZone(2, "South")}
	cached.Invalidate()

	zone, err := cached.FindZoneContaining(context.Background(), 15, 15)
	if err != nil {
		t.Fatal(err)
	}
	if zone.Name != "South" {
		t.Fatalf("zone = %+v, want South after invalidation", zone)
	}
	if store.listCalls != 2 {
		t.Fatalf("listCalls = %d, want 2", store.listCalls)
	}
}
