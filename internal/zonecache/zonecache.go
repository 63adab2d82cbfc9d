package zonecache

import (
	"context"
	"fmt"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/geo"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/cache"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/logger"
)

const snapshotKey = "zones:snapshot"

// Store is the slice of the zone store the cached reader needs.
type Store interface {
	domain.ZoneReader
	ListZones(ctx context.Context) ([]domain.DeliveryZone, error)
}

// indexedZone pairs a zone with its precomputed bounding box so the
// snapshot answers most misses without a ray cast.
type indexedZone struct {
	zone domain.DeliveryZone
	bbox geo.BBox
}

// CachedZoneStore answers containment queries from an in-memory polygon
// snapshot refreshed periodically from the backing store, so checkout
// traffic does not hit PostGIS on every request. Free-date lookups are
// cached briefly per zone. The snapshot is zone-CRUD-independent: admin
// writes call Invalidate, and an expired snapshot reloads on demand.
type CachedZoneStore struct {
	inner       Store
	cache       cache.CacheService
	snapshotTTL time.Duration
	freeDateTTL time.Duration
}

// New wraps the backing store with the in-memory index. The cache
// instance must be dedicated to this store; Invalidate flushes it.
func New(inner Store, c cache.CacheService, snapshotTTL, freeDateTTL time.Duration) *CachedZoneStore {
	return &CachedZoneStore{
		inner:       inner,
		cache:       c,
		snapshotTTL: snapshotTTL,
		freeDateTTL: freeDateTTL,
	}
}

// FindZoneContaining ray-casts against the cached snapshot in zone id
// order, matching the backing store's overlap resolution. If the
// snapshot cannot be loaded the query falls through to the store's own
// spatial index.
func (s *CachedZoneStore) FindZoneContaining(ctx context.Context, lon, lat float64) (*domain.DeliveryZone, error) {
	zones, err := s.snapshot(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("zone snapshot unavailable, falling back to store lookup")
		return s.inner.FindZoneContaining(ctx, lon, lat)
	}

	pt := geo.Point{Lon: lon, Lat: lat}
	for _, entry := range zones {
		if !entry.bbox.Contains(pt) {
			continue
		}
		if geo.PointInRing(pt, entry.zone.Boundary) {
			zone := entry.zone
			return &zone, nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (s *CachedZoneStore) UpcomingFreeDates(ctx context.Context, zoneID int32, onOrAfter domain.Date) ([]domain.Date, error) {
	key := fmt.Sprintf("zones:freedates:%d:%s", zoneID, onOrAfter)
	if val, found := s.cache.Get(key); found {
		return val.([]domain.Date), nil
	}

	dates, err := s.inner.UpcomingFreeDates(ctx, zoneID, onOrAfter)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, dates, s.freeDateTTL)
	return dates, nil
}

// Invalidate drops the snapshot and all cached free dates. Admin
// handlers call this after every zone or free-date write.
func (s *CachedZoneStore) Invalidate() {
	s.cache.Flush()
}

func (s *CachedZoneStore) snapshot(ctx context.Context) ([]indexedZone, error) {
	if val, found := s.cache.Get(snapshotKey); found {
		return val.([]indexedZone), nil
	}

	zones, err := s.inner.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh zone snapshot: %w", err)
	}

	indexed := make([]indexedZone, len(zones))
	for i, z := range zones {
		indexed[i] = indexedZone{zone: z, bbox: geo.RingBBox(z.Boundary)}
	}
	s.cache.Set(snapshotKey, indexed, s.snapshotTTL)
	return indexed, nil
}
