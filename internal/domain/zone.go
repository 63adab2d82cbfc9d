package domain

import (
	"context"
	"errors"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/geo"
)

// ErrZoneNotFound is returned by zone lookups when no zone matches.
var ErrZoneNotFound = errors.New("delivery zone not found")

// DeliveryZone is a named polygonal delivery area. Boundary is the
// exterior ring of the polygon as a closed sequence of (lon, lat)
// vertices; zones have no holes. Names are unique across all zones.
type DeliveryZone struct {
	ID        int32       `json:"id"`
	Name      string      `json:"name"`
	Boundary  []geo.Point `json:"boundary"`
	GeoJSON   RawJSON     `json:"geojson,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// FreeDeliveryDate marks a calendar date on which delivery to a zone is
// free. (ZoneID, Date) pairs are unique; dates are deleted with the zone.
type FreeDeliveryDate struct {
	ZoneID int32 `json:"zoneId"`
	Date   Date  `json:"date"`
}

// ZoneReader is the read surface the shipping resolver depends on.
// FindZoneContaining takes PostGIS/GeoJSON (lon, lat) vertex order and
// returns ErrZoneNotFound when the point falls outside every zone. When
// zones overlap the first match in id order wins.
type ZoneReader interface {
	FindZoneContaining(ctx context.Context, lon, lat float64) (*DeliveryZone, error)
	UpcomingFreeDates(ctx context.Context, zoneID int32, onOrAfter Date) ([]Date, error)
}

// ZoneStore adds the admin CRUD surface on top of ZoneReader. The
// resolver itself never writes; these methods back the admin handlers
// and the cleanup job.
type ZoneStore interface {
	ZoneReader

	ListZones(ctx context.Context) ([]DeliveryZone, error)
	GetZoneByID(ctx context.Context, id int32) (*DeliveryZone, error)
	CreateZone(ctx context.Context, name string, geojson RawJSON) (*DeliveryZone, error)
	UpdateZone(ctx context.Context, id int32, name string, geojson RawJSON) (*DeliveryZone, error)
	DeleteZone(ctx context.Context, id int32) error

	AddFreeDate(ctx context.Context, zoneID int32, date Date) error
	RemoveFreeDate(ctx context.Context, zoneID int32, date Date) error
	ListFreeDatesThrough(ctx context.Context, from, through Date) ([]ZoneFreeDate, error)
	DeleteFreeDatesBefore(ctx context.Context, cutoff Date) (int64, error)
}

// ZoneFreeDate is a free date joined with its zone name, for the admin
// monitoring view.
type ZoneFreeDate struct {
	ZoneID   int32  `json:"zoneId"`
	ZoneName string `json:"zoneName"`
	Date     Date   `json:"date"`
}
