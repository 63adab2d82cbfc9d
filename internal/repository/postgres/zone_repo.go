package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// zoneRepository reads and writes delivery zones against Postgres with
// the PostGIS extension. Zone polygons are kept twice: as a GEOMETRY
// column (SRID 4326, GiST-indexed) for containment queries, and as the
// original GeoJSON document for the admin UI and the in-memory index.
type zoneRepository struct {
	db *pgxpool.Pool
}

func NewZoneRepository(db *pgxpool.Pool) domain.ZoneStore {
	return &zoneRepository{db: db}
}

// FindZoneContaining pushes the containment test into PostGIS so the
// spatial index does the work. Vertex order is (lon, lat) per PostGIS
// convention. Overlapping zones resolve to the lowest id.
func (r *zoneRepository) FindZoneContaining(ctx context.Context, lon, lat float64) (*domain.DeliveryZone, error) {
	const q = `
		SELECT id, name, geojson, created_at, updated_at
		FROM delivery_zones
		WHERE ST_Contains(geometry, ST_SetSRID(ST_Point($1, $2), 4326))
		ORDER BY id
		LIMIT 1`

	zone, err := scanZone(r.db.QueryRow(ctx, q, lon, lat))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrZoneNotFound
		}
		return nil, fmt.Errorf("find zone containing point: %w", err)
	}
	return zone, nil
}

func (r *zoneRepository) UpcomingFreeDates(ctx context.Context, zoneID int32, onOrAfter domain.Date) ([]domain.Date, error) {
	const q = `
		SELECT free_date
		FROM delivery_zone_free_dates
		WHERE zone_id = $1 AND free_date >= $2
		ORDER BY free_date ASC`

	rows, err := r.db.Query(ctx, q, zoneID, onOrAfter.Time(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("query free dates: %w", err)
	}
	defer rows.Close()

	var dates []domain.Date
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan free date: %w", err)
		}
		dates = append(dates, domain.DateOf(t))
	}
	return dates, rows.Err()
}

func (r *zoneRepository) ListZones(ctx context.Context) ([]domain.DeliveryZone, error) {
	const q = `
		SELECT id, name, geojson, created_at, updated_at
		FROM delivery_zones
		ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.DeliveryZone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, *zone)
	}
	return zones, rows.Err()
}

func (r *zoneRepository) GetZoneByID(ctx context.Context, id int32) (*domain.DeliveryZone, error) {
	const q = `
		SELECT id, name, geojson, created_at, updated_at
		FROM delivery_zones
		WHERE id = $1`

	zone, err := scanZone(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrZoneNotFound
		}
		return nil, fmt.Errorf("get zone %d: %w", id, err)
	}
	return zone, nil
}

func (r *zoneRepository) CreateZone(ctx context.Context, name string, geojson domain.RawJSON) (*domain.DeliveryZone, error) {
	geometry, err := geometryNode(geojson)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO delivery_zones (name, geometry, geojson)
		VALUES ($1, ST_SetSRID(ST_GeomFromGeoJSON($2), 4326), $2)
		RETURNING id, name, geojson, created_at, updated_at`

	zone, err := scanZone(r.db.QueryRow(ctx, q, name, []byte(geometry)))
	if err != nil {
		return nil, fmt.Errorf("create zone %q: %w", name, err)
	}
	return zone, nil
}

func (r *zoneRepository) UpdateZone(ctx context.Context, id int32, name string, geojson domain.RawJSON) (*domain.DeliveryZone, error) {
	geometry, err := geometryNode(geojson)
	if err != nil {
		return nil, err
	}

	const q = `
		UPDATE delivery_zones
		SET name = $2,
		    geometry = ST_SetSRID(ST_GeomFromGeoJSON($3), 4326),
		    geojson = $3,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, geojson, created_at, updated_at`

	zone, err := scanZone(r.db.QueryRow(ctx, q, id, name, []byte(geometry)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrZoneNotFound
		}
		return nil, fmt.Errorf("update zone %d: %w", id, err)
	}
	return zone, nil
}

// DeleteZone removes the zone and its free dates in one transaction.
func (r *zoneRepository) DeleteZone(ctx context.Context, id int32) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete zone: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM delivery_zone_free_dates WHERE zone_id = $1`, id); err != nil {
		return fmt.Errorf("delete zone free dates: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM delivery_zones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete zone %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrZoneNotFound
	}
	return tx.Commit(ctx)
}

func (r *zoneRepository) AddFreeDate(ctx context.Context, zoneID int32, date domain.Date) error {
	// (zone_id, free_date) is unique; re-adding an existing date is a no-op.
	const q = `
		INSERT INTO delivery_zone_free_dates (zone_id, free_date)
		VALUES ($1, $2)
		ON CONFLICT (zone_id, free_date) DO NOTHING`

	if _, err := r.db.Exec(ctx, q, zoneID, date.Time(time.UTC)); err != nil {
		return fmt.Errorf("add free date %s to zone %d: %w", date, zoneID, err)
	}
	return nil
}

func (r *zoneRepository) RemoveFreeDate(ctx context.Context, zoneID int32, date domain.Date) error {
	const q = `DELETE FROM delivery_zone_free_dates WHERE zone_id = $1 AND free_date = $2`
	if _, err := r.db.Exec(ctx, q, zoneID, date.Time(time.UTC)); err != nil {
		return fmt.Errorf("remove free date %s from zone %d: %w", date, zoneID, err)
	}
	return nil
}

func (r *zoneRepository) ListFreeDatesThrough(ctx context.Context, from, through domain.Date) ([]domain.ZoneFreeDate, error) {
	const q = `
		SELECT df.zone_id, dz.name, df.free_date
		FROM delivery_zone_free_dates df
		JOIN delivery_zones dz ON df.zone_id = dz.id
		WHERE df.free_date BETWEEN $1 AND $2
		ORDER BY df.free_date, dz.name`

	rows, err := r.db.Query(ctx, q, from.Time(time.UTC), through.Time(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("list free dates: %w", err)
	}
	defer rows.Close()

	var result []domain.ZoneFreeDate
	for rows.Next() {
		var (
			zd domain.ZoneFreeDate
			t  time.Time
		)
		if err := rows.Scan(&zd.ZoneID, &zd.ZoneName, &t); err != nil {
			return nil, fmt.Errorf("scan free date row: %w", err)
		}
		zd.Date = domain.DateOf(t)
		result = append(result, zd)
	}
	return result, rows.Err()
}

func (r *zoneRepository) DeleteFreeDatesBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	const q = `DELETE FROM delivery_zone_free_dates WHERE free_date < $1`
	tag, err := r.db.Exec(ctx, q, cutoff.Time(time.UTC))
	if err != nil {
		return 0, fmt.Errorf("delete free dates before %s: %w", cutoff, err)
	}
	return tag.RowsAffected(), nil
}

func scanZone(row pgx.Row) (*domain.DeliveryZone, error) {
	var (
		zone    domain.DeliveryZone
		geojson []byte
	)
	if err := row.Scan(&zone.ID, &zone.Name, &geojson, &zone.CreatedAt, &zone.UpdatedAt); err != nil {
		return nil, err
	}
	zone.GeoJSON = domain.RawJSON(geojson)

	boundary, err := ExteriorRing(zone.GeoJSON)
	if err != nil {
		return nil, fmt.Errorf("zone %d has malformed geojson: %w", zone.ID, err)
	}
	zone.Boundary = boundary
	return &zone, nil
}
