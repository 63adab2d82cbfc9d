package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/internal/geo"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/logger"
)

// ErrInvalidCoordinates is returned when a caller supplies a latitude or
// longitude outside the valid range. Out-of-range input is a caller
// error and is rejected before any store query.
var ErrInvalidCoordinates = errors.New("coordinates out of range")

// ShippingUsecase resolves delivery zones and assembles shipping options
// for checkout. It is a pure read-computation: safe for any number of
// concurrent calls, no state between them. Zone lookups run under a
// short timeout, and any store failure degrades to the paid-carrier
// catalog so checkout is never blocked by a zone lookup.
type ShippingUsecase struct {
	zones        domain.ZoneReader
	catalog      []domain.Carrier
	storeTimeout time.Duration

	// now is swapped in tests to pin the calendar date.
	now func() time.Time
}

// NewShippingUsecase wires the resolver. catalog must be non-empty (the
// config loader enforces this) and its order is significant: the first
// carrier is the default when no free delivery applies.
func NewShippingUsecase(zones domain.ZoneReader, catalog []domain.Carrier, storeTimeout time.Duration) *ShippingUsecase {
	return &ShippingUsecase{
		zones:        zones,
		catalog:      catalog,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// ZoneForPoint returns the delivery zone containing the point, or
// (nil, nil) when the point falls outside every zone. Most addresses
// are outside every zone; that is not an error.
func (u *ShippingUsecase) ZoneForPoint(ctx context.Context, lat, lon float64) (*domain.DeliveryZone, error) {
	if !geo.ValidLat(lat) || !geo.ValidLon(lon) {
		return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	zone, err := u.zones.FindZoneContaining(ctx, lon, lat)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return zone, nil
}

// FreeDatesForZone returns the zone's free delivery dates on or after
// today, ascending. An empty list means the zone has no upcoming free
// delivery commitment. The zone id must come from ZoneForPoint.
func (u *ShippingUsecase) FreeDatesForZone(ctx context.Context, zoneID int32) ([]domain.Date, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	return u.zones.UpcomingFreeDates(ctx, zoneID, u.today())
}

// ShippingOptionsFor returns the ordered option list for the given
// delivery point: a free option when the point is in a zone with an
// upcoming free date (earliest date wins), then the paid catalog in
// catalog order. Exactly one option is marked default — the free one if
// present, the first paid carrier otherwise.
//
// orderTotal is part of the contract for future price-based rules but
// does not change paid-option pricing today.
func (u *ShippingUsecase) ShippingOptionsFor(ctx context.Context, lat, lon, orderTotal float64) ([]domain.ShippingOption, error) {
	if !geo.ValidLat(lat) || !geo.ValidLon(lon) {
		return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}

	today := u.today()

	zone, err := u.ZoneForPoint(ctx, lat, lon)
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("zone lookup failed, degrading to paid catalog")
		return u.paidOptions(today, true), nil
	}

	var freeDates []domain.Date
	if zone != nil {
		freeDates, err = u.FreeDatesForZone(ctx, zone.ID)
		if err != nil {
			logger.WithContext(ctx).Warn().Err(err).Int32("zone_id", zone.ID).Msg("free-date lookup failed, degrading to paid catalog")
			return u.paidOptions(today, true), nil
		}
	}

	if len(freeDates) == 0 {
		return u.paidOptions(today, true), nil
	}

	next := freeDates[0]
	options := make([]domain.ShippingOption, 0, len(u.catalog)+1)
	options = append(options, domain.ShippingOption{
		ID:            domain.FreeDeliveryOptionID,
		Name:          "Free Delivery",
		Price:         0,
		DeliveryDate:  next,
		EstimatedDays: today.DaysUntil(next),
		IsFree:        true,
		IsDefault:     true,
	})
	return append(options, u.paidOptions(today, false)...), nil
}

// FeeForSelection recomputes the option list and returns the price of
// the option with the given id. The client-supplied id is never trusted
// to carry a price; it is resolved server-side against fresh options. A
// stale id (e.g. a free slot that expired between page load and submit)
// falls back to the first paid option.
func (u *ShippingUsecase) FeeForSelection(ctx context.Context, optionID string, lat, lon, orderTotal float64) (float64, *domain.ShippingOption, error) {
	options, err := u.ShippingOptionsFor(ctx, lat, lon, orderTotal)
	if err != nil {
		return 0, nil, err
	}

	for i := range options {
		if options[i].ID == optionID {
			return options[i].Price, &options[i], nil
		}
	}

	logger.WithContext(ctx).Warn().Str("option_id", optionID).Msg("selected shipping option no longer available, falling back to first paid option")
	for i := range options {
		if !options[i].IsFree {
			return options[i].Price, &options[i], nil
		}
	}
	// Unreachable while the catalog is non-empty.
	return options[0].Price, &options[0], nil
}

// Catalog returns the configured paid-carrier catalog.
func (u *ShippingUsecase) Catalog() []domain.Carrier {
	return u.catalog
}

func (u *ShippingUsecase) today() domain.Date {
	return domain.DateOf(u.now())
}

func (u *ShippingUsecase) paidOptions(today domain.Date, firstIsDefault bool) []domain.ShippingOption {
	options := make([]domain.ShippingOption, len(u.catalog))
	for i, c := range u.catalog {
		options[i] = c.Option(today)
	}
	if firstIsDefault && len(options) > 0 {
		options[0].IsDefault = true
	}
	return options
}
