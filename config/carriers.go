package config

import (
	"fmt"
	"os"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"

	"github.com/goccy/go-json"
)

// defaultCarriers is the built-in paid-carrier catalog, used when no
// catalog file is configured. Order is significant: the first carrier
// becomes the default option when no free delivery applies.
var defaultCarriers = []domain.Carrier{
	{ID: "blue_dart", Name: "Blue Dart Express", Price: 90.00, DayOffset: 1},
	{ID: "delhivery", Name: "Delhivery Standard", Price: 120.00, DayOffset: 5},
	{ID: "dhl", Name: "DHL Economy", Price: 50.00, DayOffset: 8},
}

// LoadCarrierCatalog reads the paid-carrier catalog from the configured
// JSON file, falling back to the built-in defaults when no file is set.
// Operators can adjust carrier pricing without a code change.
func LoadCarrierCatalog(path string) ([]domain.Carrier, error) {
	if path == "" {
		return defaultCarriers, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carrier catalog: %w", err)
	}

	var carriers []domain.Carrier
	if err := json.Unmarshal(data, &carriers); err != nil {
		return nil, fmt.Errorf("parse carrier catalog %s: %w", path, err)
	}
	if len(carriers) == 0 {
		return nil, fmt.Errorf("carrier catalog %s is empty", path)
	}

	for i, c := range carriers {
		if c.ID == "" || c.Name == "" {
			return nil, fmt.Errorf("carrier catalog %s: entry %d missing id or name", path, i)
		}
		if c.ID == domain.FreeDeliveryOptionID {
			return nil, fmt.Errorf("carrier catalog %s: id %q is reserved", path, c.ID)
		}
		if c.Price < 0 {
			return nil, fmt.Errorf("carrier catalog %s: carrier %s has negative price", path, c.ID)
		}
		if c.DayOffset < 0 {
			return nil, fmt.Errorf("carrier catalog %s: carrier %s has negative day offset", path, c.ID)
		}
	}
	return carriers, nil
}
