package domain

// FreeDeliveryOptionID is the stable identifier of the zone-based free
// delivery option.
const FreeDeliveryOptionID = "free_delivery"

// ShippingOption is one candidate way to fulfill a delivery. Options are
// computed fresh per request and never persisted. Exactly one option in
// a returned list has IsDefault set.
type ShippingOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	DeliveryDate  Date    `json:"deliveryDate"`
	EstimatedDays int     `json:"estimatedDays"`
	IsFree        bool    `json:"isFree"`
	IsDefault     bool    `json:"isDefault"`
}

// Carrier is one entry of the static paid-carrier catalog. DayOffset is
// the promised delivery date as days from today. Catalog order is
// significant: the first carrier is the default when no free option
// applies.
type Carrier struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	DayOffset int     `json:"dayOffset"`
}

// Option converts the carrier into a shipping option dated from today.
func (c Carrier) Option(today Date) ShippingOption {
	return ShippingOption{
		ID:            c.ID,
		Name:          c.Name,
		Price:         c.Price,
		DeliveryDate:  today.AddDays(c.DayOffset),
		EstimatedDays: c.DayOffset,
	}
}
