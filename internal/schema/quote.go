package schema

import "time"

type PricingOption string

const (
	PricingOneWay PricingOption = "one-way"
	PricingReturn PricingOption = "return"
	PricingHourly PricingOption = "hourly"
)

// DefaultPricingOption is the option preselected when a vehicle is picked.
func DefaultPricingOption(journeyType JourneyType) PricingOption {
	switch journeyType {
	case RoundTrip:
		return PricingReturn
	case Hourly:
		return PricingHourly
	default:
		return PricingOneWay
	}
}

// VehicleOption is one priced vehicle class of a comparison. QuoteID identifies
// the server side quote selecting this option turns into.
type VehicleOption struct {
	QuoteID         string  `json:"quoteId"`
	VehicleClass    string  `json:"vehicleClass"`
	Name            string  `json:"name"`
	Capacity        int     `json:"capacity"`
	LuggageCapacity int     `json:"luggageCapacity"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	OneWay          Money   `json:"oneWay"`
	Return          *Money  `json:"return,omitempty"`
	Discount        *Money  `json:"discount,omitempty"`
	HourlyRate      *Money  `json:"hourlyRate,omitempty"`
	Available       bool    `json:"available"`
}

// Price returns the server price for option, false when that option is not offered.
func (v VehicleOption) Price(option PricingOption) (Money, bool) {
	switch option {
	case PricingOneWay:
		return v.OneWay, true
	case PricingReturn:
		if v.Return == nil {
			return Money{}, false
		}
		return *v.Return, true
	case PricingHourly:
		if v.HourlyRate == nil {
			return Money{}, false
		}
		return *v.HourlyRate, true
	}

	return Money{}, false
}

type Comparison struct {
	ComparisonID string          `json:"comparisonId"`
	Options      []VehicleOption `json:"options"`
	ExpiresAt    time.Time       `json:"expiresAt"`
	ZonePricing  bool            `json:"zonePricing,omitempty"`
}

// Quote is server computed and immutable, never repriced locally.
type Quote struct {
	ID              string            `json:"id"`
	VehicleClass    string            `json:"vehicleClass"`
	VehicleName     string            `json:"vehicleName"`
	Capacity        int               `json:"capacity"`
	LuggageCapacity int               `json:"luggageCapacity"`
	PricingOption   PricingOption     `json:"pricingOption"`
	Total           Money             `json:"total"`
	OneWay          Money             `json:"oneWay"`
	Return          *Money            `json:"return,omitempty"`
	Discount        *Money            `json:"discount,omitempty"`
	HourlyRate      *Money            `json:"hourlyRate,omitempty"`
	ExpiresAt       time.Time         `json:"expiresAt"`
	Display         map[string]string `json:"display,omitempty"`
}

func (q Quote) Expired(now time.Time) bool {
	return !q.ExpiresAt.IsZero() && now.After(q.ExpiresAt)
}

// SavedQuote is returned when a quote is saved and carries the short lived token
// that authorizes creating a booking from it.
type SavedQuote struct {
	QuoteID   string    `json:"quoteId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SharedQuote is what a shared quote link resolves to.
type SharedQuote struct {
	Journey JourneyRequest `json:"journey"`
	Quote   Quote          `json:"quote"`
	Saved   SavedQuote     `json:"saved"`
}
