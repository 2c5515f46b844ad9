package schema

import "time"

type JourneyType string

const (
	OneWay    JourneyType = "one-way"
	RoundTrip JourneyType = "round-trip"
	Hourly    JourneyType = "hourly"
)

func ParseJourneyType(s string) (JourneyType, bool) {
	switch JourneyType(s) {
	case OneWay, RoundTrip, Hourly:
		return JourneyType(s), true
	default:
		return "", false
	}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Address     string       `json:"address"`
	PlaceID     *string      `json:"placeId,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Waypoint struct {
	Address     string  `json:"address"`
	PlaceID     *string `json:"placeId,omitempty"`
	WaitMinutes *int    `json:"waitMinutes,omitempty"`
}

type Extras struct {
	BabySeats  int `json:"babySeats,omitempty"`
	ChildSeats int `json:"childSeats,omitempty"`
}

// JourneyRequest is the form state of a quote page. Dropoff is optional only for
// hourly hires that return to the pickup point.
type JourneyRequest struct {
	Pickup         Location    `json:"pickup"`
	Dropoff        *Location   `json:"dropoff,omitempty"`
	Waypoints      []Waypoint  `json:"waypoints,omitempty"`
	PickupAt       time.Time   `json:"pickupAt"`
	ReturnAt       *time.Time  `json:"returnAt,omitempty"`
	Passengers     int         `json:"passengers"`
	Luggage        int         `json:"luggage"`
	Type           JourneyType `json:"journeyType"`
	DurationHours  *int        `json:"durationHours,omitempty"`
	ReturnToPickup bool        `json:"returnToPickup,omitempty"`
	Extras         *Extras     `json:"extras,omitempty"`
	VehicleClass   *string     `json:"vehicleClass,omitempty"`
}

func (j JourneyRequest) DropoffAddress() string {
	if j.Dropoff == nil {
		return ""
	}

	return j.Dropoff.Address
}
