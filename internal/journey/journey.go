package journey

import (
	"strings"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/converting"
)

const (
	MaxPassengers    = 16
	MinHourlyBooking = 1
	MaxHourlyBooking = 24
)

// Normalize trims addresses and drops waypoints without an address.
func Normalize(request schema.JourneyRequest) schema.JourneyRequest {
	request.Pickup.Address = strings.TrimSpace(request.Pickup.Address)

	if request.Dropoff != nil {
		dropoff := *request.Dropoff
		dropoff.Address = strings.TrimSpace(dropoff.Address)
		request.Dropoff = &dropoff
	}

	waypoints := make([]schema.Waypoint, 0, len(request.Waypoints))
	for _, waypoint := range request.Waypoints {
		waypoint.Address = strings.TrimSpace(waypoint.Address)
		if waypoint.Address == "" {
			continue
		}
		waypoints = append(waypoints, waypoint)
	}
	request.Waypoints = waypoints

	if request.Type == "" {
		request.Type = schema.OneWay
	}

	return request
}

// CanProceed reports the first reason the journey can not be quoted yet.
func CanProceed(request schema.JourneyRequest) error {
	if strings.TrimSpace(request.Pickup.Address) == "" {
		return schema.NewValidationError("pickup.address", "pickup address is required")
	}

	if request.PickupAt.IsZero() {
		return schema.NewValidationError("pickupAt", "pickup date is required")
	}

	if _, ok := schema.ParseJourneyType(string(request.Type)); !ok {
		return schema.NewValidationError("journeyType", "journey type must be one-way, round-trip or hourly")
	}

	dropoffMissing := strings.TrimSpace(request.DropoffAddress()) == ""

	switch request.Type {
	case schema.OneWay, schema.RoundTrip:
		if dropoffMissing {
			return schema.NewValidationError("dropoff.address", "dropoff address is required")
		}
	case schema.Hourly:
		if dropoffMissing && !request.ReturnToPickup {
			return schema.NewValidationError("dropoff.address", "dropoff address is required unless returning to pickup")
		}

		duration := converting.Unwrap(request.DurationHours)
		if duration < MinHourlyBooking || duration > MaxHourlyBooking {
			return schema.NewValidationError("durationHours", "duration must be between 1 and 24 hours")
		}
	}

	if request.Type == schema.RoundTrip {
		if request.ReturnAt == nil || request.ReturnAt.IsZero() {
			return schema.NewValidationError("returnAt", "return date is required")
		}
		if !request.ReturnAt.After(request.PickupAt) {
			return schema.NewValidationError("returnAt", "return must be after pickup")
		}
	}

	if request.Passengers < 1 || request.Passengers > MaxPassengers {
		return schema.NewValidationError("passengers", "passengers must be between 1 and 16")
	}

	if request.Luggage < 0 {
		return schema.NewValidationError("luggage", "luggage can not be negative")
	}

	for _, waypoint := range request.Waypoints {
		if strings.TrimSpace(waypoint.Address) == "" {
			return schema.NewValidationError("waypoints.address", "waypoint address is required")
		}
		if converting.Unwrap(waypoint.WaitMinutes) < 0 {
			return schema.NewValidationError("waypoints.waitMinutes", "wait time can not be negative")
		}
	}

	if request.Extras != nil && (request.Extras.BabySeats < 0 || request.Extras.ChildSeats < 0) {
		return schema.NewValidationError("extras", "seat counts can not be negative")
	}

	return nil
}

// InPast reports whether pickup is already behind now.
func InPast(request schema.JourneyRequest, now time.Time) bool {
	return request.PickupAt.Before(now)
}
