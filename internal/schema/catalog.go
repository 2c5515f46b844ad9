package schema

type VehicleType struct {
	Class           string  `json:"class"`
	Name            string  `json:"name"`
	Capacity        int     `json:"capacity"`
	LuggageCapacity int     `json:"luggageCapacity"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// ZonePrice is a fixed price between two predefined areas.
type ZonePrice struct {
	FromZone     string `json:"fromZone"`
	ToZone       string `json:"toZone"`
	VehicleClass string `json:"vehicleClass"`
	Price        Money  `json:"price"`
}

type ZonePriceQuery struct {
	FromZone     string `url:"fromZone,omitempty" form:"fromZone"`
	ToZone       string `url:"toZone,omitempty" form:"toZone"`
	VehicleClass string `url:"vehicleClass,omitempty" form:"vehicleClass"`
	Page         int    `url:"page,omitempty" form:"page"`
	PerPage      int    `url:"perPage,omitempty" form:"perPage"`
}
