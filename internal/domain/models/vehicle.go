package models

// VehicleType owns the seat template a trip's seats are instantiated from.
type VehicleType struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SeatCapacity int    `json:"seatCapacity"`
	PricePerSeat int64  `json:"pricePerSeat"`
}

// SeatTemplateEntry is a seat definition independent of any specific trip.
type SeatTemplateEntry struct {
	ID               int64  `json:"id"`
	VehicleTypeID    int64  `json:"vehicleTypeId"`
	SeatNumber       string `json:"seatNumber"`
	Row              int    `json:"row"`
	Col              int    `json:"col"`
	DefaultAvailable bool   `json:"defaultAvailable"`
}

type Vehicle struct {
	ID            int64  `json:"id"`
	PlateNumber   string `json:"plateNumber"`
	VehicleTypeID int64  `json:"vehicleTypeId"`
}

type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}
