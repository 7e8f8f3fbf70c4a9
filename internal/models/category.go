package models

// Category identifies a travel search vertical. It doubles as the redirect
// "type" column and the affiliate template "type" column, so the two tables
// always agree on the domain.
type Category string

const (
	CategoryFlight    Category = "flight"
	CategoryHotel     Category = "hotel"
	CategoryCar       Category = "car"
	CategoryInsurance Category = "insurance"
	CategoryESIM      Category = "esim"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryFlight,
	CategoryHotel,
	CategoryCar,
	CategoryInsurance,
	CategoryESIM,
}

// Valid reports whether the category is one of the known verticals.
func (c Category) Valid() bool {
	switch c {
	case CategoryFlight, CategoryHotel, CategoryCar, CategoryInsurance, CategoryESIM:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
