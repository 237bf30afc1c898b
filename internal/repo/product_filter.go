package repo

type ProductFilter struct {
	Query  string // matched against name, brand and serial number
	Brand  string
	Status string
	UserID string
	Offset *int
	Limit  *int
}
