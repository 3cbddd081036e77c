package domain

import "time"

// Aggregate is the mean price and offer count over all current quotes of a product.
type Aggregate struct {
	ProductID    int64
	AveragePrice float64
	OfferCount   int
	UpdatedAt    time.Time
}
