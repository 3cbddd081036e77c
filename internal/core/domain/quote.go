package domain

import "time"

// QuoteUpdate is one manufacturer's price submission for a product.
type QuoteUpdate struct {
	ProductID        int64
	ManufacturerName string
	Price            float64
}

type Quote struct {
	ProductID        int64
	ManufacturerName string
	Price            float64
	UpdatedAt        time.Time
}
