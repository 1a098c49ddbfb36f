package domain

type TransactionType string

const (
	TransactionSale TransactionType = "sale"
	TransactionRent TransactionType = "rent"
)

// SearchFilters is the caller-supplied filter set for one collect run.
// All fields are optional except Transaction, which defaults to sale.
type SearchFilters struct {
	Transaction   TransactionType
	MinPrice      *int
	MaxPrice      *int
	MinSizeSqm    *int
	MaxSizeSqm    *int
	MinBedrooms   *int
	Areas         []string
	PropertyTypes []string
}

// Normalized returns a copy with defaults applied.
func (f SearchFilters) Normalized() SearchFilters {
	if f.Transaction == "" {
		f.Transaction = TransactionSale
	}
	return f
}
