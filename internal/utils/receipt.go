package utils

import (
	"math"

	"github.com/google/uuid"
)

// NewReceiptRef returns the opaque reference stored on a donation and
// printed on receipts.
func NewReceiptRef() string {
	return uuid.NewString()
}

// Round2 rounds to two decimal places. Rating aggregates and the
// reliability score are stored at this precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
