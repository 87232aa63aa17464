package models

import (
	"encoding/json"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.English)

// UnitPrice is the per-record price per acre shown on cards and map popups.
// An unavailable value (zero acreage) is distinct from a zero price.
type UnitPrice struct {
	Value     int64
	Available bool
}

// String renders "$12,345/ac", or "n/a" when unavailable.
func (u UnitPrice) String() string {
	if !u.Available {
		return "n/a"
	}
	return usd.Sprintf("$%d/ac", u.Value)
}

// MarshalJSON encodes an unavailable value as null.
func (u UnitPrice) MarshalJSON() ([]byte, error) {
	if !u.Available {
		return []byte("null"), nil
	}
	return json.Marshal(u.Value)
}
