package units

import (
	"time"

	"github.com/stocktag/stocktag/internal/i18n"
)

// Unit is a measurement unit (piece, kilogram, liter) with localized
// names and short symbols.
type Unit struct {
	ID        string         `json:"id"`
	Names     i18n.Localized `json:"names"`
	Symbols   i18n.Localized `json:"symbols"`
	Removed   bool           `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
