package currencies

import (
	"time"

	"github.com/stocktag/stocktag/internal/i18n"
)

// Currency represents a pricing currency with localized names and symbols.
type Currency struct {
	ID        string         `json:"id"`
	Names     i18n.Localized `json:"names"`
	Symbols   i18n.Localized `json:"symbols"`
	Removed   bool           `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
