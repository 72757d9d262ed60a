package categories

import (
	"time"

	"github.com/stocktag/stocktag/internal/i18n"
)

// Category groups products; names are localized.
type Category struct {
	ID        string         `json:"id"`
	Names     i18n.Localized `json:"names"`
	Removed   bool           `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
