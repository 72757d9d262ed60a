package shared

const (
	// Default pagination
	DefaultPage  = 1
	DefaultLimit = 10

	// Sort directions
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list page filters for reference entities.
// Search matches the default-language name, case-insensitively.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
}

// Normalize fills pagination defaults.
func (f ListFilters) Normalize() ListFilters {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	return f
}
