package pagination

import "strings"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds validated paging/sorting inputs. Raw query values are clamped
// at the boundary; repositories never see out-of-range numbers or
// un-allow-listed sort columns.
type Params struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

// sortColumns is the fixed allow-list for order listings. Anything else is
// clamped to the default rather than rejected mid-request.
var sortColumns = map[string]struct{}{
	"created_at":   {},
	"total_cents":  {},
	"order_number": {},
	"status":       {},
}

const defaultSortColumn = "created_at"

// Normalize clamps page/limit and the sort column into their valid ranges.
func Normalize(params Params) Params {
	out := params
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	out.SortBy = NormalizeSort(out.SortBy)
	return out
}

// NormalizeSort clamps a requested sort column to the allow-list.
func NormalizeSort(column string) string {
	column = strings.ToLower(strings.TrimSpace(column))
	if _, ok := sortColumns[column]; ok {
		return column
	}
	return defaultSortColumn
}

// Offset converts normalized page/limit into a row offset.
func (p Params) Offset() int {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * p.Limit
}

// OrderClause renders the ORDER BY fragment for the normalized params.
// Safe by construction: the column came from the allow-list.
func (p Params) OrderClause() string {
	direction := "ASC"
	if p.SortDesc {
		direction = "DESC"
	}
	return NormalizeSort(p.SortBy) + " " + direction
}
