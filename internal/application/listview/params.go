package listview

import (
	"net/url"
	"strings"
	"time"
)

// Query keys recognised by ParseParams.
const (
	KeyStatus = "status"
	KeySearch = "q"
	KeyFrom   = "from"
	KeyTo     = "to"
	KeyMin    = "min"
	KeyMax    = "max"
	KeySort   = "sort"
	KeyDir    = "dir"
	KeyMode   = "mode"
)

// dateLayouts are tried in order when parsing from/to.
var dateLayouts = []string{"2006-01-02", time.RFC3339Nano}

// ParseParams extracts list parameters from URL query values.
// PRE: none
// POST: returns normalized Params; unknown or malformed values fall back to defaults
func ParseParams(q url.Values) Params {
	p := Params{
		Status:    StatusFilter(q.Get(KeyStatus)),
		Search:    q.Get(KeySearch),
		SortBy:    SortField(q.Get(KeySort)),
		SortOrder: SortOrder(q.Get(KeyDir)),
		Mode:      Mode(q.Get(KeyMode)),
		DurationRange: DurationRange{
			Min: q.Get(KeyMin),
			Max: q.Get(KeyMax),
		},
		DateRange: DateRange{
			Start: parseDate(q.Get(KeyFrom)),
			End:   parseDate(q.Get(KeyTo)),
		},
	}
	return p.Normalized()
}

// Encode is the inverse of ParseParams for the non-default values in p.
func (p Params) Encode() url.Values {
	p = p.Normalized()
	q := url.Values{}
	if p.Status != StatusAll {
		q.Set(KeyStatus, string(p.Status))
	}
	if p.Search != "" {
		q.Set(KeySearch, p.Search)
	}
	if p.DateRange.Start != nil {
		q.Set(KeyFrom, p.DateRange.Start.Format(time.RFC3339Nano))
	}
	if p.DateRange.End != nil {
		q.Set(KeyTo, p.DateRange.End.Format(time.RFC3339Nano))
	}
	if p.DurationRange.Min != "" {
		q.Set(KeyMin, p.DurationRange.Min)
	}
	if p.DurationRange.Max != "" {
		q.Set(KeyMax, p.DurationRange.Max)
	}
	q.Set(KeySort, string(p.SortBy))
	q.Set(KeyDir, string(p.SortOrder))
	q.Set(KeyMode, string(p.Mode))
	return q
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
