// Package listview derives the displayed course list from the raw collection.
// Every function here is pure: inputs are never mutated and no errors are returned.
// Filter bounds that cannot be interpreted impose no constraint.
package listview

import (
	"cmp"
	"sort"
	"strconv"
	"strings"
	"time"

	"coursecatalog/internal/domain/course"
)

// StatusFilter selects courses by lifecycle status.
type StatusFilter string

// StatusAll keeps every course regardless of status.
const StatusAll StatusFilter = "all"

// SortField names the comparator used in ordered mode.
type SortField string

// Sortable fields
const (
	SortTitle     SortField = "title"
	SortCreatedAt SortField = "createdAt"
	SortDuration  SortField = "duration"
)

// SortOrder is the sort direction.
type SortOrder string

// Sort directions
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Mode selects between sorted display and user-controlled order.
type Mode string

// Display modes
const (
	ModeOrdered Mode = "ordered"
	ModeManual  Mode = "manual"
)

// DateRange bounds CreatedAt. A nil bound imposes no constraint.
// End covers its whole calendar day, in End's location.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// DurationRange bounds Duration, inclusive. Bounds hold the raw text typed by the
// user; empty or unparseable text imposes no constraint.
type DurationRange struct {
	Min string
	Max string
}

// Params carries all list view parameters.
type Params struct {
	Status        StatusFilter // "" or "all" keeps everything
	Search        string       // case-insensitive substring of the title
	DateRange     DateRange
	DurationRange DurationRange
	SortBy        SortField // default createdAt
	SortOrder     SortOrder // default desc
	Mode          Mode      // default ordered
}

// DefaultParams returns params that keep every course, newest first.
func DefaultParams() Params {
	return Params{
		Status:    StatusAll,
		SortBy:    SortCreatedAt,
		SortOrder: SortDesc,
		Mode:      ModeOrdered,
	}
}

// Normalized replaces unknown or empty enum values with their defaults.
func (p Params) Normalized() Params {
	switch p.Status {
	case StatusFilter(course.StatusDraft), StatusFilter(course.StatusPublished), StatusFilter(course.StatusArchived):
	default:
		p.Status = StatusAll
	}
	switch p.SortBy {
	case SortTitle, SortCreatedAt, SortDuration:
	default:
		p.SortBy = SortCreatedAt
	}
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	if p.Mode != ModeManual {
		p.Mode = ModeOrdered
	}
	return p
}

// Apply filters courses and, in ordered mode, sorts them.
// PRE: none
// POST: Returns a new slice; in manual mode the input order is preserved
// INVARIANT: courses is not mutated
func Apply(courses []course.Course, p Params) []course.Course {
	p = p.Normalized()
	f := compile(p)

	out := make([]course.Course, 0, len(courses))
	for _, c := range courses {
		if f.match(c) {
			out = append(out, c)
		}
	}
	if p.Mode == ModeManual {
		return out
	}

	compare := comparator(p.SortBy)
	desc := p.SortOrder == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		r := compare(out[i], out[j])
		if desc {
			return r > 0
		}
		return r < 0
	})
	return out
}

// Matches reports whether c satisfies every active filter in p.
func Matches(c course.Course, p Params) bool {
	return compile(p.Normalized()).match(c)
}

// filter is Params with its text bounds parsed once.
type filter struct {
	status   StatusFilter
	search   string
	start    *time.Time
	end      *time.Time
	min, max *int
}

func compile(p Params) filter {
	f := filter{
		status: p.Status,
		search: strings.ToLower(p.Search),
		start:  p.DateRange.Start,
		min:    parseBound(p.DurationRange.Min),
		max:    parseBound(p.DurationRange.Max),
	}
	if p.DateRange.End != nil {
		e := EndOfDay(*p.DateRange.End)
		f.end = &e
	}
	return f
}

func (f filter) match(c course.Course) bool {
	if f.status != StatusAll && string(c.Status) != string(f.status) {
		return false
	}
	if f.search != "" && !strings.Contains(strings.ToLower(c.Title), f.search) {
		return false
	}
	if f.start != nil && c.CreatedAt.Before(*f.start) {
		return false
	}
	if f.end != nil && c.CreatedAt.After(*f.end) {
		return false
	}
	if f.min != nil && c.Duration < *f.min {
		return false
	}
	if f.max != nil && c.Duration > *f.max {
		return false
	}
	return true
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func parseBound(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// comparator returns a three-way comparison for the sort field.
func comparator(field SortField) func(a, b course.Course) int {
	switch field {
	case SortTitle:
		return func(a, b course.Course) int {
			if r := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); r != 0 {
				return r
			}
			return strings.Compare(a.Title, b.Title)
		}
	case SortDuration:
		return func(a, b course.Course) int {
			return cmp.Compare(a.Duration, b.Duration)
		}
	default:
		return func(a, b course.Course) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}
