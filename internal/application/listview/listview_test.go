package listview

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"coursecatalog/internal/domain/course"
)

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ids(list []course.Course) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func sample() []course.Course {
	return []course.Course{
		{ID: "1", Title: "React Basics", Duration: 120, Status: course.StatusDraft, CreatedAt: day("2024-01-03T10:00:00Z")},
		{ID: "2", Title: "Go in Practice", Duration: 90, Status: course.StatusPublished, CreatedAt: day("2024-01-01T08:00:00Z")},
		{ID: "3", Title: "advanced react", Duration: 120, Status: course.StatusDraft, CreatedAt: day("2024-01-02T12:00:00Z")},
		{ID: "4", Title: "SQL", Duration: 45, Status: course.StatusArchived, CreatedAt: day("2024-01-04T09:00:00Z")},
	}
}

// TestApply_DurationMaxScenario verifies the max duration bound from text input.
func TestApply_DurationMaxScenario(t *testing.T) {
	courses := []course.Course{
		{ID: "a", Title: "A", Duration: 120, CreatedAt: day("2024-01-01T00:00:00Z")},
		{ID: "b", Title: "B", Duration: 180, CreatedAt: day("2024-01-02T00:00:00Z")},
	}
	p := DefaultParams()
	p.DurationRange.Max = "150"
	got := Apply(courses, p)
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("got %v, want only A", ids(got))
	}
}

// TestApply_DateEndIncludesWholeDay verifies the end bound covers the full calendar day.
func TestApply_DateEndIncludesWholeDay(t *testing.T) {
	courses := []course.Course{
		{ID: "in", Title: "In", Duration: 1, CreatedAt: day("2024-01-01T23:00:00Z")},
		{ID: "out", Title: "Out", Duration: 1, CreatedAt: day("2024-01-02T00:00:01Z")},
	}
	p := ParseParams(url.Values{"to": {"2024-01-01"}})
	got := Apply(courses, p)
	if !reflect.DeepEqual(ids(got), []string{"in"}) {
		t.Fatalf("got %v, want [in]", ids(got))
	}
}

// TestApply_Filters tests each filter on its own.
func TestApply_Filters(t *testing.T) {
	start := day("2024-01-02T00:00:00Z")
	tests := []struct {
		name string
		mod  func(*Params)
		want []string
	}{
		{"no filters", func(p *Params) {}, []string{"1", "2", "3", "4"}},
		{"status draft", func(p *Params) { p.Status = "draft" }, []string{"1", "3"}},
		{"status all", func(p *Params) { p.Status = StatusAll }, []string{"1", "2", "3", "4"}},
		{"search case-insensitive", func(p *Params) { p.Search = "REACT" }, []string{"1", "3"}},
		{"empty search", func(p *Params) { p.Search = "" }, []string{"1", "2", "3", "4"}},
		{"date start inclusive", func(p *Params) { p.DateRange.Start = &start }, []string{"1", "3", "4"}},
		{"min duration", func(p *Params) { p.DurationRange.Min = "100" }, []string{"1", "3"}},
		{"min and max inclusive", func(p *Params) {
			p.DurationRange.Min = "45"
			p.DurationRange.Max = "90"
		}, []string{"2", "4"}},
		{"unparseable bound ignored", func(p *Params) { p.DurationRange.Max = "abc" }, []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.Mode = ModeManual
			tt.mod(&p)
			if got := ids(Apply(sample(), p)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestApply_FilterConjunction verifies that applying filters in sequence equals applying them together.
func TestApply_FilterConjunction(t *testing.T) {
	byStatus := DefaultParams()
	byStatus.Status = "draft"
	bySearch := DefaultParams()
	bySearch.Search = "React"
	both := DefaultParams()
	both.Status = "draft"
	both.Search = "React"

	sequential := Apply(Apply(sample(), byStatus), bySearch)
	combined := Apply(sample(), both)
	if !reflect.DeepEqual(ids(sequential), ids(combined)) {
		t.Errorf("sequential %v != combined %v", ids(sequential), ids(combined))
	}
	for _, c := range sample() {
		want := c.Status == course.StatusDraft && Matches(c, bySearch)
		if Matches(c, both) != want {
			t.Errorf("Matches(%s) mismatch", c.ID)
		}
	}
}

// TestApply_Sort tests each comparator and direction.
func TestApply_Sort(t *testing.T) {
	tests := []struct {
		name  string
		by    SortField
		order SortOrder
		want  []string
	}{
		{"title asc", SortTitle, SortAsc, []string{"3", "2", "1", "4"}},
		{"title desc", SortTitle, SortDesc, []string{"4", "1", "2", "3"}},
		{"createdAt asc", SortCreatedAt, SortAsc, []string{"2", "3", "1", "4"}},
		{"createdAt desc", SortCreatedAt, SortDesc, []string{"4", "1", "3", "2"}},
		{"duration asc stable", SortDuration, SortAsc, []string{"4", "2", "1", "3"}},
		{"duration desc stable", SortDuration, SortDesc, []string{"1", "3", "2", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.SortBy = tt.by
			p.SortOrder = tt.order
			if got := ids(Apply(sample(), p)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestApply_ManualModeKeepsOrder verifies sorting is suppressed in manual mode.
func TestApply_ManualModeKeepsOrder(t *testing.T) {
	p := DefaultParams()
	p.Mode = ModeManual
	p.SortBy = SortTitle
	if got := ids(Apply(sample(), p)); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("got %v", got)
	}
}

// TestApply_DoesNotMutateInput verifies the input slice is untouched.
func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := ids(in)
	p := DefaultParams()
	p.SortBy = SortTitle
	_ = Apply(in, p)
	if !reflect.DeepEqual(ids(in), before) {
		t.Errorf("input reordered: %v", ids(in))
	}
}

// TestReorder tests moving elements and round-tripping.
func TestReorder(t *testing.T) {
	list := sample()

	moved, ok := Reorder(list, 0, 2)
	if !ok {
		t.Fatal("expected ok")
	}
	if got := ids(moved); !reflect.DeepEqual(got, []string{"2", "3", "1", "4"}) {
		t.Errorf("got %v", got)
	}
	back, ok := Reorder(moved, 2, 0)
	if !ok || !reflect.DeepEqual(ids(back), ids(list)) {
		t.Errorf("round trip got %v, want %v", ids(back), ids(list))
	}
	if !reflect.DeepEqual(ids(list), []string{"1", "2", "3", "4"}) {
		t.Error("input mutated")
	}
}

// TestReorder_OutOfRange verifies out-of-range indices are a no-op.
func TestReorder_OutOfRange(t *testing.T) {
	cases := [][2]int{{-1, 0}, {0, 4}, {4, 0}, {0, -1}}
	for _, c := range cases {
		got, ok := Reorder(sample(), c[0], c[1])
		if ok {
			t.Errorf("Reorder(%d,%d) ok = true", c[0], c[1])
		}
		if !reflect.DeepEqual(ids(got), []string{"1", "2", "3", "4"}) {
			t.Errorf("Reorder(%d,%d) changed list: %v", c[0], c[1], ids(got))
		}
	}
	if _, ok := Reorder(nil, 0, 0); ok {
		t.Error("empty list should reject any index")
	}
}

// TestReorderSubset verifies hidden courses keep their positions.
func TestReorderSubset(t *testing.T) {
	all := sample()
	p := DefaultParams()
	p.Mode = ModeManual
	p.Status = "draft"
	visible := Apply(all, p) // [1 3]

	got, ok := ReorderSubset(all, visible, 1, 0)
	if !ok {
		t.Fatal("expected ok")
	}
	if want := []string{"3", "2", "1", "4"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("got %v, want %v", ids(got), want)
	}
	if got := ids(Apply(got, p)); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Errorf("visible after reorder = %v", got)
	}

	if _, ok := ReorderSubset(all, visible, 0, 5); ok {
		t.Error("out of range should fail")
	}
	stranger := []course.Course{{ID: "zz"}}
	if _, ok := ReorderSubset(all, stranger, 0, 0); ok {
		t.Error("foreign visible course should fail")
	}
}

// TestParseParams tests query parsing and defaults.
func TestParseParams(t *testing.T) {
	p := ParseParams(url.Values{})
	if !reflect.DeepEqual(p, DefaultParams()) {
		t.Errorf("defaults = %+v", p)
	}

	q := url.Values{
		"status": {"published"}, "q": {"go"}, "from": {"2024-01-01"},
		"min": {"10"}, "max": {"x"}, "sort": {"title"}, "dir": {"asc"}, "mode": {"manual"},
	}
	p = ParseParams(q)
	if p.Status != "published" || p.Search != "go" || p.SortBy != SortTitle || p.SortOrder != SortAsc || p.Mode != ModeManual {
		t.Errorf("parsed = %+v", p)
	}
	if p.DateRange.Start == nil || !p.DateRange.Start.Equal(day("2024-01-01T00:00:00Z")) {
		t.Errorf("from = %v", p.DateRange.Start)
	}

	bad := ParseParams(url.Values{"status": {"deleted"}, "sort": {"password"}, "dir": {"DROP"}, "to": {"yesterday"}})
	if bad.Status != StatusAll || bad.SortBy != SortCreatedAt || bad.SortOrder != SortDesc || bad.DateRange.End != nil {
		t.Errorf("invalid values not defaulted: %+v", bad)
	}

	again := ParseParams(p.Encode())
	if again.Status != p.Status || again.SortBy != p.SortBy || again.Mode != p.Mode || !again.DateRange.Start.Equal(*p.DateRange.Start) {
		t.Errorf("Encode round trip = %+v", again)
	}
}
