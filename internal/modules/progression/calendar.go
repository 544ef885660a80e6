package progression

import "time"

const DateLayout = "2006-01-02"

// Calendar compares instants by calendar date in a single location.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Calendar) SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.Location()).Date()
	by, bm, bd := b.In(c.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterday reports whether t falls on the calendar day before now.
func (c Calendar) IsYesterday(t, now time.Time) bool {
	y, m, d := now.In(c.Location()).Date()
	yesterday := time.Date(y, m, d-1, 12, 0, 0, 0, c.Location())
	return c.SameDay(t, yesterday)
}

func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.Location()).Format(DateLayout)
}
