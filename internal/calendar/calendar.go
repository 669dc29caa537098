// Package calendar derives the missing-timestamp calendar shown on the
// forget-time page: which days of the displayed month are actionable,
// pending or complete, based on the backend's trailing 30-day entry list.
package calendar

import "time"

const DayFormat = "2006-01-02"

type Status string

const (
	StatusMissing Status = "missing"
	StatusPending Status = "pending"
	StatusNormal  Status = "normal"
)

// Entry is one (date, timestamp type) pair the backend reported for the
// rolling window. A date may carry several entries, one per type.
type Entry struct {
	Date   string `json:"date"`
	Type   string `json:"type"`
	Status Status `json:"status"`
}

// Window is the fixed actionable range: 30 calendar days ending today.
// Browsing the calendar is unbounded; only the window is actionable.
type Window struct {
	Start time.Time
	End   time.Time
}

func ActionWindow(today time.Time) Window {
	day := truncate(today)
	return Window{Start: day.AddDate(0, 0, -29), End: day}
}

func (w Window) Contains(day time.Time) bool {
	day = truncate(day)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Buckets groups entries by calendar date, deduplicating (date, type) pairs;
// the first occurrence wins. Entries with unparseable dates are dropped.
type Buckets map[string][]Entry

func Bucket(entries []Entry) Buckets {
	buckets := Buckets{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if _, err := time.Parse(DayFormat, entry.Date); err != nil {
			continue
		}
		key := entry.Date + "|" + entry.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		buckets[entry.Date] = append(buckets[entry.Date], entry)
	}
	return buckets
}

type DayKind int

const (
	// DayDisabled is outside the actionable window.
	DayDisabled DayKind = iota
	// DayActionable has at least one missing entry; selecting it populates
	// the submission form.
	DayActionable
	// DayPending has pending entries and no missing ones; selection is
	// informational only.
	DayPending
	// DayComplete has no entries inside the window.
	DayComplete
)

type DayState struct {
	Date time.Time
	Kind DayKind
	// MissingTypes restricts the form's type options when the day is
	// actionable, in entry order; the first is auto-selected.
	MissingTypes []string
}

// StateFor derives a day's visual and interactive state purely from the
// window and the bucketed entries.
func StateFor(day time.Time, buckets Buckets, window Window) DayState {
	day = truncate(day)
	state := DayState{Date: day, Kind: DayDisabled}
	if !window.Contains(day) {
		return state
	}

	var missing []string
	pending := false
	for _, entry := range buckets[day.Format(DayFormat)] {
		switch entry.Status {
		case StatusMissing:
			missing = append(missing, entry.Type)
		case StatusPending:
			pending = true
		}
	}

	switch {
	case len(missing) > 0:
		state.Kind = DayActionable
		state.MissingTypes = missing
	case pending:
		state.Kind = DayPending
	default:
		state.Kind = DayComplete
	}
	return state
}

// ViewState is the process-local calendar UI state: the displayed month and
// the selected day. It resets implicitly with the page.
type ViewState struct {
	cursor   time.Time
	selected *time.Time
}

func NewViewState(today time.Time) *ViewState {
	return &ViewState{cursor: monthStart(today)}
}

func (v *ViewState) Cursor() time.Time { return v.cursor }

func (v *ViewState) Selected() (time.Time, bool) {
	if v.selected == nil {
		return time.Time{}, false
	}
	return *v.selected, true
}

func (v *ViewState) Select(day time.Time) {
	day = truncate(day)
	v.selected = &day
}

func (v *ViewState) ClearSelection() { v.selected = nil }

// NextMonth and PrevMonth move the display cursor by whole months with no
// bound in either direction.
func (v *ViewState) NextMonth() { v.cursor = v.cursor.AddDate(0, 1, 0) }
func (v *ViewState) PrevMonth() { v.cursor = v.cursor.AddDate(0, -1, 0) }

// MonthDays lists every day of the displayed month.
func (v *ViewState) MonthDays() []time.Time {
	first := v.cursor
	next := first.AddDate(0, 1, 0)
	days := make([]time.Time, 0, 31)
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// MonthStates renders the displayed month as one state per day.
func (v *ViewState) MonthStates(buckets Buckets, window Window) []DayState {
	days := v.MonthDays()
	states := make([]DayState, 0, len(days))
	for _, day := range days {
		states = append(states, StateFor(day, buckets, window))
	}
	return states
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
