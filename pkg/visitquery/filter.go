package visitquery

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the form of date bounds entered by users.
const DayLayout = "2006-01-02"

// Criteria narrows a loaded visit set. Zero values disable a criterion.
type Criteria struct {
	FarmerID string
	FieldID  string
	// From and To are inclusive instants, see DayStart and DayEnd.
	From  *time.Time
	To    *time.Time
	Query string
}

// DayStart is 00:00:00.000 of day in loc.
func DayStart(day string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, day)
	}
	return t, nil
}

// DayEnd is 23:59:59.999 of day in loc.
func DayEnd(day string, loc *time.Location) (time.Time, error) {
	t, err := DayStart(day, loc)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc), nil
}

// ParseBounds turns the optional day strings into inclusive instants. An
// empty string leaves its bound unset.
func ParseBounds(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var lo, hi *time.Time
	if strings.TrimSpace(from) != "" {
		t, err := DayStart(from, loc)
		if err != nil {
			return nil, nil, err
		}
		lo = &t
	}
	if strings.TrimSpace(to) != "" {
		t, err := DayEnd(to, loc)
		if err != nil {
			return nil, nil, err
		}
		hi = &t
	}
	return lo, hi, nil
}

// Apply keeps the views matching every criterion, preserving their order.
// Scope is checked first, then the date window, then the folded search
// text.
func Apply(views []VisitView, c Criteria) []VisitView {
	q := Fold(strings.TrimSpace(c.Query))
	var fromMs, toMs int64
	if c.From != nil {
		fromMs = c.From.UnixMilli()
	}
	if c.To != nil {
		toMs = c.To.UnixMilli()
	}

	out := make([]VisitView, 0, len(views))
	for _, v := range views {
		if c.FarmerID != "" && v.FarmerID != c.FarmerID {
			continue
		}
		if c.FieldID != "" && v.FieldID != c.FieldID {
			continue
		}
		if c.From != nil || c.To != nil {
			ms := v.Millis()
			if c.From != nil && ms < fromMs {
				continue
			}
			if c.To != nil && ms > toMs {
				continue
			}
		}
		if q != "" && !matches(&v, q) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matches(v *VisitView, folded string) bool {
	parts := v.searchParts()
	for i, p := range parts {
		parts[i] = Fold(p)
	}
	return strings.Contains(strings.Join(parts, " "), folded)
}
