package visitquery

import (
	"context"
	"sync"

	"tarlatakip/pkg/latest"
)

// State is what a browsing client renders.
type State struct {
	Visits  []VisitView `json:"visits"`
	Loading bool        `json:"loading"`
	Error   *string     `json:"error"`
	Page    int         `json:"page"`
	HasNext bool        `json:"has_next"`
	Total   int         `json:"total"`
}

func stateOf(p *Pager[VisitView], loading bool, errMsg string) State {
	st := State{
		Visits:  p.Page(),
		Loading: loading,
		Page:    p.Index(),
		HasNext: p.HasNext(),
		Total:   p.Total(),
	}
	if errMsg != "" {
		st.Error = &errMsg
	}
	return st
}

// FailedState is what a client shows after a failed load: no visits, not
// loading, and the failure message.
func FailedState(err error) State {
	p := NewPager[VisitView](VisitsPageSize)
	msg := "load failed"
	if err != nil {
		msg = err.Error()
	}
	return stateOf(p, false, msg)
}

// Session holds one client's filters and loaded visits. Loads run under a
// latest-wins sequence: a load that finishes after a newer one started is
// discarded. Methods are safe for concurrent use.
type Session struct {
	svc   *Service
	owner string
	seq   latest.Sequence

	mu       sync.Mutex
	farmerID string
	fieldID  string
	dateFrom string
	dateTo   string
	query    string
	loaded   []VisitView
	pager    *Pager[VisitView]
	loading  bool
	err      string
}

// Load fetches the visits for the current scope and refilters them. When
// the scoped field turns out not to exist, the field scope is cleared and
// the load repeated.
func (s *Session) Load(ctx context.Context) State {
	for {
		s.mu.Lock()
		t := s.seq.Begin()
		scope := Scope{FarmerID: s.farmerID, FieldID: s.fieldID}
		s.loading = true
		s.mu.Unlock()

		loaded, err := s.svc.Load(ctx, s.owner, scope, 0)

		s.mu.Lock()
		if !t.Current() {
			st := s.stateLocked()
			s.mu.Unlock()
			return st
		}
		s.loading = false
		if err != nil {
			s.loaded = nil
			s.err = err.Error()
		} else {
			s.err = ""
			s.loaded = loaded.Views
			if loaded.FieldMissing && s.fieldID != "" {
				s.fieldID = ""
				s.mu.Unlock()
				continue
			}
		}
		s.refilterLocked()
		st := s.stateLocked()
		s.mu.Unlock()
		return st
	}
}

// SetFarmer changes the farmer scope, clears the field scope and reloads.
func (s *Session) SetFarmer(ctx context.Context, farmerID string) State {
	s.mu.Lock()
	s.farmerID = farmerID
	s.fieldID = ""
	s.mu.Unlock()
	return s.Load(ctx)
}

func (s *Session) SetField(ctx context.Context, fieldID string) State {
	s.mu.Lock()
	s.fieldID = fieldID
	s.mu.Unlock()
	return s.Load(ctx)
}

// SetDateFrom sets the first day of the window. A from day after the to day
// moves the to day along. A malformed day is rejected and leaves the
// session untouched.
func (s *Session) SetDateFrom(day string) (State, error) {
	day, err := s.normalizeDay(day)
	if err != nil {
		return s.State(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dateFrom = day
	if day != "" && s.dateTo != "" && day > s.dateTo {
		s.dateTo = day
	}
	s.refilterLocked()
	return s.stateLocked(), nil
}

// SetDateTo sets the last day of the window. A to day before the from day
// moves the from day along.
func (s *Session) SetDateTo(day string) (State, error) {
	day, err := s.normalizeDay(day)
	if err != nil {
		return s.State(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dateTo = day
	if day != "" && s.dateFrom != "" && day < s.dateFrom {
		s.dateFrom = day
	}
	s.refilterLocked()
	return s.stateLocked(), nil
}

func (s *Session) SetQuery(q string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.refilterLocked()
	return s.stateLocked()
}

func (s *Session) Next() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pager.Next()
	return s.stateLocked()
}

func (s *Session) Prev() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pager.Prev()
	return s.stateLocked()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// DateRange returns the current window as entered, empty when unset.
func (s *Session) DateRange() (from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateFrom, s.dateTo
}

// Scope returns the current farmer and field scope.
func (s *Session) Scope() Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Scope{FarmerID: s.farmerID, FieldID: s.fieldID}
}

// Export renders the page currently shown.
func (s *Session) Export(f Format) (*Artifact, error) {
	s.mu.Lock()
	page := append([]VisitView(nil), s.pager.Page()...)
	s.mu.Unlock()
	return s.svc.exporter.Export(page, f)
}

func (s *Session) normalizeDay(day string) (string, error) {
	if day == "" {
		return "", nil
	}
	t, err := DayStart(day, s.svc.loc)
	if err != nil {
		return "", err
	}
	return t.Format(DayLayout), nil
}

// refilterLocked reapplies the criteria and returns to the first page.
func (s *Session) refilterLocked() {
	from, to, err := ParseBounds(s.dateFrom, s.dateTo, s.svc.loc)
	if err != nil {
		// stored days are normalized on entry
		from, to = nil, nil
	}
	c := Criteria{FarmerID: s.farmerID, FieldID: s.fieldID, From: from, To: to, Query: s.query}
	s.pager.Reset(Apply(s.loaded, c))
}

func (s *Session) stateLocked() State {
	return stateOf(s.pager, s.loading, s.err)
}
