package views

import "time"

// SortField selects the sort key for the expense table.
type SortField string

const (
	SortDate     SortField = "date"
	SortAmount   SortField = "amount"
	SortCategory SortField = "category"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// State is the ephemeral filter/sort selection for the table view. It
// is never persisted.
type State struct {
	Search   string
	Category string    // empty means all categories
	From     time.Time // zero means unbounded
	To       time.Time // zero means unbounded
	Field    SortField
	Dir      Direction
}

// NewState returns the default view: most recent expenses first.
func NewState() State {
	return State{Field: SortDate, Dir: Desc}
}

// ToggleSort flips the direction when the field is already active, and
// otherwise switches to the new field starting descending.
func (s *State) ToggleSort(field SortField) {
	if s.Field == field {
		if s.Dir == Asc {
			s.Dir = Desc
		} else {
			s.Dir = Asc
		}
		return
	}
	s.Field = field
	s.Dir = Desc
}
