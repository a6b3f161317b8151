package models

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// Page selects a window of an owner's records, ordered by id.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps the page into the accepted range.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}
