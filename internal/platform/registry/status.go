package registry

import "fmt"

// Status is the active/inactive flag shared by every registry record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Toggle flips between active and inactive. Any other value becomes active.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Label is the badge text shown on list rows.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Ativo"
	case StatusInactive:
		return "Inativo"
	}
	return string(s)
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return st, nil
}
