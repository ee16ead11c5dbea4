// Package dialog holds the state primitives of modal workflows: an open/closed
// modal, an ordered multi-selection and a single choice among fixed options.
// Domain dialogs compose them and resolve through a callback on confirm.
package dialog

import (
	"errors"
	"fmt"
)

var (
	ErrClosed          = errors.New("dialog is not open")
	ErrNothingSelected = errors.New("nothing selected")
	ErrUnknownOption   = errors.New("unknown option")
)

// Modal tracks whether a dialog is open.
type Modal struct {
	open bool
}

func (m *Modal) Open()        { m.open = true }
func (m *Modal) Close()       { m.open = false }
func (m *Modal) IsOpen() bool { return m.open }

// Guard returns ErrClosed unless the modal is open.
func (m *Modal) Guard() error {
	if !m.open {
		return ErrClosed
	}
	return nil
}

// Selection is an ordered set of selected keys. The zero value is empty and
// ready to use.
type Selection[K comparable] struct {
	order []K
	set   map[K]struct{}
}

func NewSelection[K comparable](keys ...K) *Selection[K] {
	s := &Selection[K]{}
	s.Select(keys...)
	return s
}

// Select adds keys not yet selected, keeping first-selection order.
func (s *Selection[K]) Select(keys ...K) {
	if s.set == nil {
		s.set = make(map[K]struct{})
	}
	for _, k := range keys {
		if _, ok := s.set[k]; ok {
			continue
		}
		s.set[k] = struct{}{}
		s.order = append(s.order, k)
	}
}

func (s *Selection[K]) Deselect(k K) {
	if _, ok := s.set[k]; !ok {
		return
	}
	delete(s.set, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips k and reports whether it is selected afterwards.
func (s *Selection[K]) Toggle(k K) bool {
	if s.Has(k) {
		s.Deselect(k)
		return false
	}
	s.Select(k)
	return true
}

func (s *Selection[K]) Has(k K) bool {
	_, ok := s.set[k]
	return ok
}

func (s *Selection[K]) Len() int { return len(s.order) }

// Keys returns a copy of the selected keys in selection order.
func (s *Selection[K]) Keys() []K {
	return append([]K(nil), s.order...)
}

func (s *Selection[K]) Clear() {
	s.order = nil
	s.set = nil
}

// RequireAny returns ErrNothingSelected for an empty selection.
func (s *Selection[K]) RequireAny() error {
	if s.Len() == 0 {
		return ErrNothingSelected
	}
	return nil
}

// Choice is a single pick among a fixed option set.
type Choice[A comparable] struct {
	options []A
	value   A
	chosen  bool
}

func NewChoice[A comparable](options ...A) *Choice[A] {
	return &Choice[A]{options: options}
}

// Set picks a. Options outside the set are rejected and leave the choice
// unchanged.
func (c *Choice[A]) Set(a A) error {
	for _, o := range c.options {
		if o == a {
			c.value = a
			c.chosen = true
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrUnknownOption, a)
}

func (c *Choice[A]) Value() (A, bool) { return c.value, c.chosen }

func (c *Choice[A]) Options() []A { return append([]A(nil), c.options...) }

func (c *Choice[A]) Reset() {
	var zero A
	c.value = zero
	c.chosen = false
}
