// Package selection holds the client-local multi-select state shared by
// the discovery feed, the conversation list, and open threads: long-press
// enters selection mode, taps toggle membership, and a confirmed batch
// action either applies to every selected item or leaves local state
// untouched.
package selection

// Manager is the two-state store (idle/selecting) behind one selectable
// list. Not safe for concurrent use; the client is single-threaded and
// each view owns its own Manager.
type Manager struct {
	selecting bool
	selected  map[string]struct{}
	order     []string
}

func NewManager() *Manager {
	return &Manager{selected: make(map[string]struct{})}
}

// Selecting reports whether selection mode is active.
func (m *Manager) Selecting() bool {
	return m.selecting
}

// LongPress enters selection mode seeded with exactly {id}. A long-press
// while already selecting behaves like a tap.
func (m *Manager) LongPress(id string) {
	if m.selecting {
		m.toggle(id)
		return
	}
	m.selecting = true
	m.selected = map[string]struct{}{id: {}}
	m.order = []string{id}
}

// Tap toggles membership while selecting and reports whether the tap was
// consumed. A false return means the caller should run the item's normal
// action instead.
func (m *Manager) Tap(id string) bool {
	if !m.selecting {
		return false
	}
	m.toggle(id)
	return true
}

func (m *Manager) toggle(id string) {
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		for i, existing := range m.order {
			if existing == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return
	}
	m.selected[id] = struct{}{}
	m.order = append(m.order, id)
}

// IsSelected reports membership.
func (m *Manager) IsSelected(id string) bool {
	_, ok := m.selected[id]
	return ok
}

// Selected returns the selected ids in selection order.
func (m *Manager) Selected() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Count returns the number of selected items.
func (m *Manager) Count() int {
	return len(m.selected)
}

// Cancel clears the selection and leaves selection mode with no side
// effects.
func (m *Manager) Cancel() {
	m.reset()
}

// Confirm runs apply over the selected ids. The selection is cleared and
// mode returns to idle only when apply succeeds; on error everything stays
// as it was so the user can retry or cancel.
func (m *Manager) Confirm(apply func(ids []string) error) error {
	if !m.selecting {
		return nil
	}
	ids := m.Selected()
	if len(ids) > 0 && apply != nil {
		if err := apply(ids); err != nil {
			return err
		}
	}
	m.reset()
	return nil
}

func (m *Manager) reset() {
	m.selecting = false
	m.selected = make(map[string]struct{})
	m.order = nil
}
