// Package registry holds the in-memory slot set for the section currently
// being edited. It is refreshed wholesale from the registrar backend; the
// local mutations exist only as optimistic echoes so the grid can render
// without flicker between a confirmed write and the authoritative reload.
package registry

import (
	"fmt"
	"sync"

	"github.com/campuskit/section-scheduler/internal/models"
)

// Registry is the sole in-memory owner of slot instances for one section.
type Registry struct {
	mu        sync.RWMutex
	sectionID string
	slots     []models.Slot
	index     map[string]int
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Replace swaps the entire slot set for a section. The refresh is
// all-or-nothing: a proposed (id-less) or duplicate entry rejects the whole
// batch and leaves the previous contents untouched.
func (r *Registry) Replace(sectionID string, slots []models.Slot) error {
	index := make(map[string]int, len(slots))
	for i, slot := range slots {
		if !slot.Saved() {
			return fmt.Errorf("refusing to store proposed slot for section %s", sectionID)
		}
		if _, dup := index[slot.ID]; dup {
			return fmt.Errorf("duplicate slot id %s for section %s", slot.ID, sectionID)
		}
		index[slot.ID] = i
	}

	copied := make([]models.Slot, len(slots))
	copy(copied, slots)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sectionID = sectionID
	r.slots = copied
	r.index = index
	return nil
}

// SectionID returns the section the registry currently holds.
func (r *Registry) SectionID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sectionID
}

// Slots returns a copy of the current slot set.
func (r *Registry) Slots() []models.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Get looks up a slot by id.
func (r *Registry) Get(id string) (models.Slot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return models.Slot{}, false
	}
	return r.slots[i], true
}

// Add inserts a confirmed slot as an optimistic echo.
func (r *Registry) Add(slot models.Slot) error {
	if !slot.Saved() {
		return fmt.Errorf("refusing to store proposed slot")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.index[slot.ID]; dup {
		return fmt.Errorf("slot %s already registered", slot.ID)
	}
	r.index[slot.ID] = len(r.slots)
	r.slots = append(r.slots, slot)
	return nil
}

// Update applies a patch to a held slot.
func (r *Registry) Update(id string, patch models.SlotPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("slot %s not registered", id)
	}
	slot := r.slots[i]
	if patch.Day != nil {
		slot.Day = *patch.Day
	}
	if patch.StartTime != nil {
		slot.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		slot.EndTime = *patch.EndTime
	}
	if patch.ProfessorID != nil {
		slot.ProfessorID = patch.ProfessorID
	}
	if patch.Room != nil {
		slot.Room = patch.Room
	}
	r.slots[i] = slot
	return nil
}

// Remove drops a slot by id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("slot %s not registered", id)
	}
	r.slots = append(r.slots[:i], r.slots[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.slots); j++ {
		r.index[r.slots[j].ID] = j
	}
	return nil
}

// Len reports the number of held slots.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}
