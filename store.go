package furnish

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// quarterTurn is the rotate command step.
const quarterTurn = math.Pi / 2

// Store is the canonical furniture collection. Every mutation replaces the
// whole slice, so a slice returned by Items is a stable snapshot that later
// commands never modify.
type Store struct {
	items   []FurnitureItem
	version uint64
	newID   func() string
}

// NewStore creates an empty store using newID for duplicated items.
func NewStore(newID func() string) *Store {
	return &Store{newID: newID}
}

// Items returns the current snapshot. The returned slice MUST NOT be mutated.
func (s *Store) Items() []FurnitureItem {
	return s.items
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Version increases by one with every successful mutation.
func (s *Store) Version() uint64 {
	return s.version
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (FurnitureItem, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return FurnitureItem{}, false
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) commit(items []FurnitureItem) {
	s.items = items
	s.version++
}

// validate checks the enumerated fields of an item.
func validateItem(item FurnitureItem) error {
	if !item.Size.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSize, item.Size)
	}
	if _, err := ParseColor(item.Color); err != nil {
		return err
	}
	return nil
}

// Add appends item. An empty ID is replaced by a fresh one. The stored copy
// is returned.
func (s *Store) Add(item FurnitureItem) (FurnitureItem, error) {
	if item.ID == "" {
		item.ID = s.newID()
	}
	if s.index(item.ID) >= 0 {
		return FurnitureItem{}, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
	}
	if err := validateItem(item); err != nil {
		return FurnitureItem{}, err
	}
	item.Rotation = wrapAngle(item.Rotation)
	item.IsEditVisible = false
	next := make([]FurnitureItem, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.commit(append(next, item))
	return item, nil
}

// Duplicate appends a copy of the item with a new id, displaced by offset.
func (s *Store) Duplicate(id string, offset mgl64.Vec3) (FurnitureItem, error) {
	src, ok := s.Get(id)
	if !ok {
		return FurnitureItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	dup := src
	dup.ID = s.newID()
	for s.index(dup.ID) >= 0 {
		dup.ID = s.newID()
	}
	dup.Position = src.Position.Add(offset)
	next := make([]FurnitureItem, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.commit(append(next, dup))
	return dup, nil
}

// Remove deletes the item with the given id.
func (s *Store) Remove(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	next := make([]FurnitureItem, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.commit(next)
	return nil
}

// update replaces the item with id by fn(item).
func (s *Store) update(id string, fn func(FurnitureItem) FurnitureItem) (FurnitureItem, error) {
	i := s.index(id)
	if i < 0 {
		return FurnitureItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	next := make([]FurnitureItem, len(s.items))
	copy(next, s.items)
	next[i] = fn(next[i])
	s.commit(next)
	return next[i], nil
}

// SetColor changes an item's color. Invalid colors are rejected.
func (s *Store) SetColor(id, color string) (FurnitureItem, error) {
	if _, err := ParseColor(color); err != nil {
		return FurnitureItem{}, err
	}
	return s.update(id, func(it FurnitureItem) FurnitureItem {
		it.Color = color
		return it
	})
}

// SetSize changes an item's size tag. Invalid sizes are rejected.
func (s *Store) SetSize(id string, size Size) (FurnitureItem, error) {
	if !size.Valid() {
		return FurnitureItem{}, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	return s.update(id, func(it FurnitureItem) FurnitureItem {
		it.Size = size
		return it
	})
}

// SetPosition moves an item.
func (s *Store) SetPosition(id string, pos mgl64.Vec3) (FurnitureItem, error) {
	return s.update(id, func(it FurnitureItem) FurnitureItem {
		it.Position = pos
		return it
	})
}

// Rotate advances an item's rotation by 90°, wrapping at 360°.
func (s *Store) Rotate(id string) (FurnitureItem, error) {
	return s.update(id, func(it FurnitureItem) FurnitureItem {
		it.Rotation = nextQuarterTurn(it.Rotation)
		return it
	})
}

// nextQuarterTurn adds 90° to r. Multiples of 90° stay exact so four turns
// return to the starting value.
func nextQuarterTurn(r float64) float64 {
	k := math.Round(r / quarterTurn)
	if math.Abs(r-k*quarterTurn) < 1e-9 {
		return wrapAngle(float64((int(k)+1)%4) * quarterTurn)
	}
	return wrapAngle(r + quarterTurn)
}

// ItemLabel returns the side panel label of an item: its name followed by
// its 1-based position among items of the same type.
func ItemLabel(items []FurnitureItem, id string) string {
	n := 0
	for _, it := range items {
		if it.ID == id {
			for _, other := range items {
				if other.Type == it.Type {
					n++
				}
				if other.ID == id {
					break
				}
			}
			return fmt.Sprintf("%s %d", it.Name, n)
		}
	}
	return ""
}
