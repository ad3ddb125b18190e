package cart

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aqibjamil02172004-beep/marketplace/internal/model"
)

// Store holds one owner's cart lines. One logical writer per owner, so no
// locking here.
type Store struct {
	ownerID string
	storage Storage
	lines   []model.CartLine
}

// Open loads the owner's cart from storage. Missing, corrupt or unreadable
// carts start empty.
func Open(ctx context.Context, ownerID string, storage Storage) *Store {
	s := &Store{ownerID: ownerID, storage: storage}

	data, err := storage.Load(ctx, ownerID)
	if err != nil {
		if err != ErrNotFound {
			log.Printf("cart: resetting cart for %s: %v", ownerID, err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.lines); err != nil {
		log.Printf("cart: corrupt cart for %s, resetting: %v", ownerID, err)
		s.lines = nil
	}
	return s
}

// Add merges the line into the cart. An existing itemId has its quantity
// summed and metadata shallow-merged (new keys win); a new line is appended
// with quantity floored at 1.
func (s *Store) Add(ctx context.Context, line model.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range s.lines {
		if s.lines[i].ItemID != line.ItemID {
			continue
		}
		s.lines[i].Quantity += line.Quantity
		if len(line.Metadata) > 0 {
			if s.lines[i].Metadata == nil {
				s.lines[i].Metadata = map[string]string{}
			}
			for k, v := range line.Metadata {
				s.lines[i].Metadata[k] = v
			}
		}
		s.persist(ctx)
		return
	}
	s.lines = append(s.lines, line)
	s.persist(ctx)
}

// Remove deletes the line with the given itemId. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, itemID string) {
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart, e.g. after a successful order placement.
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	if err := s.storage.Delete(ctx, s.ownerID); err != nil {
		log.Printf("cart: clear for %s: %v", s.ownerID, err)
	}
}

func (s *Store) Lines() []model.CartLine {
	return s.lines
}

// Count is the total quantity across all lines.
func (s *Store) Count() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// TotalMinor is the cart total in currency minor units.
func (s *Store) TotalMinor() int64 {
	var total int64
	for _, l := range s.lines {
		total += l.UnitPriceMinor * int64(l.Quantity)
	}
	return total
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err != nil {
		log.Printf("cart: marshal for %s: %v", s.ownerID, err)
		return
	}
	if err := s.storage.Save(ctx, s.ownerID, data); err != nil {
		log.Printf("cart: save for %s: %v", s.ownerID, err)
	}
}
