// Copyright 2026 The go-forest Authors
// SPDX-License-Identifier: Apache-2.0

package forest

// CategoryStore holds the membership sets of categorical splits too wide for
// an inline node mask. Sets are bit-packed into one shared buffer; Add
// returns a handle that StoredCategorySplit nodes carry in Index.
//
// A store is built once before inference and never mutated during it, so
// concurrent kernel reads need no locking.
type CategoryStore struct {
	bits []byte
	sets []categorySet
}

type categorySet struct {
	base  uint32 // first bit inside bits
	width uint32 // one past the highest representable category
}

// Add appends a membership set covering categories in [0, width) and returns
// its handle. Categories at or beyond width are dropped.
func (s *CategoryStore) Add(categories []uint32, width uint32) uint32 {
	base := uint32(len(s.bits)) * 8
	s.bits = append(s.bits, make([]byte, (width+7)/8)...)
	for _, c := range categories {
		if c >= width {
			continue
		}
		pos := base + c
		s.bits[pos/8] |= 1 << (pos % 8)
	}
	s.sets = append(s.sets, categorySet{base: base, width: width})
	return uint32(len(s.sets) - 1)
}

// Contains reports whether category is a member of the set behind handle.
// Unknown handles and categories outside the set's width are non-members.
func (s *CategoryStore) Contains(handle, category uint32) bool {
	if s == nil || handle >= uint32(len(s.sets)) {
		return false
	}
	cs := s.sets[handle]
	if category >= cs.width {
		return false
	}
	pos := cs.base + category
	return s.bits[pos/8]&(1<<(pos%8)) != 0
}

// Len returns the number of sets in the store.
func (s *CategoryStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sets)
}
