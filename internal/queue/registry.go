package queue

import "github.com/google/uuid"

// registry holds the identities currently owned by a worker.
type registry map[uuid.UUID]struct{}

func (r registry) tryMark(id uuid.UUID) bool {
	if _, found := r[id]; found {
		return false
	}
	r[id] = struct{}{}
	return true
}

func (r registry) unmark(id uuid.UUID) {
	delete(r, id)
}

func (r registry) contains(id uuid.UUID) bool {
	_, found := r[id]
	return found
}
