package memstore

import "sync"

// UniqueIndex maps a unique field value to the id that owns it. Reserve is
// an atomic insert-if-absent, so two callers racing for the same value
// cannot both win.
type UniqueIndex struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewUniqueIndex() *UniqueIndex {
	return &UniqueIndex{owners: make(map[string]string)}
}

// Reserve claims key for id. ok is true if key was free or is already
// owned by id; fresh is true only when this call took a free key, which
// tells the caller whether a rollback should Release it.
func (x *UniqueIndex) Reserve(key, id string) (ok, fresh bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if owner, held := x.owners[key]; held {
		return owner == id, false
	}
	x.owners[key] = id
	return true, true
}

// Release frees key only if id still owns it.
func (x *UniqueIndex) Release(key, id string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.owners[key] == id {
		delete(x.owners, key)
	}
}

func (x *UniqueIndex) Owner(key string) (string, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	id, ok := x.owners[key]
	return id, ok
}
