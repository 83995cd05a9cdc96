package ormlite

// borrowGuard is a runtime dynamic borrow check standing in for the
// compile-time guarantees Rust's RefCell gives the original crate: at most
// one mutable borrow, or any number of shared borrows, never both at once.
// count == 0 is free, count > 0 is N live shared borrows, count == -1 is
// one live exclusive borrow.
type borrowGuard struct {
	count int
}

func (g *borrowGuard) acquireShared() func() {
	if g.count < 0 {
		panic("ormlite: object is already mutably borrowed")
	}
	g.count++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.count--
	}
}

func (g *borrowGuard) acquireExclusive() func() {
	if g.count != 0 {
		panic("ormlite: object is already borrowed")
	}
	g.count = -1
	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.count = 0
	}
}

func (g *borrowGuard) checkUnborrowed() {
	if g.count != 0 {
		panic("ormlite: cannot delete an object with a live borrow")
	}
}

// Handle is a live reference to a cached object within a Transaction. Any
// number of Handles may alias the same (type, id) pair; they all observe
// the same ObjectState and the same borrow guard, because they all point
// at the same entry (§4.6).
//
// A Handle is only meaningful for the lifetime of the Transaction that
// produced it; using one after the transaction's Commit or Rollback is
// undefined, mirroring the original crate's borrow-checker-enforced
// lifetime binding that Go cannot express statically.
type Handle[T any] struct {
	id ObjectId
	e  *entry
}

// ID returns the object's backend-assigned identifier.
func (h Handle[T]) ID() ObjectId { return h.id }

// State reports the entry's current dirty-tracking state.
func (h Handle[T]) State() ObjectState { return h.e.state }

// Borrow yields a shared, read-only view of the object. The returned
// release function must be called when the caller is done; calls after
// the first are no-ops, but forgetting it leaks the borrow for the rest of
// the transaction. Any number of shared borrows may
// be live at once, but none may coexist with a mutable borrow.
func (h Handle[T]) Borrow() (*T, func()) {
	if h.e.state == Removed {
		panic("ormlite: cannot borrow a removed object")
	}
	release := h.e.borrow.acquireShared()
	return any(h.e.obj).(*T), release
}

// BorrowMut yields an exclusive, mutable view of the object and
// immediately marks the entry Modified — before the caller has necessarily
// written anything, matching the original crate's borrow_mut semantics: a
// mutable borrow is a statement of intent to mutate, not proof that a
// mutation occurred (§4.6). At most one mutable borrow, and no shared
// borrow, may be live at a time; violating this panics.
func (h Handle[T]) BorrowMut() (*T, func()) {
	if h.e.state == Removed {
		panic("ormlite: cannot mutably borrow a removed object")
	}
	release := h.e.borrow.acquireExclusive()
	h.e.state = Modified
	return any(h.e.obj).(*T), release
}

// Delete marks the object Removed, consuming the handle's usefulness: a
// commit will issue a DELETE for it, and any later Get for the same (T,
// id) within this transaction will fail with NotFound. It panics if the
// object currently has a live borrow — deleting out from under a borrowed
// reference is a programmer error, not a recoverable condition.
func (h Handle[T]) Delete() {
	h.e.borrow.checkUnborrowed()
	h.e.state = Removed
}
