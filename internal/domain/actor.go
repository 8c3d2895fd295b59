package domain

// Actor is whoever issues a request: an Anonymous caller or an authenticated Member.
// Callers switch on the concrete type or use Authenticated; no attribute probing.
type Actor interface {
	Authenticated() bool
}

// Anonymous is an unauthenticated caller.
type Anonymous struct{}

// Authenticated always reports false for anonymous callers.
func (Anonymous) Authenticated() bool { return false }

// Member is an authenticated worker together with its role flags.
type Member struct {
	WorkerID  int64
	Username  string
	Superuser bool
	Staff     bool
	Position  string // Empty when the worker holds no position
}

// Authenticated reports true for members.
func (Member) Authenticated() bool { return true }

// MemberFromWorker builds the actor for an authenticated worker.
func MemberFromWorker(w *Worker) Member {
	m := Member{
		WorkerID:  w.ID,
		Username:  w.Username,
		Superuser: w.IsSuperuser,
		Staff:     w.IsStaff,
	}
	if w.Position != nil {
		m.Position = w.Position.Name
	}
	return m
}

// MemberOf returns the member behind an actor.
// The second result is false for nil, anonymous, or unknown actors.
func MemberOf(a Actor) (Member, bool) {
	switch v := a.(type) {
	case Member:
		return v, v.WorkerID != 0
	case *Member:
		if v == nil {
			return Member{}, false
		}
		return *v, v.WorkerID != 0
	default:
		return Member{}, false
	}
}

// IsAuthenticated reports whether the actor is a non-nil authenticated caller.
func IsAuthenticated(a Actor) bool {
	return a != nil && a.Authenticated()
}
