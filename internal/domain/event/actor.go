package event

// Actor is the principal a request runs as.
// The zero value is an anonymous visitor.
type Actor struct {
	UserID        int64
	Username      string
	IsStaff       bool
	Authenticated bool
}

// Anonymous returns the unauthenticated actor
func Anonymous() Actor {
	return Actor{}
}

// NewActor returns an authenticated actor
func NewActor(userID int64, username string, isStaff bool) Actor {
	return Actor{
		UserID:        userID,
		Username:      username,
		IsStaff:       isStaff,
		Authenticated: true,
	}
}

// CanView permits public events, the creator's own events and everything for staff.
func (a Actor) CanView(e *Event) bool {
	if e.Public || a.IsStaff {
		return true
	}
	return a.Authenticated && e.IsOwnedBy(a.UserID)
}

// CanModify permits staff on any event and regular users on their own.
// File uploads and file deletions follow the same rule.
func (a Actor) CanModify(e *Event) bool {
	if !a.Authenticated {
		return false
	}
	return a.IsStaff || e.IsOwnedBy(a.UserID)
}

// Scope returns the visibility scope used to filter queries for this actor
func (a Actor) Scope() Scope {
	switch {
	case a.IsStaff:
		return Scope{All: true}
	case a.Authenticated:
		return Scope{OwnerID: a.UserID, IncludePublic: true}
	default:
		return Scope{IncludePublic: true}
	}
}

// ModifyScope returns the scope of events this actor may update or delete
func (a Actor) ModifyScope() Scope {
	switch {
	case a.IsStaff:
		return Scope{All: true}
	case a.Authenticated:
		return Scope{OwnerID: a.UserID}
	default:
		return Scope{None: true}
	}
}

// Scope restricts which events a query may return.
type Scope struct {
	All           bool
	None          bool
	IncludePublic bool
	// OwnerID matches events created by the user; zero disables the match.
	OwnerID int64
}

// Allows evaluates the scope against a loaded event
func (s Scope) Allows(e *Event) bool {
	switch {
	case s.None:
		return false
	case s.All:
		return true
	case s.IncludePublic && e.Public:
		return true
	case s.OwnerID != 0 && e.IsOwnedBy(s.OwnerID):
		return true
	}
	return false
}
