package event

import (
	"context"

	"github.com/eventi/backend/internal/domain/shared"
)

// EventRepository defines the interface for event persistence.
// Every read that takes a Scope only returns events the scope allows.
type EventRepository interface {
	// FindByID loads an event with its sector, attachments and user names
	FindByID(ctx context.Context, id int64) (*Event, error)

	// FindByIDInScope loads an event only when the scope allows it,
	// otherwise it returns shared.ErrNotFound
	FindByIDInScope(ctx context.Context, id int64, scope Scope) (*Event, error)

	// List returns one page of events matching the query
	List(ctx context.Context, scope Scope, query ListQuery) (shared.Paginated[Event], error)

	// FindForReport returns the events of the report selection, ordered by start date
	FindForReport(ctx context.Context, scope Scope, query ReportQuery) ([]Event, error)

	// ReportYears returns the distinct start years of the report selection, ascending
	ReportYears(ctx context.Context, scope Scope, query ReportQuery) ([]int, error)

	// FindByIDs returns the listed events the scope allows, ordered by start date
	FindByIDs(ctx context.Context, scope Scope, ids []int64) ([]Event, error)

	// FindPublic returns every public event, newest start date first
	FindPublic(ctx context.Context) ([]Event, error)

	// FindAll returns every event ordered by id
	FindAll(ctx context.Context) ([]Event, error)

	// Create inserts a new event and assigns its ID
	Create(ctx context.Context, e *Event) error

	// Update saves the editable fields of an existing event
	Update(ctx context.Context, e *Event) error

	// Delete removes an event; its attachments are removed with it
	Delete(ctx context.Context, id int64) error
}

// SettoreRepository defines the interface for sector persistence
type SettoreRepository interface {
	// FindAll returns every sector ordered by name
	FindAll(ctx context.Context) ([]Settore, error)

	// FindByID finds a sector by ID
	FindByID(ctx context.Context, id int64) (*Settore, error)

	// FindByNome finds a sector by its unique name
	FindByNome(ctx context.Context, nome string) (*Settore, error)

	// Create inserts a new sector
	Create(ctx context.Context, s *Settore) error
}

// EventFileRepository defines the interface for attachment persistence
type EventFileRepository interface {
	// FindByID finds an attachment of the given event
	FindByID(ctx context.Context, eventID, fileID int64) (*EventFile, error)

	// FindByEvent returns the attachments of an event, newest first
	FindByEvent(ctx context.Context, eventID int64) ([]EventFile, error)

	// FindAll returns every attachment ordered by id
	FindAll(ctx context.Context) ([]EventFile, error)

	// Create inserts a new attachment
	Create(ctx context.Context, f *EventFile) error

	// Delete removes an attachment by ID
	Delete(ctx context.Context, id int64) error
}
