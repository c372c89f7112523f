package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Flash messages of the event pages
const (
	MsgEventCreated    = "Evento creato con successo."
	MsgEventUpdated    = "Evento aggiornato con successo."
	MsgEventDeleted    = "Evento eliminato con successo."
	MsgViewForbidden   = "Non hai l'autorizzazione per visualizzare questo evento."
	MsgEventNotFound   = "Evento non trovato."
	MsgUploadForbidden = "Non hai i permessi per aggiungere file a questo evento."
)

// ErrViewForbidden is returned when the actor may not see an existing event
var ErrViewForbidden = shared.NewDomainError("FORBIDDEN", MsgViewForbidden)

// ChoiceProvider serves the cached choice lists
type ChoiceProvider interface {
	Categorie(ctx context.Context) ([]event.Choice, error)
	Settori(ctx context.Context) ([]event.Settore, error)
}

// EventService handles the event pages and the public listing
type EventService struct {
	events  event.EventRepository
	settori event.SettoreRepository
	files   *FileService
	choices ChoiceProvider
	storage shared.ObjectStorage
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(
	events event.EventRepository,
	settori event.SettoreRepository,
	files *FileService,
	choices ChoiceProvider,
	storage shared.ObjectStorage,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		events:  events,
		settori: settori,
		files:   files,
		choices: choices,
		storage: storage,
		logger:  logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *EventService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// List returns one page of the events the actor may see
func (s *EventService) List(ctx context.Context, actor event.Actor, query event.ListQuery) (shared.Paginated[event.Event], error) {
	query = query.Normalized()
	page, err := s.events.List(ctx, actor.Scope(), query)
	if err != nil {
		return shared.Paginated[event.Event]{}, fmt.Errorf("failed to list events: %w", err)
	}
	return page, nil
}

// Get loads an event for the detail page.
// It returns ErrViewForbidden when the event exists but is not visible to the actor.
func (s *EventService) Get(ctx context.Context, actor event.Actor, id int64) (*event.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(e) {
		s.logger.Info("Event view denied",
			zap.Int64("event_id", id),
			zap.Int64("user_id", actor.UserID))
		return nil, ErrViewForbidden
	}
	return e, nil
}

// GetForModify loads an event the actor may update or delete.
// Events outside the actor's scope are reported as not found.
func (s *EventService) GetForModify(ctx context.Context, actor event.Actor, id int64) (*event.Event, error) {
	if !actor.Authenticated {
		return nil, shared.ErrUnauthorized
	}
	return s.events.FindByIDInScope(ctx, id, actor.ModifyScope())
}

// Create validates and stores a new event owned by the actor.
// The optional file is attached after the event is stored.
func (s *EventService) Create(ctx context.Context, actor event.Actor, input EventInput) (*event.Event, error) {
	if !actor.Authenticated {
		return nil, shared.ErrUnauthorized
	}
	if err := s.checkSettore(ctx, input.Details); err != nil {
		return nil, err
	}

	e, err := event.NewEvent(input.Details, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.Int64("event_id", e.ID),
		zap.String("username", actor.Username))
	s.metrics.RecordEventCreated(ctx, string(e.Categoria), string(e.Office))

	return e, s.attach(ctx, actor, e, input.File)
}

// Update replaces the editable fields of an event in the actor's scope.
// The optional file is attached after the event is saved.
func (s *EventService) Update(ctx context.Context, actor event.Actor, id int64, input EventInput) (*event.Event, error) {
	e, err := s.GetForModify(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSettore(ctx, input.Details); err != nil {
		return nil, err
	}
	if err := e.Update(input.Details, actor.UserID); err != nil {
		return nil, err
	}
	if err := s.events.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info("Event updated",
		zap.Int64("event_id", e.ID),
		zap.String("username", actor.Username))

	return e, s.attach(ctx, actor, e, input.File)
}

// attach stores the file submitted with the event form, titled with its name
func (s *EventService) attach(ctx context.Context, actor event.Actor, e *event.Event, file *UploadInput) error {
	if file == nil || file.Body == nil {
		return nil
	}
	upload := *file
	if upload.Title == "" {
		upload.Title = upload.Filename
	}
	f, err := s.files.store(ctx, actor, e.ID, upload)
	if err != nil {
		return err
	}
	e.Files = append([]event.EventFile{*f}, e.Files...)
	return nil
}

// Delete removes an event in the actor's scope.
// Stored attachments are removed first; a failure there is only logged.
func (s *EventService) Delete(ctx context.Context, actor event.Actor, id int64) error {
	e, err := s.GetForModify(ctx, actor, id)
	if err != nil {
		return err
	}

	for _, f := range e.Files {
		if err := s.storage.Delete(ctx, f.Key); err != nil {
			s.logger.Warn("Failed to delete attachment from storage",
				zap.Int64("event_id", e.ID),
				zap.String("key", f.Key),
				zap.Error(err))
		}
	}

	if err := s.events.Delete(ctx, e.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.logger.Info("Event deleted",
		zap.Int64("event_id", e.ID),
		zap.String("username", actor.Username))
	s.metrics.RecordEventDeleted(ctx)
	return nil
}

// Public returns the public events in their API shape
func (s *EventService) Public(ctx context.Context) ([]PublicEvent, error) {
	events, err := s.events.FindPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load public events: %w", err)
	}

	out := make([]PublicEvent, 0, len(events))
	for i := range events {
		out = append(out, ToPublicEvent(&events[i]))
	}
	return out, nil
}

// Choices returns the option lists of the forms and filters
func (s *EventService) Choices(ctx context.Context) (FormChoices, error) {
	categorie, err := s.choices.Categorie(ctx)
	if err != nil {
		return FormChoices{}, err
	}
	settori, err := s.choices.Settori(ctx)
	if err != nil {
		return FormChoices{}, fmt.Errorf("failed to load settori: %w", err)
	}
	return FormChoices{
		Categorie: categorie,
		Offices:   event.OfficeChoices(),
		Paesi:     event.PaeseChoices(),
		Settori:   settori,
	}, nil
}

// checkSettore rejects a sector id that does not exist
func (s *EventService) checkSettore(ctx context.Context, d event.Details) error {
	if d.SettoreID == nil {
		return nil
	}
	_, err := s.settori.FindByID(ctx, *d.SettoreID)
	if errors.Is(err, shared.ErrNotFound) {
		verr := shared.NewValidationError()
		verr.Add("settore", event.MsgInvalidChoice)
		return verr
	}
	return err
}

// ToPublicEvent converts an event to its public API shape
func ToPublicEvent(e *event.Event) PublicEvent {
	p := PublicEvent{
		ID:          e.ID,
		Categoria:   string(e.Categoria),
		Office:      string(e.Office),
		Titolo:      e.Titolo,
		DataInizio:  e.DataInizio.Format(event.DateLayout),
		Paese:       string(e.Paese),
		Citta:       e.Citta,
		Settore:     e.SettoreID,
		Tipologia:   e.Tipologia,
		Descrizione: e.Descrizione,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.DataFine != nil {
		fine := e.DataFine.Format(event.DateLayout)
		p.DataFine = &fine
	}
	return p
}
