package persistence

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository implements event.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

var _ event.EventRepository = (*GormEventRepository)(nil)

// withAssociations preloads everything a detail page or a report needs
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Settore").
		Preload("CreatedBy").
		Preload("LastUpdatedBy").
		Preload("Files", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("event_files.created_at DESC, event_files.id DESC")
		})
}

// applyScope narrows a query to the events the scope allows
func applyScope(db *gorm.DB, scope event.Scope) *gorm.DB {
	switch {
	case scope.None:
		return db.Where("1 = 0")
	case scope.All:
		return db
	case scope.IncludePublic && scope.OwnerID != 0:
		return db.Where("(events.public = ? OR events.created_by_id = ?)", true, scope.OwnerID)
	case scope.IncludePublic:
		return db.Where("events.public = ?", true)
	case scope.OwnerID != 0:
		return db.Where("events.created_by_id = ?", scope.OwnerID)
	default:
		return db.Where("1 = 0")
	}
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// applyListFilters adds the search and equality filters of the list page
func applyListFilters(db *gorm.DB, q event.ListQuery) *gorm.DB {
	if q.Search != "" {
		db = db.Where(`LOWER(events.titolo) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q.Search))+"%")
	}
	if q.Categoria != "" {
		db = db.Where("events.categoria = ?", q.Categoria)
	}
	if q.Office != "" {
		db = db.Where("events.office = ?", q.Office)
	}
	if q.Paese != "" {
		db = db.Where("events.paese = ?", q.Paese)
	}
	if q.SettoreID != nil {
		db = db.Where("events.settore_id = ?", *q.SettoreID)
	}
	return db
}

// applyReportFilters adds the filters of the report selection screen.
// The year is matched as a date range so the query stays portable.
func applyReportFilters(db *gorm.DB, q event.ReportQuery) *gorm.DB {
	if q.Categoria != "" {
		db = db.Where("events.categoria = ?", q.Categoria)
	}
	if q.Paese != "" {
		db = db.Where("events.paese = ?", q.Paese)
	}
	if q.Year > 0 {
		from := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		db = db.Where("events.data_inizio >= ? AND events.data_inizio < ?", from, from.AddDate(1, 0, 0))
	}
	return db
}

func (r *GormEventRepository) events(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.EventModel{})
}

// FindByID loads an event with its associations
func (r *GormEventRepository) FindByID(ctx context.Context, id int64) (*event.Event, error) {
	return r.findOne(withAssociations(r.events(ctx)).Where("events.id = ?", id))
}

// FindByIDInScope loads an event only when the scope allows it
func (r *GormEventRepository) FindByIDInScope(ctx context.Context, id int64, scope event.Scope) (*event.Event, error) {
	return r.findOne(applyScope(withAssociations(r.events(ctx)), scope).Where("events.id = ?", id))
}

func (r *GormEventRepository) findOne(db *gorm.DB) (*event.Event, error) {
	var model models.EventModel
	if err := db.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of events matching the query
func (r *GormEventRepository) List(ctx context.Context, scope event.Scope, q event.ListQuery) (shared.Paginated[event.Event], error) {
	q = q.Normalized()

	filtered := func() *gorm.DB {
		return applyListFilters(applyScope(r.events(ctx), scope), q)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return shared.Paginated[event.Event]{}, err
	}

	var eventModels []models.EventModel
	query := applyEventOrdering(withAssociations(filtered()).Select("events.*"), q.Ordering())
	if err := query.
		Offset(shared.Offset(q.Page, q.PageSize)).
		Limit(q.PageSize).
		Find(&eventModels).Error; err != nil {
		return shared.Paginated[event.Event]{}, err
	}

	return shared.NewPaginated(toDomainEvents(eventModels), total, q.Page, q.PageSize), nil
}

// FindForReport returns the report selection ordered by start date
func (r *GormEventRepository) FindForReport(ctx context.Context, scope event.Scope, q event.ReportQuery) ([]event.Event, error) {
	var eventModels []models.EventModel
	if err := applyReportFilters(applyScope(withAssociations(r.events(ctx)), scope), q).
		Order("events.data_inizio ASC, events.id ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(eventModels), nil
}

// ReportYears returns the distinct start years of the selection, ascending.
// The year filter of the query is ignored so every year stays selectable.
func (r *GormEventRepository) ReportYears(ctx context.Context, scope event.Scope, q event.ReportQuery) ([]int, error) {
	q.Year = 0
	var dates []time.Time
	if err := applyReportFilters(applyScope(r.events(ctx), scope), q).
		Distinct().
		Pluck("events.data_inizio", &dates).Error; err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(dates))
	years := make([]int, 0, len(dates))
	for _, d := range dates {
		y := d.UTC().Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// FindByIDs returns the listed events the scope allows, ordered by start date
func (r *GormEventRepository) FindByIDs(ctx context.Context, scope event.Scope, ids []int64) ([]event.Event, error) {
	if len(ids) == 0 {
		return []event.Event{}, nil
	}
	var eventModels []models.EventModel
	if err := applyScope(withAssociations(r.events(ctx)), scope).
		Where("events.id IN ?", ids).
		Order("events.data_inizio ASC, events.id ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(eventModels), nil
}

// FindPublic returns every public event, newest start date first
func (r *GormEventRepository) FindPublic(ctx context.Context) ([]event.Event, error) {
	var eventModels []models.EventModel
	if err := r.events(ctx).
		Preload("Settore").
		Where("events.public = ?", true).
		Order("events.data_inizio DESC, events.id DESC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(eventModels), nil
}

// FindAll returns every event ordered by id
func (r *GormEventRepository) FindAll(ctx context.Context) ([]event.Event, error) {
	var eventModels []models.EventModel
	if err := withAssociations(r.events(ctx)).Order("events.id ASC").Find(&eventModels).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(eventModels), nil
}

// Create inserts a new event and assigns its ID
func (r *GormEventRepository) Create(ctx context.Context, e *event.Event) error {
	model := models.EventModelFromDomain(e)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return err
	}
	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	e.UpdatedAt = model.UpdatedAt
	return nil
}

// Update saves the editable fields and the last editor of an event
func (r *GormEventRepository) Update(ctx context.Context, e *event.Event) error {
	result := r.db.WithContext(ctx).
		Model(&models.EventModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"categoria":          e.Categoria,
			"office":             e.Office,
			"titolo":             e.Titolo,
			"data_inizio":        e.DataInizio,
			"data_fine":          e.DataFine,
			"paese":              e.Paese,
			"citta":              e.Citta,
			"settore_id":         e.SettoreID,
			"tipologia":          e.Tipologia,
			"descrizione":        e.Descrizione,
			"public":             e.Public,
			"last_updated_by_id": e.LastUpdatedByID,
			"updated_at":         e.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an event together with its attachment rows
func (r *GormEventRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventFileModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.EventModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func toDomainEvents(eventModels []models.EventModel) []event.Event {
	events := make([]event.Event, 0, len(eventModels))
	for i := range eventModels {
		events = append(events, *eventModels[i].ToDomain())
	}
	return events
}
