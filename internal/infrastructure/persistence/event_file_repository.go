package persistence

import (
	"context"
	"errors"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEventFileRepository implements event.EventFileRepository using GORM
type GormEventFileRepository struct {
	db *gorm.DB
}

// NewGormEventFileRepository creates a new GormEventFileRepository
func NewGormEventFileRepository(db *gorm.DB) *GormEventFileRepository {
	return &GormEventFileRepository{db: db}
}

var _ event.EventFileRepository = (*GormEventFileRepository)(nil)

// FindByID finds an attachment that belongs to the given event
func (r *GormEventFileRepository) FindByID(ctx context.Context, eventID, fileID int64) (*event.EventFile, error) {
	var model models.EventFileModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", fileID, eventID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEvent returns the attachments of an event, newest first
func (r *GormEventFileRepository) FindByEvent(ctx context.Context, eventID int64) ([]event.EventFile, error) {
	var fileModels []models.EventFileModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").
		Find(&fileModels).Error; err != nil {
		return nil, err
	}
	return toDomainEventFiles(fileModels), nil
}

// FindAll returns every attachment ordered by id
func (r *GormEventFileRepository) FindAll(ctx context.Context) ([]event.EventFile, error) {
	var fileModels []models.EventFileModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&fileModels).Error; err != nil {
		return nil, err
	}
	return toDomainEventFiles(fileModels), nil
}

// Create inserts a new attachment and assigns its ID
func (r *GormEventFileRepository) Create(ctx context.Context, f *event.EventFile) error {
	model := models.EventFileModelFromDomain(f)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	f.ID = model.ID
	f.CreatedAt = model.CreatedAt
	return nil
}

// Delete removes an attachment row by ID
func (r *GormEventFileRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.EventFileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainEventFiles(fileModels []models.EventFileModel) []event.EventFile {
	files := make([]event.EventFile, 0, len(fileModels))
	for i := range fileModels {
		files = append(files, *fileModels[i].ToDomain())
	}
	return files
}
