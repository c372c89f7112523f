package persistence

import (
	"context"
	"errors"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettoreRepository implements event.SettoreRepository using GORM
type GormSettoreRepository struct {
	db *gorm.DB
}

// NewGormSettoreRepository creates a new GormSettoreRepository
func NewGormSettoreRepository(db *gorm.DB) *GormSettoreRepository {
	return &GormSettoreRepository{db: db}
}

var _ event.SettoreRepository = (*GormSettoreRepository)(nil)

// FindAll returns every sector ordered by name
func (r *GormSettoreRepository) FindAll(ctx context.Context) ([]event.Settore, error) {
	var settoreModels []models.SettoreModel
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&settoreModels).Error; err != nil {
		return nil, err
	}
	settori := make([]event.Settore, 0, len(settoreModels))
	for i := range settoreModels {
		settori = append(settori, *settoreModels[i].ToDomain())
	}
	return settori, nil
}

// FindByID finds a sector by ID
func (r *GormSettoreRepository) FindByID(ctx context.Context, id int64) (*event.Settore, error) {
	var model models.SettoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNome finds a sector by its unique name
func (r *GormSettoreRepository) FindByNome(ctx context.Context, nome string) (*event.Settore, error) {
	var model models.SettoreModel
	if err := r.db.WithContext(ctx).Where("nome = ?", nome).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new sector
func (r *GormSettoreRepository) Create(ctx context.Context, s *event.Settore) error {
	model := models.SettoreModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	s.ID = model.ID
	return nil
}
