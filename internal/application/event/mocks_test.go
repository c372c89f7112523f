package event

import (
	"context"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockEventRepository is a mock implementation of event.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) FindByID(ctx context.Context, id int64) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) FindByIDInScope(ctx context.Context, id int64, scope event.Scope) (*event.Event, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, scope event.Scope, query event.ListQuery) (shared.Paginated[event.Event], error) {
	args := m.Called(ctx, scope, query)
	return args.Get(0).(shared.Paginated[event.Event]), args.Error(1)
}

func (m *MockEventRepository) FindForReport(ctx context.Context, scope event.Scope, query event.ReportQuery) ([]event.Event, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockEventRepository) ReportYears(ctx context.Context, scope event.Scope, query event.ReportQuery) ([]int, error) {
	args := m.Called(ctx, scope, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockEventRepository) FindByIDs(ctx context.Context, scope event.Scope, ids []int64) ([]event.Event, error) {
	args := m.Called(ctx, scope, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockEventRepository) FindPublic(ctx context.Context) ([]event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockEventRepository) FindAll(ctx context.Context) ([]event.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Event), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ event.EventRepository = (*MockEventRepository)(nil)

// MockSettoreRepository is a mock implementation of event.SettoreRepository
type MockSettoreRepository struct {
	mock.Mock
}

func (m *MockSettoreRepository) FindAll(ctx context.Context) ([]event.Settore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Settore), args.Error(1)
}

func (m *MockSettoreRepository) FindByID(ctx context.Context, id int64) (*event.Settore, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Settore), args.Error(1)
}

func (m *MockSettoreRepository) FindByNome(ctx context.Context, nome string) (*event.Settore, error) {
	args := m.Called(ctx, nome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Settore), args.Error(1)
}

func (m *MockSettoreRepository) Create(ctx context.Context, s *event.Settore) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

var _ event.SettoreRepository = (*MockSettoreRepository)(nil)

// MockEventFileRepository is a mock implementation of event.EventFileRepository
type MockEventFileRepository struct {
	mock.Mock
}

func (m *MockEventFileRepository) FindByID(ctx context.Context, eventID, fileID int64) (*event.EventFile, error) {
	args := m.Called(ctx, eventID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.EventFile), args.Error(1)
}

func (m *MockEventFileRepository) FindByEvent(ctx context.Context, eventID int64) ([]event.EventFile, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.EventFile), args.Error(1)
}

func (m *MockEventFileRepository) FindAll(ctx context.Context) ([]event.EventFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.EventFile), args.Error(1)
}

func (m *MockEventFileRepository) Create(ctx context.Context, f *event.EventFile) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockEventFileRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ event.EventFileRepository = (*MockEventFileRepository)(nil)

// MockChoiceProvider is a mock implementation of ChoiceProvider
type MockChoiceProvider struct {
	mock.Mock
}

func (m *MockChoiceProvider) Categorie(ctx context.Context) ([]event.Choice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Choice), args.Error(1)
}

func (m *MockChoiceProvider) Settori(ctx context.Context) ([]event.Settore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]event.Settore), args.Error(1)
}
