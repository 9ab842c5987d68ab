package qc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, inspection *Inspection) error {
	args := m.Called(ctx, inspection)
	return args.Error(0)
}

func (m *MockRepository) LatestByJob(ctx context.Context, jobID uuid.UUID) (*Inspection, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Inspection), args.Error(1)
}

func (m *MockRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]Inspection, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]Inspection), args.Error(1)
}

func TestSubmitRecordsInspection(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()
	jobID := uuid.New()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(i *Inspection) bool {
		return i.JobID == jobID && i.OverallStatus == StatusPassed
	})).Return(nil)

	inspection, err := service.Submit(ctx, jobID, &SubmitRequest{
		InspectorID:            uuid.New(),
		VisualInspectionPassed: true,
		FunctionTestPassed:     true,
		LeakTestPassed:         true,
		DocumentationComplete:  true,
		OverallStatus:          StatusPassed,
	})

	assert.NoError(t, err)
	assert.Empty(t, inspection.FailedItems)
	assert.False(t, inspection.InspectedAt.IsZero())

	mockRepo.AssertExpectations(t)
}

func TestSubmitCollectsFailedItems(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*qc.Inspection")).Return(nil)

	inspection, err := service.Submit(ctx, uuid.New(), &SubmitRequest{
		InspectorID:            uuid.New(),
		VisualInspectionPassed: true,
		FunctionTestPassed:     false,
		LeakTestPassed:         false,
		DocumentationComplete:  true,
		OverallStatus:          StatusFailed,
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"function_test", "leak_test"}, []string(inspection.FailedItems))
}

func TestSubmitDoesNotMoveTheJob(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*qc.Inspection")).Return(nil)

	_, err := service.Submit(ctx, uuid.New(), &SubmitRequest{
		InspectorID:   uuid.New(),
		OverallStatus: StatusConditional,
	})

	assert.NoError(t, err)
	// Only the inspection record is written; job movement stays with the
	// workflow engine.
	mockRepo.AssertExpectations(t)
}

func TestLatestPassesThroughNil(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()
	jobID := uuid.New()

	mockRepo.On("LatestByJob", ctx, jobID).Return(nil, nil)

	inspection, err := service.Latest(ctx, jobID)

	assert.NoError(t, err)
	assert.Nil(t, inspection)
}
