package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, job *Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Job), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filters JobFilters) ([]Job, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]Job), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, job *Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UpdateStepCAS(ctx context.Context, id uuid.UUID, from, to catalog.Step, status catalog.Status) (*Job, error) {
	args := m.Called(ctx, id, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Job), args.Error(1)
}

func (m *MockRepository) NextJobNumber(ctx context.Context, now time.Time) (string, error) {
	args := m.Called(ctx, now)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Stats(ctx context.Context) (*JobStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JobStats), args.Error(1)
}

func (m *MockRepository) CountByStatus(ctx context.Context) (map[catalog.Status]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[catalog.Status]int), args.Error(1)
}

func (m *MockRepository) UpsertCompletion(ctx context.Context, completion *StepCompletion) error {
	args := m.Called(ctx, completion)
	return args.Error(0)
}

func (m *MockRepository) GetCompletion(ctx context.Context, jobID uuid.UUID, step catalog.Step) (*StepCompletion, error) {
	args := m.Called(ctx, jobID, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StepCompletion), args.Error(1)
}

func (m *MockRepository) ListCompletions(ctx context.Context, jobID uuid.UUID) ([]StepCompletion, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]StepCompletion), args.Error(1)
}

func TestCreateJobStartsAtReceiving(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("NextJobNumber", ctx, mock.AnythingOfType("time.Time")).Return("BRIM-2026-042", nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*jobs.Job")).Return(nil)

	job, err := service.CreateJob(ctx, &CreateJobRequest{
		ClientID:      uuid.New(),
		EquipmentType: "hydraulic_pump",
		SerialNumber:  "HP-88-1204",
	})

	assert.NoError(t, err)
	assert.Equal(t, "BRIM-2026-042", job.JobNumber)
	assert.Equal(t, catalog.StepReceiving, job.CurrentStep)
	assert.Equal(t, catalog.StatusReceived, job.Status)
	assert.False(t, job.ReceivedAt.IsZero())

	mockRepo.AssertExpectations(t)
}

func TestListJobsAppliesDefaultLimit(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("List", ctx, mock.MatchedBy(func(f JobFilters) bool {
		return f.Limit == 50
	})).Return([]Job{}, nil)

	_, err := service.ListJobs(ctx, JobFilters{})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateHazmatStampsCleaning(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	jobID := uuid.New()
	cleaner := uuid.New()
	level := HazmatMedium
	existing := &Job{ID: jobID, HasHazmat: true, CurrentStep: catalog.StepLogging}

	mockRepo.On("GetByID", ctx, jobID).Return(existing, nil)
	mockRepo.On("Update", ctx, existing).Return(nil)

	job, err := service.UpdateHazmat(ctx, jobID, &UpdateHazmatRequest{
		HasHazmat:     true,
		HazmatLevel:   &level,
		HazmatCleaned: true,
		CleanedBy:     &cleaner,
	})

	assert.NoError(t, err)
	assert.True(t, job.HazmatCleaned)
	assert.NotNil(t, job.HazmatCleanedAt)
	assert.Equal(t, &cleaner, job.HazmatCleanedBy)
}

func TestUpdateHazmatDoesNotRestampOnResave(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	jobID := uuid.New()
	cleanedAt := time.Now().Add(-time.Hour)
	existing := &Job{
		ID: jobID, HasHazmat: true,
		HazmatCleaned: true, HazmatCleanedAt: &cleanedAt,
	}

	mockRepo.On("GetByID", ctx, jobID).Return(existing, nil)
	mockRepo.On("Update", ctx, existing).Return(nil)

	job, err := service.UpdateHazmat(ctx, jobID, &UpdateHazmatRequest{
		HasHazmat:     true,
		HazmatCleaned: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, &cleanedAt, job.HazmatCleanedAt)
}

func TestRecordPOStampsApproval(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	jobID := uuid.New()
	existing := &Job{ID: jobID, CurrentStep: catalog.StepAwaitPO}

	mockRepo.On("GetByID", ctx, jobID).Return(existing, nil)
	mockRepo.On("Update", ctx, existing).Return(nil)

	job, err := service.RecordPO(ctx, jobID, "PO-2026-117")

	assert.NoError(t, err)
	assert.True(t, job.POReceived())
	assert.NotNil(t, job.QuoteApprovedAt)
	assert.Equal(t, "PO-2026-117", *job.PONumber)
}

func TestCompleteDispatch(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	jobID := uuid.New()
	actor := uuid.New()
	existing := &Job{
		ID: jobID, JobNumber: "BRIM-2026-007",
		CurrentStep: catalog.StepDispatch,
		Status:      catalog.StatusReadyForDispatch,
	}

	mockRepo.On("GetByID", ctx, jobID).Return(existing, nil)
	mockRepo.On("UpsertCompletion", ctx, mock.MatchedBy(func(c *StepCompletion) bool {
		return c.JobID == jobID && c.Step == catalog.StepDispatch && c.CompletedBy == actor
	})).Return(nil)
	mockRepo.On("Update", ctx, existing).Return(nil)

	job, err := service.CompleteDispatch(ctx, jobID, actor, nil)

	assert.NoError(t, err)
	assert.Equal(t, catalog.StatusDispatched, job.Status)
	assert.NotNil(t, job.ActualCompletionDate)

	mockRepo.AssertExpectations(t)
}

func TestCompleteDispatchRejectsOtherSteps(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	jobID := uuid.New()
	existing := &Job{ID: jobID, JobNumber: "BRIM-2026-008", CurrentStep: catalog.StepRepair}

	mockRepo.On("GetByID", ctx, jobID).Return(existing, nil)

	_, err := service.CompleteDispatch(ctx, jobID, uuid.New(), nil)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpsertCompletion", mock.Anything, mock.Anything)
}
