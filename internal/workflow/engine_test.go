package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// MockJobStore is a mock implementation of the JobStore interface
type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*jobs.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobStore) UpdateStepCAS(ctx context.Context, id uuid.UUID, from, to catalog.Step, status catalog.Status) (*jobs.Job, error) {
	args := m.Called(ctx, id, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

// MockCompletionStore is a mock implementation of the CompletionStore interface
type MockCompletionStore struct {
	mock.Mock
}

func (m *MockCompletionStore) UpsertCompletion(ctx context.Context, completion *jobs.StepCompletion) error {
	args := m.Called(ctx, completion)
	return args.Error(0)
}

func (m *MockCompletionStore) ListCompletions(ctx context.Context, jobID uuid.UUID) ([]jobs.StepCompletion, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]jobs.StepCompletion), args.Error(1)
}

type engineMocks struct {
	jobStore    *MockJobStore
	completions *MockCompletionStore
	validator   *validatorMocks
}

func newTestEngine() (*Engine, *engineMocks) {
	validator, vmocks := newTestValidator()
	m := &engineMocks{
		jobStore:    new(MockJobStore),
		completions: new(MockCompletionStore),
		validator:   vmocks,
	}
	engine := NewEngine(m.jobStore, m.completions, validator, zap.NewNop())
	return engine, m
}

func TestAdvanceMovesToSuccessorAndDerivesStatus(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepReceiving)
	advanced := jobAt(catalog.StepLogging)
	advanced.ID = job.ID

	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("UpsertCompletion", ctx, mock.AnythingOfType("*jobs.StepCompletion")).Return(nil)
	mocks.jobStore.On("UpdateStepCAS", ctx, job.ID, catalog.StepReceiving, catalog.StepLogging, catalog.StatusLogged).
		Return(advanced, nil)

	result, err := engine.Advance(ctx, job.ID, uuid.New(), nil)

	assert.NoError(t, err)
	assert.Equal(t, catalog.StepReceiving, result.CompletedStep)
	assert.Equal(t, catalog.StepLogging, result.NextStep)
	assert.Equal(t, catalog.StepLogging, result.Job.CurrentStep)
	assert.Empty(t, result.Warnings)

	mocks.jobStore.AssertExpectations(t)
	mocks.completions.AssertExpectations(t)
}

func TestAdvanceRecordsCompletionForTheStepBeingLeft(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()
	actor := uuid.New()

	job := jobAt(catalog.StepReceiving)
	advanced := jobAt(catalog.StepLogging)

	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("UpsertCompletion", ctx, mock.MatchedBy(func(c *jobs.StepCompletion) bool {
		return c.JobID == job.ID && c.Step == catalog.StepReceiving && c.CompletedBy == actor
	})).Return(nil)
	mocks.jobStore.On("UpdateStepCAS", ctx, job.ID, catalog.StepReceiving, catalog.StepLogging, catalog.StatusLogged).
		Return(advanced, nil)

	_, err := engine.Advance(ctx, job.ID, actor, nil)

	assert.NoError(t, err)
	mocks.completions.AssertExpectations(t)
}

func TestAdvanceBlockedByGateReturnsValidationError(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepAwaitPO)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := engine.Advance(ctx, job.ID, uuid.New(), nil)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Reasons, 2)
	mocks.jobStore.AssertNotCalled(t, "UpdateStepCAS",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mocks.completions.AssertNotCalled(t, "UpsertCompletion", mock.Anything, mock.Anything)
}

func TestAdvancePOGateRoundTrip(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepAwaitPO)
	po := "PO-1234"
	now := time.Now()
	job.PONumber = &po
	job.POReceivedAt = &now

	advanced := jobAt(catalog.StepRepair)

	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("UpsertCompletion", ctx, mock.AnythingOfType("*jobs.StepCompletion")).Return(nil)
	mocks.jobStore.On("UpdateStepCAS", ctx, job.ID, catalog.StepAwaitPO, catalog.StepRepair, catalog.StatusInRepair).
		Return(advanced, nil)

	result, err := engine.Advance(ctx, job.ID, uuid.New(), nil)

	assert.NoError(t, err)
	assert.Equal(t, catalog.StepRepair, result.NextStep)
}

func TestAdvanceAtDispatchIsTerminal(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepDispatch)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := engine.Advance(ctx, job.ID, uuid.New(), nil)

	assert.ErrorIs(t, err, ErrTerminalStep)
}

func TestAdvanceSurfacesCASConflict(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepReceiving)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("UpsertCompletion", ctx, mock.AnythingOfType("*jobs.StepCompletion")).Return(nil)
	mocks.jobStore.On("UpdateStepCAS", ctx, job.ID, catalog.StepReceiving, catalog.StepLogging, catalog.StatusLogged).
		Return(nil, jobs.ErrStepConflict)

	_, err := engine.Advance(ctx, job.ID, uuid.New(), nil)

	assert.ErrorIs(t, err, jobs.ErrStepConflict)
}

func TestCanAccessStep(t *testing.T) {
	// One ahead is reachable, further ahead is not
	assert.True(t, CanAccessStep(catalog.StepReceiving, catalog.StepLogging))
	assert.False(t, CanAccessStep(catalog.StepReceiving, catalog.StepStripAssess))
	assert.False(t, CanAccessStep(catalog.StepLogging, catalog.StepDispatch))

	// Current step is always accessible
	assert.True(t, CanAccessStep(catalog.StepRepair, catalog.StepRepair))

	// Backward only onto steps that allow returning
	assert.True(t, CanAccessStep(catalog.StepRepair, catalog.StepTechnicalReport))
	assert.False(t, CanAccessStep(catalog.StepRepair, catalog.StepAwaitPO))
	assert.False(t, CanAccessStep(catalog.StepLogging, catalog.StepReceiving))
	assert.True(t, CanAccessStep(catalog.StepDispatch, catalog.StepFunctionTest))

	// Unknown steps are never accessible
	assert.False(t, CanAccessStep(catalog.Step("bogus"), catalog.StepLogging))
	assert.False(t, CanAccessStep(catalog.StepLogging, catalog.Step("bogus")))
}

func TestRecordCompletionOnCurrentStep(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()
	actor := uuid.New()

	job := jobAt(catalog.StepRepair)
	measurements := jobs.MeasurementMap{"bearing_clearance_mm": 0.05}

	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("UpsertCompletion", ctx, mock.MatchedBy(func(c *jobs.StepCompletion) bool {
		return c.Step == catalog.StepRepair && len(c.Measurements) == 1
	})).Return(nil)

	completion, err := engine.RecordCompletion(ctx, job.ID, catalog.StepRepair, actor, nil, measurements, nil)

	assert.NoError(t, err)
	assert.Equal(t, measurements, completion.Measurements)
}

func TestRecordCompletionRejectsForwardSteps(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepRepair)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)

	_, err := engine.RecordCompletion(ctx, job.ID, catalog.StepFunctionTest, uuid.New(), nil, nil, nil)

	assert.ErrorIs(t, err, ErrStepNotAccessible)
}

func TestMoveToStepBackward(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepFunctionTest)
	moved := jobAt(catalog.StepReassemble)

	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.jobStore.On("UpdateStepCAS", ctx, job.ID, catalog.StepFunctionTest, catalog.StepReassemble, catalog.StatusAssembled).
		Return(moved, nil)

	updated, err := engine.MoveToStep(ctx, job.ID, catalog.StepReassemble, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, catalog.StepReassemble, updated.CurrentStep)
}

func TestMoveToStepRejectsGuardedTargets(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	// Cannot jump forward past the successor
	job := jobAt(catalog.StepLogging)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	_, err := engine.MoveToStep(ctx, job.ID, catalog.StepRepair, uuid.New())
	assert.ErrorIs(t, err, ErrStepNotAccessible)

	// Cannot return to the PO hard stop
	job2 := jobAt(catalog.StepRepair)
	mocks.jobStore.On("GetByID", ctx, job2.ID).Return(job2, nil)
	_, err = engine.MoveToStep(ctx, job2.ID, catalog.StepAwaitPO, uuid.New())
	assert.ErrorIs(t, err, ErrStepNotAccessible)
}

func TestMoveToStepCurrentIsNoOp(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepRepair)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)

	updated, err := engine.MoveToStep(ctx, job.ID, catalog.StepRepair, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, job, updated)
	mocks.jobStore.AssertNotCalled(t, "UpdateStepCAS",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStepsSummaryForFreshJob(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepReceiving)
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("ListCompletions", ctx, job.ID).Return([]jobs.StepCompletion{}, nil)

	summary, err := engine.StepsSummary(ctx, job.ID)

	assert.NoError(t, err)
	assert.Len(t, summary.Steps, catalog.TotalSteps)
	assert.Equal(t, 0, summary.CompletedCount)
	assert.Equal(t, 0, summary.Progress)
	for _, step := range summary.Steps {
		assert.False(t, step.Completed)
		if step.Number == 1 {
			assert.True(t, step.Current)
			assert.False(t, step.Locked)
		} else {
			assert.False(t, step.Current)
			assert.True(t, step.Locked)
		}
	}
}

func TestStepsSummaryMidProcess(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	job := jobAt(catalog.StepStripAssess)
	done := []jobs.StepCompletion{
		{JobID: job.ID, Step: catalog.StepReceiving},
		{JobID: job.ID, Step: catalog.StepLogging},
	}
	mocks.jobStore.On("GetByID", ctx, job.ID).Return(job, nil)
	mocks.completions.On("ListCompletions", ctx, job.ID).Return(done, nil)

	summary, err := engine.StepsSummary(ctx, job.ID)

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.CompletedCount)
	assert.Equal(t, 18, summary.Progress)
	assert.True(t, summary.Steps[0].Completed)
	assert.True(t, summary.Steps[1].Completed)
	assert.True(t, summary.Steps[2].Current)
	assert.True(t, summary.Steps[3].Locked)
}

func TestIsRepairUnlocked(t *testing.T) {
	engine, mocks := newTestEngine()
	ctx := context.Background()

	// Before the PO gate
	early := jobAt(catalog.StepStripAssess)
	mocks.jobStore.On("GetByID", ctx, early.ID).Return(early, nil)
	unlocked, err := engine.IsRepairUnlocked(ctx, early.ID)
	assert.NoError(t, err)
	assert.False(t, unlocked)

	// At the gate without a PO
	waiting := jobAt(catalog.StepAwaitPO)
	mocks.jobStore.On("GetByID", ctx, waiting.ID).Return(waiting, nil)
	unlocked, err = engine.IsRepairUnlocked(ctx, waiting.ID)
	assert.NoError(t, err)
	assert.False(t, unlocked)

	// At the gate with the PO on record
	approved := jobAt(catalog.StepAwaitPO)
	po := "PO-9"
	now := time.Now()
	approved.PONumber = &po
	approved.POReceivedAt = &now
	mocks.jobStore.On("GetByID", ctx, approved.ID).Return(approved, nil)
	unlocked, err = engine.IsRepairUnlocked(ctx, approved.ID)
	assert.NoError(t, err)
	assert.True(t, unlocked)

	// Past the gate
	repairing := jobAt(catalog.StepReassemble)
	mocks.jobStore.On("GetByID", ctx, repairing.ID).Return(repairing, nil)
	unlocked, err = engine.IsRepairUnlocked(ctx, repairing.ID)
	assert.NoError(t, err)
	assert.True(t, unlocked)
}
