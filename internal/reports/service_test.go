package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/parts"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByJob(ctx context.Context, jobID uuid.UUID) (*TechnicalReport, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TechnicalReport), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, report *TechnicalReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, report *TechnicalReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

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

func (m *MockJobStore) Update(ctx context.Context, job *jobs.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockPartLister is a mock implementation of the PartLister interface
type MockPartLister struct {
	mock.Mock
}

func (m *MockPartLister) ListByJob(ctx context.Context, jobID uuid.UUID) ([]parts.Part, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]parts.Part), args.Error(1)
}

func newTestService() (*Service, *MockRepository, *MockJobStore, *MockPartLister) {
	repo := new(MockRepository)
	jobStore := new(MockJobStore)
	partLister := new(MockPartLister)
	return NewService(repo, jobStore, partLister, zap.NewNop()), repo, jobStore, partLister
}

func TestSaveDraftCreatesNewReport(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()
	summary := "Severe impeller wear, shaft within tolerance"

	repo.On("GetByJob", ctx, jobID).Return(nil, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(r *TechnicalReport) bool {
		return r.JobID == jobID && r.Status == StatusDraft
	})).Return(nil)

	report, err := service.SaveDraft(ctx, jobID, &SaveDraftRequest{ExecutiveSummary: &summary})

	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, report.Status)
	assert.Equal(t, &summary, report.ExecutiveSummary)

	repo.AssertExpectations(t)
}

func TestSaveDraftUpdatesExistingDraft(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()
	old := "initial findings"
	existing := &TechnicalReport{
		ID: uuid.New(), JobID: jobID,
		Status: StatusDraft, Findings: &old,
	}
	updated := "worn bearings on drive end"

	repo.On("GetByJob", ctx, jobID).Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)

	report, err := service.SaveDraft(ctx, jobID, &SaveDraftRequest{Findings: &updated})

	assert.NoError(t, err)
	assert.Equal(t, &updated, report.Findings)
	assert.Equal(t, StatusDraft, report.Status)
}

func TestSaveDraftRejectsSentReport(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()

	repo.On("GetByJob", ctx, jobID).Return(&TechnicalReport{JobID: jobID, Status: StatusSent}, nil)

	_, err := service.SaveDraft(ctx, jobID, &SaveDraftRequest{})

	assert.ErrorIs(t, err, ErrInvalidState)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFinalizeMovesDraftToFinal(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()
	existing := &TechnicalReport{ID: uuid.New(), JobID: jobID, Status: StatusDraft}

	repo.On("GetByJob", ctx, jobID).Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)

	report, err := service.Finalize(ctx, jobID)

	assert.NoError(t, err)
	assert.Equal(t, StatusFinal, report.Status)
}

func TestFinalizeRequiresDraft(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()

	repo.On("GetByJob", ctx, jobID).Return(&TechnicalReport{JobID: jobID, Status: StatusFinal}, nil)

	_, err := service.Finalize(ctx, jobID)

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFinalizeWithoutReport(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()

	repo.On("GetByJob", ctx, jobID).Return(nil, nil)

	_, err := service.Finalize(ctx, jobID)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendStampsReportAndJob(t *testing.T) {
	service, repo, jobStore, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()
	existing := &TechnicalReport{ID: uuid.New(), JobID: jobID, Status: StatusFinal}
	job := &jobs.Job{ID: jobID, CurrentStep: catalog.StepTechnicalReport}

	repo.On("GetByJob", ctx, jobID).Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)
	jobStore.On("GetByID", ctx, jobID).Return(job, nil)
	jobStore.On("Update", ctx, job).Return(nil)

	report, err := service.Send(ctx, jobID)

	assert.NoError(t, err)
	assert.Equal(t, StatusSent, report.Status)
	assert.NotNil(t, report.SentAt)
	assert.NotNil(t, job.QuoteSentAt)
	assert.Equal(t, catalog.StatusAwaitingQuoteApproval, job.Status)

	jobStore.AssertExpectations(t)
}

func TestSendRequiresFinalReport(t *testing.T) {
	service, repo, jobStore, _ := newTestService()
	ctx := context.Background()
	jobID := uuid.New()

	repo.On("GetByJob", ctx, jobID).Return(&TechnicalReport{JobID: jobID, Status: StatusDraft}, nil)

	_, err := service.Send(ctx, jobID)

	assert.ErrorIs(t, err, ErrInvalidState)
	jobStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRenderPDF(t *testing.T) {
	service, repo, jobStore, partLister := newTestService()
	ctx := context.Background()
	jobID := uuid.New()
	summary := "Pump restored to service condition"
	cost := 420.50

	repo.On("GetByJob", ctx, jobID).Return(&TechnicalReport{
		ID: uuid.New(), JobID: jobID,
		Status: StatusFinal, ExecutiveSummary: &summary,
		CreatedAt: time.Now(),
	}, nil)
	jobStore.On("GetByID", ctx, jobID).Return(&jobs.Job{
		ID: jobID, JobNumber: "BRIM-2026-013",
		EquipmentType: "centrifugal_pump", SerialNumber: "CP-37",
		CurrentStep: catalog.StepTechnicalReport,
	}, nil)
	partLister.On("ListByJob", ctx, jobID).Return([]parts.Part{
		{PartName: "Mechanical seal", Condition: parts.ConditionReplace, Cost: &cost,
			Defects: []string{parts.DefectSealFailure}},
	}, nil)

	pdf, err := service.RenderPDF(ctx, jobID)

	assert.NoError(t, err)
	assert.NotEmpty(t, pdf)
	// A PDF stream always opens with the format marker
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
