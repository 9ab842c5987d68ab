package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"brimis/workshop-intelligence/workshop-backend/internal/jobs"
	"brimis/workshop-intelligence/workshop-backend/internal/workflow/catalog"
)

// MockJobReader is a mock implementation of the JobReader interface
type MockJobReader struct {
	mock.Mock
}

func (m *MockJobReader) Stats(ctx context.Context) (*jobs.JobStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.JobStats), args.Error(1)
}

func (m *MockJobReader) CountByStatus(ctx context.Context) (map[catalog.Status]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[catalog.Status]int), args.Error(1)
}

func (m *MockJobReader) List(ctx context.Context, filters jobs.JobFilters) ([]jobs.Job, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]jobs.Job), args.Error(1)
}

func TestSummaryComputesOnFirstUseThenCaches(t *testing.T) {
	reader := new(MockJobReader)
	service := NewService(reader, zap.NewNop())
	ctx := context.Background()

	reader.On("Stats", ctx).Return(&jobs.JobStats{TotalJobs: 12, ActiveJobs: 7}, nil).Once()
	reader.On("CountByStatus", ctx).Return(map[catalog.Status]int{
		catalog.StatusInRepair: 3,
	}, nil).Once()

	first, err := service.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 12, first.Stats.TotalJobs)
	assert.Equal(t, 3, first.ByStatus[catalog.StatusInRepair])

	// Second call serves the snapshot without touching storage
	second, err := service.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	reader.AssertExpectations(t)
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	reader := new(MockJobReader)
	service := NewService(reader, zap.NewNop())
	ctx := context.Background()

	reader.On("Stats", ctx).Return(&jobs.JobStats{TotalJobs: 1}, nil).Once()
	reader.On("CountByStatus", ctx).Return(map[catalog.Status]int{}, nil).Once()
	_, err := service.Refresh(ctx)
	assert.NoError(t, err)

	reader.On("Stats", ctx).Return(&jobs.JobStats{TotalJobs: 2}, nil).Once()
	reader.On("CountByStatus", ctx).Return(map[catalog.Status]int{}, nil).Once()
	refreshed, err := service.Refresh(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, refreshed.Stats.TotalJobs)

	cached, err := service.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, refreshed, cached)
}

func TestExportJobRegister(t *testing.T) {
	reader := new(MockJobReader)
	service := NewService(reader, zap.NewNop())
	ctx := context.Background()

	po := "PO-2026-003"
	reader.On("List", ctx, mock.MatchedBy(func(f jobs.JobFilters) bool {
		return f.Limit == 1000
	})).Return([]jobs.Job{
		{
			JobNumber:     "BRIM-2026-001",
			EquipmentType: "gearbox",
			SerialNumber:  "GB-509",
			CurrentStep:   catalog.StepRepair,
			Status:        catalog.StatusInRepair,
			HasHazmat:     true,
			PONumber:      &po,
		},
	}, nil)

	workbook, err := service.ExportJobRegister(ctx, jobs.JobFilters{})

	assert.NoError(t, err)
	assert.NotEmpty(t, workbook)
	// XLSX files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, workbook[:2])
}
