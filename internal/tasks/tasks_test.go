package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luis-hernandez01/service-notifications/internal/models"
)

// MockDispatchService implements services.IDispatchService
type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) Dispatch(ctx context.Context, req *models.DispatchRequest) (*models.DispatchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DispatchResult), args.Error(1)
}

func (m *MockDispatchService) Stop() {
	m.Called()
}

func TestNewEmailDispatchTask(t *testing.T) {
	req := &models.DispatchRequest{TemplateName: "welcome", To: "dest@example.com"}
	task, err := NewEmailDispatchTask(req)
	require.NoError(t, err)
	assert.Equal(t, TypeEmailDispatch, task.Type())

	var decoded models.DispatchRequest
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, "welcome", decoded.TemplateName)
	assert.Equal(t, "dest@example.com", decoded.To)
}

func TestHandleEmailDispatchTaskSuccess(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("Dispatch", mock.Anything, mock.AnythingOfType("*models.DispatchRequest")).
		Return(&models.DispatchResult{Status: "processed", To: "dest@example.com"}, nil)

	processor := NewTaskProcessor(svc)
	task, err := NewEmailDispatchTask(&models.DispatchRequest{TemplateName: "welcome", To: "dest@example.com"})
	require.NoError(t, err)

	assert.NoError(t, processor.HandleEmailDispatchTask(context.Background(), task))
	svc.AssertExpectations(t)
}

func TestHandleEmailDispatchTaskFailureSkipsRetry(t *testing.T) {
	svc := new(MockDispatchService)
	svc.On("Dispatch", mock.Anything, mock.Anything).Return(nil, errors.New("transport down"))

	processor := NewTaskProcessor(svc)
	task, err := NewEmailDispatchTask(&models.DispatchRequest{TemplateName: "welcome", To: "dest@example.com"})
	require.NoError(t, err)

	err = processor.HandleEmailDispatchTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleEmailDispatchTaskBadPayloadSkipsRetry(t *testing.T) {
	processor := NewTaskProcessor(new(MockDispatchService))
	task := asynq.NewTask(TypeEmailDispatch, []byte("{not json"))

	err := processor.HandleEmailDispatchTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
