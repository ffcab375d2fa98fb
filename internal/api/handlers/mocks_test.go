package handlers_test

import (
	"context"
	"io"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/storage"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
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
func (m *MockDispatchService) Stop() { m.Called() }

// MockAsynqClient implements handlers.IAsynqClient
type MockAsynqClient struct {
	mock.Mock
}

func (m *MockAsynqClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockTemplateService implements services.ITemplateService
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Create(ctx context.Context, tpl *models.Template) (*models.Template, error) {
	args := m.Called(ctx, tpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}
func (m *MockTemplateService) FindByID(ctx context.Context, id utils.SixID) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}
func (m *MockTemplateService) FindActiveByName(ctx context.Context, name string) (*models.Template, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}
func (m *MockTemplateService) List(ctx context.Context, page, pageSize int64) ([]models.Template, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Template), args.Get(1).(int64), args.Error(2)
}
func (m *MockTemplateService) Update(ctx context.Context, id utils.SixID, updates bson.M) (*models.Template, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}
func (m *MockTemplateService) Delete(ctx context.Context, id utils.SixID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockTemplateService) Reactivate(ctx context.Context, id utils.SixID) (services.ReactivateStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(services.ReactivateStatus), args.Error(1)
}

// MockCredentialService implements services.ICredentialService
type MockCredentialService struct {
	mock.Mock
}

func (m *MockCredentialService) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
func (m *MockCredentialService) FindByID(ctx context.Context, id utils.SixID) (*models.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
func (m *MockCredentialService) FindActiveByID(ctx context.Context, id utils.SixID) (*models.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
func (m *MockCredentialService) List(ctx context.Context, page, pageSize int64) ([]models.Credential, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Credential), args.Get(1).(int64), args.Error(2)
}
func (m *MockCredentialService) Update(ctx context.Context, id utils.SixID, updates bson.M) (*models.Credential, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
func (m *MockCredentialService) Delete(ctx context.Context, id utils.SixID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCredentialService) Reactivate(ctx context.Context, id utils.SixID) (services.ReactivateStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(services.ReactivateStatus), args.Error(1)
}

// MockSendLogService implements services.ISendLogService
type MockSendLogService struct {
	mock.Mock
}

func (m *MockSendLogService) Append(ctx context.Context, entry *models.SendLog) (*models.SendLog, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendLog), args.Error(1)
}
func (m *MockSendLogService) List(ctx context.Context, filter services.SendLogFilter, page, pageSize int64) ([]models.SendLog, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.SendLog), args.Get(1).(int64), args.Error(2)
}

// MockBlobStorage implements storage.IBlobStorage
type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, content)
	return args.String(0), args.Error(1)
}
func (m *MockBlobStorage) Download(ctx context.Context, key string) (io.ReadCloser, *storage.StoredObject, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*storage.StoredObject), args.Error(2)
}
func (m *MockBlobStorage) List(ctx context.Context, prefix string) ([]storage.StoredObject, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.StoredObject), args.Error(1)
}
func (m *MockBlobStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
