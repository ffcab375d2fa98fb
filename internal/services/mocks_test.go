package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/services"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

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

// MockAttachmentService implements services.IAttachmentService
type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Process(ctx context.Context, refs []models.AttachmentRef, images map[string]string) (*services.ProcessedAttachments, error) {
	args := m.Called(ctx, refs, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProcessedAttachments), args.Error(1)
}
