package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luis-hernandez01/service-notifications/internal/db"
	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

const credentialsCollection = "credentials"

// ReactivateStatus reports what a reactivate call actually did.
type ReactivateStatus string

const (
	ReactivateStatusReactivated   ReactivateStatus = "reactivated"
	ReactivateStatusAlreadyActive ReactivateStatus = "already_active"
)

// ICredentialService defines the interface for credential record operations.
// This allows for easier mocking in tests.
type ICredentialService interface {
	Create(ctx context.Context, cred *models.Credential) (*models.Credential, error)
	FindByID(ctx context.Context, id utils.SixID) (*models.Credential, error)
	FindActiveByID(ctx context.Context, id utils.SixID) (*models.Credential, error)
	List(ctx context.Context, page, pageSize int64) ([]models.Credential, int64, error)
	Update(ctx context.Context, id utils.SixID, updates bson.M) (*models.Credential, error)
	Delete(ctx context.Context, id utils.SixID) error
	Reactivate(ctx context.Context, id utils.SixID) (ReactivateStatus, error)
}

// credentialService implements ICredentialService.
type credentialService struct {
	db *mongo.Database
}

func NewCredentialService(database *mongo.Database) ICredentialService {
	return &credentialService{db: database}
}

func (s *credentialService) Create(ctx context.Context, cred *models.Credential) (*models.Credential, error) {
	collection := s.db.Collection(credentialsCollection)
	now := time.Now().UTC()

	operation := func() error {
		cred.ID = utils.NewSixID()
		cred.Active = true
		cred.CreatedAt = now
		cred.UpdatedAt = now
		cred.DeletedAt = nil

		_, err := collection.InsertOne(ctx, cred)
		return err
	}

	if err := db.WithRetries(operation, db.DefaultMaxRetries, db.IsMongoDuplicateKeyError); err != nil {
		return nil, fmt.Errorf("error creating credential: %w", err)
	}
	return cred, nil
}

func (s *credentialService) FindByID(ctx context.Context, id utils.SixID) (*models.Credential, error) {
	var cred models.Credential
	err := s.db.Collection(credentialsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Resource: "credential", Key: id.String()}
		}
		return nil, fmt.Errorf("error finding credential %s: %w", id.String(), err)
	}
	return &cred, nil
}

// FindActiveByID resolves a credential for dispatch. Inactive records are
// treated as missing so a dispatch against a soft-deleted credential fails
// fast instead of sending with stale secrets.
func (s *credentialService) FindActiveByID(ctx context.Context, id utils.SixID) (*models.Credential, error) {
	var cred models.Credential
	filter := bson.M{"_id": id, "active": true}
	err := s.db.Collection(credentialsCollection).FindOne(ctx, filter).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Resource: "credential", Key: id.String()}
		}
		return nil, fmt.Errorf("error finding active credential %s: %w", id.String(), err)
	}
	return &cred, nil
}

func (s *credentialService) List(ctx context.Context, page, pageSize int64) ([]models.Credential, int64, error) {
	collection := s.db.Collection(credentialsCollection)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting credentials: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing credentials: %w", err)
	}
	defer cursor.Close(ctx)

	creds := make([]models.Credential, 0, pageSize)
	if err := cursor.All(ctx, &creds); err != nil {
		return nil, 0, fmt.Errorf("error decoding credentials: %w", err)
	}
	return creds, total, nil
}

func (s *credentialService) Update(ctx context.Context, id utils.SixID, updates bson.M) (*models.Credential, error) {
	collection := s.db.Collection(credentialsCollection)
	updates["updated_at"] = time.Now().UTC()

	var updated models.Credential
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Resource: "credential", Key: id.String()}
		}
		return nil, fmt.Errorf("error updating credential %s: %w", id.String(), err)
	}
	return &updated, nil
}

// Delete soft-deletes: active goes false and the deletion time is recorded.
// The record itself is never removed.
func (s *credentialService) Delete(ctx context.Context, id utils.SixID) error {
	collection := s.db.Collection(credentialsCollection)
	now := time.Now().UTC()

	update := bson.M{"$set": bson.M{"active": false, "deleted_at": now, "updated_at": now}}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error deleting credential %s: %w", id.String(), err)
	}
	if result.MatchedCount == 0 {
		return &ErrNotFound{Resource: "credential", Key: id.String()}
	}
	return nil
}

// Reactivate flips an inactive credential back to active. Reactivating an
// already-active record is a no-op reported through the returned status.
func (s *credentialService) Reactivate(ctx context.Context, id utils.SixID) (ReactivateStatus, error) {
	cred, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if cred.Active {
		return ReactivateStatusAlreadyActive, nil
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set":   bson.M{"active": true, "updated_at": now},
		"$unset": bson.M{"deleted_at": ""},
	}
	if _, err := s.db.Collection(credentialsCollection).UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return "", fmt.Errorf("error reactivating credential %s: %w", id.String(), err)
	}
	return ReactivateStatusReactivated, nil
}
