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

const templatesCollection = "templates"

// ITemplateService defines the interface for template record operations.
type ITemplateService interface {
	Create(ctx context.Context, tpl *models.Template) (*models.Template, error)
	FindByID(ctx context.Context, id utils.SixID) (*models.Template, error)
	// FindActiveByName resolves the template a dispatch request names.
	FindActiveByName(ctx context.Context, name string) (*models.Template, error)
	List(ctx context.Context, page, pageSize int64) ([]models.Template, int64, error)
	Update(ctx context.Context, id utils.SixID, updates bson.M) (*models.Template, error)
	Delete(ctx context.Context, id utils.SixID) error
	Reactivate(ctx context.Context, id utils.SixID) (ReactivateStatus, error)
}

type templateService struct {
	db *mongo.Database
}

func NewTemplateService(database *mongo.Database) ITemplateService {
	return &templateService{db: database}
}

// nameTakenByOther reports whether another active template already holds the
// identifying name. excludeID is zero for creates.
func (s *templateService) nameTakenByOther(ctx context.Context, name string, excludeID utils.SixID) (bool, error) {
	filter := bson.M{"name": name, "active": true}
	if excludeID != (utils.SixID{}) {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := s.db.Collection(templatesCollection).CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error checking template name uniqueness for %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *templateService) Create(ctx context.Context, tpl *models.Template) (*models.Template, error) {
	taken, err := s.nameTakenByOther(ctx, tpl.Name, utils.SixID{})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ErrDuplicateName{Name: tpl.Name}
	}

	collection := s.db.Collection(templatesCollection)
	now := time.Now().UTC()

	operation := func() error {
		tpl.ID = utils.NewSixID()
		tpl.Active = true
		tpl.CreatedAt = now
		tpl.UpdatedAt = now
		tpl.DeletedAt = nil

		_, err := collection.InsertOne(ctx, tpl)
		return err
	}

	if err := db.WithRetries(operation, db.DefaultMaxRetries, db.IsMongoDuplicateKeyError); err != nil {
		return nil, fmt.Errorf("error creating template: %w", err)
	}
	return tpl, nil
}

func (s *templateService) FindByID(ctx context.Context, id utils.SixID) (*models.Template, error) {
	var tpl models.Template
	err := s.db.Collection(templatesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Resource: "template", Key: id.String()}
		}
		return nil, fmt.Errorf("error finding template %s: %w", id.String(), err)
	}
	return &tpl, nil
}

func (s *templateService) FindActiveByName(ctx context.Context, name string) (*models.Template, error) {
	var tpl models.Template
	filter := bson.M{"name": name, "active": true}
	err := s.db.Collection(templatesCollection).FindOne(ctx, filter).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Resource: "template", Key: name}
		}
		return nil, fmt.Errorf("error finding template by name %s: %w", name, err)
	}
	return &tpl, nil
}

func (s *templateService) List(ctx context.Context, page, pageSize int64) ([]models.Template, int64, error) {
	collection := s.db.Collection(templatesCollection)

	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting templates: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing templates: %w", err)
	}
	defer cursor.Close(ctx)

	templates := make([]models.Template, 0, pageSize)
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, 0, fmt.Errorf("error decoding templates: %w", err)
	}
	return templates, total, nil
}

func (s *templateService) Update(ctx context.Context, id utils.SixID, updates bson.M) (*models.Template, error) {
	if name, ok := updates["name"].(string); ok {
		taken, err := s.nameTakenByOther(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ErrDuplicateName{Name: name}
		}
	}

	collection := s.db.Collection(templatesCollection)
	updates["updated_at"] = time.Now().UTC()

	var updated models.Template
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ErrNotFound{Resource: "template", Key: id.String()}
		}
		return nil, fmt.Errorf("error updating template %s: %w", id.String(), err)
	}
	return &updated, nil
}

func (s *templateService) Delete(ctx context.Context, id utils.SixID) error {
	collection := s.db.Collection(templatesCollection)
	now := time.Now().UTC()

	update := bson.M{"$set": bson.M{"active": false, "deleted_at": now, "updated_at": now}}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("error deleting template %s: %w", id.String(), err)
	}
	if result.MatchedCount == 0 {
		return &ErrNotFound{Resource: "template", Key: id.String()}
	}
	return nil
}

// Reactivate re-enables a soft-deleted template. It re-checks the identifying
// name since another active template may have claimed it in the meantime.
func (s *templateService) Reactivate(ctx context.Context, id utils.SixID) (ReactivateStatus, error) {
	tpl, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if tpl.Active {
		return ReactivateStatusAlreadyActive, nil
	}

	taken, err := s.nameTakenByOther(ctx, tpl.Name, id)
	if err != nil {
		return "", err
	}
	if taken {
		return "", &ErrDuplicateName{Name: tpl.Name}
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set":   bson.M{"active": true, "updated_at": now},
		"$unset": bson.M{"deleted_at": ""},
	}
	if _, err := s.db.Collection(templatesCollection).UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return "", fmt.Errorf("error reactivating template %s: %w", id.String(), err)
	}
	return ReactivateStatusReactivated, nil
}
