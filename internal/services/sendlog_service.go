package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luis-hernandez01/service-notifications/internal/db"
	"github.com/luis-hernandez01/service-notifications/internal/models"
	"github.com/luis-hernandez01/service-notifications/internal/utils"
)

const sendLogsCollection = "send_logs"

// ISendLogService records and queries the dispatch audit trail.
type ISendLogService interface {
	Append(ctx context.Context, entry *models.SendLog) (*models.SendLog, error)
	List(ctx context.Context, filter SendLogFilter, page, pageSize int64) ([]models.SendLog, int64, error)
}

// SendLogFilter narrows audit listings. Zero values mean "no constraint".
type SendLogFilter struct {
	Recipient    string
	TemplateName string
	Status       models.SendStatus
	From         time.Time
	To           time.Time
}

type sendLogService struct {
	db *mongo.Database
}

func NewSendLogService(database *mongo.Database) ISendLogService {
	return &sendLogService{db: database}
}

// Append inserts one audit row. Callers invoke it exactly once per dispatch
// attempt, after the outcome is known.
func (s *sendLogService) Append(ctx context.Context, entry *models.SendLog) (*models.SendLog, error) {
	collection := s.db.Collection(sendLogsCollection)

	operation := func() error {
		entry.ID = utils.NewSixID()
		_, err := collection.InsertOne(ctx, entry)
		return err
	}

	if err := db.WithRetries(operation, db.DefaultMaxRetries, db.IsMongoDuplicateKeyError); err != nil {
		return nil, fmt.Errorf("error appending send log: %w", err)
	}
	return entry, nil
}

func (s *sendLogService) List(ctx context.Context, filter SendLogFilter, page, pageSize int64) ([]models.SendLog, int64, error) {
	collection := s.db.Collection(sendLogsCollection)

	query := bson.M{}
	if filter.Recipient != "" {
		query["recipient"] = filter.Recipient
	}
	if filter.TemplateName != "" {
		query["template_name"] = filter.TemplateName
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	dateRange := bson.M{}
	if !filter.From.IsZero() {
		dateRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		dateRange["$lte"] = filter.To
	}
	if len(dateRange) > 0 {
		query["sent_at"] = dateRange
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting send logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing send logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]models.SendLog, 0, pageSize)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, fmt.Errorf("error decoding send logs: %w", err)
	}
	return logs, total, nil
}
