package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BariVakhidov/guestlist/internal/domain/converter"
	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/storage/model"
)

const collectionScans = "scans"

// Storage is the append-only scan audit log.
type Storage struct {
	client   *mongo.Client
	database string
}

func New(ctx context.Context, uri, user, password, database string) (*Storage, error) {
	const op = "storage.mongo.New"

	clientOptions := options.Client().ApplyURI(uri)
	if user != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   user,
			Password:   password,
			AuthSource: database,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{client: client, database: database}

	index := mongo.IndexModel{Keys: bson.D{{Key: "scanned_at", Value: -1}}}
	if _, err := s.scans().Indexes().CreateOne(ctx, index); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) SaveScan(ctx context.Context, record models.ScanRecord) error {
	const op = "storage.mongo.SaveScan"

	if _, err := s.scans().InsertOne(ctx, converter.ToScanDocument(record)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Scans returns the latest scans, newest first. An empty operatorID returns
// scans of every operator.
func (s *Storage) Scans(ctx context.Context, operatorID string, limit int64) ([]models.ScanRecord, error) {
	const op = "storage.mongo.Scans"

	filter := bson.D{}
	if operatorID != "" {
		filter = bson.D{{Key: "operator_id", Value: operatorID}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "scanned_at", Value: -1}}).SetLimit(limit)

	cursor, err := s.scans().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	var docs []model.ScanDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records := make([]models.ScanRecord, len(docs))
	for i, doc := range docs {
		records[i] = models.ScanRecord{
			OperatorID: doc.OperatorID,
			Token:      doc.Token,
			Kind:       models.OutcomeKind(doc.Kind),
			Error:      doc.Error,
			ScannedAt:  doc.ScannedAt,
		}
		if id, err := uuid.Parse(doc.GuestID); err == nil {
			records[i].GuestID = id
		}
	}

	return records, nil
}

func (s *Storage) Stop(ctx context.Context) error {
	const op = "storage.mongo.Stop"

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) scans() *mongo.Collection {
	return s.client.Database(s.database).Collection(collectionScans)
}
