package services

import (
	"context"
	"sync"
	"time"

	"github.com/AnshRaj112/remontee-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// TriageEventsCollection holds the audit trail in MongoDB.
const TriageEventsCollection = "triage_events"

// AuditLog records changes made to feedback records. Record must not block
// the caller.
type AuditLog interface {
	Record(event models.TriageEvent)
	History(ctx context.Context, feedbackID int) ([]models.TriageEvent, error)
}

// MongoAuditLog writes triage events to MongoDB in the background.
type MongoAuditLog struct {
	col    *mongo.Collection
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewMongoAuditLog(db *mongo.Database, logger *zap.Logger) *MongoAuditLog {
	return &MongoAuditLog{col: db.Collection(TriageEventsCollection), logger: logger}
}

// EnsureIndexes configures the (feedback_id, timestamp) index used to read a
// record's history in order.
func (a *MongoAuditLog) EnsureIndexes(ctx context.Context) error {
	_, err := a.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "feedback_id", Value: 1},
			{Key: "timestamp", Value: -1},
		},
		Options: options.Index().SetName("idx_feedback_timestamp"),
	})
	return err
}

// Record persists the event asynchronously; failures are logged only.
func (a *MongoAuditLog) Record(event models.TriageEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	a.wg.Add(1)
	go func(e models.TriageEvent) {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := a.col.InsertOne(ctx, e); err != nil {
			a.logger.Warn("failed to record triage event",
				zap.Int("feedback_id", e.FeedbackID),
				zap.String("action", string(e.Action)),
				zap.Error(err))
		}
	}(event)
}

// Wait blocks until pending writes are done. Called on shutdown.
func (a *MongoAuditLog) Wait() {
	a.wg.Wait()
}

// History returns the events of one record, newest first.
func (a *MongoAuditLog) History(ctx context.Context, feedbackID int) ([]models.TriageEvent, error) {
	cur, err := a.col.Find(ctx,
		bson.M{"feedback_id": feedbackID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.TriageEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// MemoryAuditLog keeps events in process memory.
type MemoryAuditLog struct {
	mu     sync.Mutex
	events []models.TriageEvent
}

func (a *MemoryAuditLog) Record(event models.TriageEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	a.mu.Lock()
	a.events = append(a.events, event)
	a.mu.Unlock()
}

func (a *MemoryAuditLog) History(_ context.Context, feedbackID int) ([]models.TriageEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.TriageEvent{}
	for i := len(a.events) - 1; i >= 0; i-- {
		if a.events[i].FeedbackID == feedbackID {
			out = append(out, a.events[i])
		}
	}
	return out, nil
}
