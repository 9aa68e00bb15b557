package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staffdesk/hr-identity/internal/core/domain"
)

const (
	activityCollection = "activity_logs"
	activityRetention  = 365 * 24 * time.Hour
)

// ActivityRepository implements ports.ActivityRecorder using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

func activityIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "module", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(activityRetention.Seconds())),
		},
	}
}

// Record inserts one audit entry. Entries for unknown or malformed user ids are
// stored with the raw id string so failed logins remain traceable.
func (r *ActivityRepository) Record(ctx context.Context, entry domain.ActivityEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	doc := bson.M{
		"action":    entry.Action,
		"details":   entry.Details,
		"module":    entry.Module,
		"status":    string(entry.Status),
		"createdAt": createdAt.UTC(),
		"updatedAt": createdAt.UTC(),
	}
	if oid, err := primitive.ObjectIDFromHex(entry.UserID); err == nil {
		doc["userId"] = oid
	} else if entry.UserID != "" {
		doc["userId"] = entry.UserID
	}
	if entry.IPAddress != "" {
		doc["ipAddress"] = entry.IPAddress
	}
	if entry.UserAgent != "" {
		doc["userAgent"] = entry.UserAgent
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
