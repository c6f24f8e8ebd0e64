// Package mongodb implements the domain repositories on MongoDB.
package mongodb

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	collectionUsers      = "users"
	collectionAttendance = "attendance"
	collectionLeave      = "leave_requests"
	collectionFinance    = "finance_records"

	dateLayout = "2006-01-02"
)

// EnsureIndexes creates the indexes every repository relies on. The unique
// (user_id, date) index is what rejects a concurrent second check-in.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionAttendance: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "date", Value: -1}, {Key: "check_in", Value: -1}}},
		},
		collectionLeave: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "request_date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collectionFinance: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "date", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// dateRange builds a $gte/$lte filter on YYYY-MM-DD strings; nil when unbounded.
func dateRange(start, end *string) bson.M {
	r := bson.M{}
	if start != nil && *start != "" {
		r["$gte"] = *start
	}
	if end != nil && *end != "" {
		r["$lte"] = *end
	}
	if len(r) == 0 {
		return nil
	}
	return r
}
