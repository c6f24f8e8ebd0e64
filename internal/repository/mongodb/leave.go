package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type leaveDoc struct {
	ID            string     `bson:"_id"`
	UserID        string     `bson:"user_id"`
	StartDate     string     `bson:"start_date"`
	EndDate       string     `bson:"end_date"`
	Reason        string     `bson:"reason"`
	Status        string     `bson:"status"`
	RequestDate   time.Time  `bson:"request_date"`
	AdminComments *string    `bson:"admin_comments,omitempty"`
	UpdatedBy     *string    `bson:"updated_by,omitempty"`
	UpdateDate    *time.Time `bson:"update_date,omitempty"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`

	// Join
	User *userDoc `bson:"user,omitempty"`
}

type leaveRequestRepository struct {
	leave *mongo.Collection
	loc   *time.Location
}

func NewLeaveRequestRepository(db *database.MongoDB, loc *time.Location) leave.LeaveRequestRepository {
	return &leaveRequestRepository{leave: db.Collection(collectionLeave), loc: loc}
}

func (r *leaveRequestRepository) toEntity(d leaveDoc) (leave.LeaveRequest, error) {
	start, err := time.ParseInLocation(dateLayout, d.StartDate, r.loc)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("decode leave start_date: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, d.EndDate, r.loc)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("decode leave end_date: %w", err)
	}

	req := leave.LeaveRequest{
		ID:            d.ID,
		UserID:        d.UserID,
		StartDate:     start,
		EndDate:       end,
		Reason:        d.Reason,
		Status:        leave.Status(d.Status),
		RequestDate:   d.RequestDate.In(r.loc),
		AdminComments: d.AdminComments,
		UpdatedBy:     d.UpdatedBy,
		CreatedAt:     d.CreatedAt.In(r.loc),
		UpdatedAt:     d.UpdatedAt.In(r.loc),
	}
	if d.UpdateDate != nil {
		t := d.UpdateDate.In(r.loc)
		req.UpdateDate = &t
	}
	if d.User != nil {
		sum := d.User.toEntity().Summary()
		req.User = &sum
	}
	return req, nil
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := time.Now().In(r.loc)
	request.CreatedAt, request.UpdatedAt = now, now

	_, err := r.leave.InsertOne(ctx, leaveDoc{
		ID:          request.ID,
		UserID:      request.UserID,
		StartDate:   request.StartDate.Format(dateLayout),
		EndDate:     request.EndDate.Format(dateLayout),
		Reason:      request.Reason,
		Status:      string(request.Status),
		RequestDate: request.RequestDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var doc leaveDoc
	err := r.leave.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("find leave request: %w", err)
	}
	return r.toEntity(doc)
}

func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "request_date", Value: -1}}}},
	})
}

func (r *leaveRequestRepository) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "request_date", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
	})
}

func (r *leaveRequestRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]leave.LeaveRequest, error) {
	cursor, err := r.leave.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find leave requests: %w", err)
	}
	var docs []leaveDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leave requests: %w", err)
	}

	requests := make([]leave.LeaveRequest, 0, len(docs))
	for _, d := range docs {
		req, err := r.toEntity(d)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Decide only matches a pending request, so two admins racing on the same
// request cannot both win.
func (r *leaveRequestRepository) Decide(ctx context.Context, id string, d leave.Decision) (leave.LeaveRequest, error) {
	var doc leaveDoc
	err := r.leave.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(leave.StatusPending)},
		bson.M{"$set": bson.M{
			"status":         string(d.Status),
			"admin_comments": d.Comments,
			"updated_by":     d.DecidedBy,
			"update_date":    d.DecidedAt,
			"updated_at":     time.Now().In(r.loc),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, countErr := r.leave.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return leave.LeaveRequest{}, fmt.Errorf("count leave requests: %w", countErr)
		}
		if n == 0 {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("update leave request: %w", err)
	}
	return r.toEntity(doc)
}

func (r *leaveRequestRepository) CountByStatus(ctx context.Context, status leave.Status, userID *string) (int64, error) {
	filter := bson.M{"status": string(status)}
	if userID != nil {
		filter["user_id"] = *userID
	}
	n, err := r.leave.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count leave requests: %w", err)
	}
	return n, nil
}
