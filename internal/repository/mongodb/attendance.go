package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type attendanceDoc struct {
	ID               string               `bson:"_id"`
	UserID           string               `bson:"user_id"`
	Date             string               `bson:"date"`
	Status           string               `bson:"status"`
	CheckIn          *time.Time           `bson:"check_in,omitempty"`
	CheckOut         *time.Time           `bson:"check_out"`
	CheckInLocation  *attendance.Location `bson:"check_in_location,omitempty"`
	CheckOutLocation *attendance.Location `bson:"check_out_location,omitempty"`
	HoursWorked      *float64             `bson:"hours_worked,omitempty"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`

	// Join
	User *userDoc `bson:"user,omitempty"`
}

type attendanceRepository struct {
	attendance *mongo.Collection
	loc        *time.Location
}

// NewAttendanceRepository stores dates as YYYY-MM-DD strings and reads them
// back as midnights in loc.
func NewAttendanceRepository(db *database.MongoDB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{attendance: db.Collection(collectionAttendance), loc: loc}
}

func (r *attendanceRepository) toEntity(d attendanceDoc) (attendance.Attendance, error) {
	date, err := time.ParseInLocation(dateLayout, d.Date, r.loc)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("decode attendance date %q: %w", d.Date, err)
	}
	att := attendance.Attendance{
		ID:               d.ID,
		UserID:           d.UserID,
		Date:             date,
		Status:           attendance.Status(d.Status),
		CheckIn:          r.local(d.CheckIn),
		CheckOut:         r.local(d.CheckOut),
		CheckInLocation:  d.CheckInLocation,
		CheckOutLocation: d.CheckOutLocation,
		HoursWorked:      d.HoursWorked,
		CreatedAt:        d.CreatedAt.In(r.loc),
		UpdatedAt:        d.UpdatedAt.In(r.loc),
	}
	if d.User != nil {
		sum := d.User.toEntity().Summary()
		att.User = &sum
	}
	return att, nil
}

func (r *attendanceRepository) local(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	lt := t.In(r.loc)
	return &lt
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	now := time.Now().In(r.loc)
	att.CreatedAt, att.UpdatedAt = now, now

	_, err := r.attendance.InsertOne(ctx, attendanceDoc{
		ID:               att.ID,
		UserID:           att.UserID,
		Date:             att.Date.Format(dateLayout),
		Status:           string(att.Status),
		CheckIn:          att.CheckIn,
		CheckOut:         att.CheckOut,
		CheckInLocation:  att.CheckInLocation,
		CheckOutLocation: att.CheckOutLocation,
		HoursWorked:      att.HoursWorked,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	return att, nil
}

func (r *attendanceRepository) findOne(ctx context.Context, filter bson.M) (*attendance.Attendance, error) {
	var doc attendanceDoc
	err := r.attendance.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	att, err := r.toEntity(doc)
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return attendance.Attendance{}, err
	}
	if att == nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *att, nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "date": date.Format(dateLayout)})
}

func (r *attendanceRepository) CloseOpen(ctx context.Context, att attendance.Attendance) error {
	res, err := r.attendance.UpdateOne(ctx,
		bson.M{"_id": att.ID, "check_out": nil},
		bson.M{"$set": bson.M{
			"check_out":          att.CheckOut,
			"check_out_location": att.CheckOutLocation,
			"hours_worked":       att.HoursWorked,
			"updated_at":         time.Now().In(r.loc),
		}},
	)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return attendance.ErrNoActiveCheckIn
	}
	return nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	match := bson.M{"user_id": userID}
	if dr := dateRange(filter.StartDate, filter.EndDate); dr != nil {
		match["date"] = dr
	}
	return r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "check_in", Value: -1}}}},
	})
}

func (r *attendanceRepository) ListAll(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	match := bson.M{}
	if dr := dateRange(filter.StartDate, filter.EndDate); dr != nil {
		match["date"] = dr
	}
	return r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "check_in", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
	})
}

func (r *attendanceRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]attendance.Attendance, error) {
	cursor, err := r.attendance.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	var docs []attendanceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	records := make([]attendance.Attendance, 0, len(docs))
	for _, d := range docs {
		att, err := r.toEntity(d)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, nil
}

func (r *attendanceRepository) DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) error {
	res, err := r.attendance.DeleteOne(ctx, bson.M{"user_id": userID, "date": date.Format(dateLayout)})
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if res.DeletedCount == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, date time.Time, userID *string) (map[attendance.Status]int64, error) {
	match := bson.M{"date": date.Format(dateLayout)}
	if userID != nil {
		match["user_id"] = *userID
	}
	cursor, err := r.attendance.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count attendance: %w", err)
	}

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode attendance counts: %w", err)
	}

	counts := make(map[attendance.Status]int64, len(rows))
	for _, row := range rows {
		counts[attendance.Status(row.Status)] = row.Count
	}
	return counts, nil
}
