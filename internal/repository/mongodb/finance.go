package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type financeDoc struct {
	ID          string    `bson:"_id"`
	Type        string    `bson:"type"`
	Amount      float64   `bson:"amount"`
	Category    string    `bson:"category"`
	Date        string    `bson:"date"`
	Description string    `bson:"description"`
	CreatedBy   string    `bson:"created_by"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type financeRepository struct {
	finance *mongo.Collection
	loc     *time.Location
}

func NewFinanceRepository(db *database.MongoDB, loc *time.Location) finance.FinanceRepository {
	return &financeRepository{finance: db.Collection(collectionFinance), loc: loc}
}

func (r *financeRepository) toEntity(d financeDoc) (finance.Record, error) {
	date, err := time.ParseInLocation(dateLayout, d.Date, r.loc)
	if err != nil {
		return finance.Record{}, fmt.Errorf("decode finance date %q: %w", d.Date, err)
	}
	return finance.Record{
		ID:          d.ID,
		Type:        finance.Type(d.Type),
		Amount:      d.Amount,
		Category:    d.Category,
		Date:        date,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt.In(r.loc),
		UpdatedAt:   d.UpdatedAt.In(r.loc),
	}, nil
}

func (r *financeRepository) Create(ctx context.Context, record finance.Record) (finance.Record, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().In(r.loc)
	record.CreatedAt, record.UpdatedAt = now, now

	_, err := r.finance.InsertOne(ctx, financeDoc{
		ID:          record.ID,
		Type:        string(record.Type),
		Amount:      record.Amount,
		Category:    record.Category,
		Date:        record.Date.Format(dateLayout),
		Description: record.Description,
		CreatedBy:   record.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return finance.Record{}, fmt.Errorf("insert finance record: %w", err)
	}
	return record, nil
}

func (r *financeRepository) GetByID(ctx context.Context, id string) (finance.Record, error) {
	var doc financeDoc
	err := r.finance.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return finance.Record{}, finance.ErrFinanceRecordNotFound
	}
	if err != nil {
		return finance.Record{}, fmt.Errorf("find finance record: %w", err)
	}
	return r.toEntity(doc)
}

func (r *financeRepository) List(ctx context.Context, filter finance.ListFilter) ([]finance.Record, error) {
	query := bson.M{}
	if filter.Type != nil && *filter.Type != "" {
		query["type"] = *filter.Type
	}
	if dr := dateRange(filter.StartDate, filter.EndDate); dr != nil {
		query["date"] = dr
	}

	cursor, err := r.finance.Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find finance records: %w", err)
	}
	var docs []financeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode finance records: %w", err)
	}

	records := make([]finance.Record, 0, len(docs))
	for _, d := range docs {
		rec, err := r.toEntity(d)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *financeRepository) Update(ctx context.Context, record finance.Record) (finance.Record, error) {
	var doc financeDoc
	err := r.finance.FindOneAndUpdate(ctx,
		bson.M{"_id": record.ID},
		bson.M{"$set": bson.M{
			"type":        string(record.Type),
			"amount":      record.Amount,
			"category":    record.Category,
			"date":        record.Date.Format(dateLayout),
			"description": record.Description,
			"updated_at":  time.Now().In(r.loc),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return finance.Record{}, finance.ErrFinanceRecordNotFound
	}
	if err != nil {
		return finance.Record{}, fmt.Errorf("update finance record: %w", err)
	}
	return r.toEntity(doc)
}

func (r *financeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.finance.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete finance record: %w", err)
	}
	if res.DeletedCount == 0 {
		return finance.ErrFinanceRecordNotFound
	}
	return nil
}

func (r *financeRepository) Totals(ctx context.Context) (finance.Totals, error) {
	cursor, err := r.finance.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$type", "total": bson.M{"$sum": "$amount"}}}},
	})
	if err != nil {
		return finance.Totals{}, fmt.Errorf("sum finance records: %w", err)
	}

	var rows []struct {
		Type  string  `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return finance.Totals{}, fmt.Errorf("decode finance totals: %w", err)
	}

	var t finance.Totals
	for _, row := range rows {
		switch finance.Type(row.Type) {
		case finance.TypeIncome:
			t.Income = row.Total
		case finance.TypeExpense:
			t.Expenses = row.Total
		}
	}
	return t, nil
}
