package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewLeaveRequestRepository(db *database.DB, loc *time.Location) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db, loc: loc}
}

const leaveColumns = `
	l.id, l.user_id, l.start_date, l.end_date, l.reason, l.status, l.request_date,
	l.admin_comments, l.updated_by, l.update_date, l.created_at, l.updated_at`

func (r *leaveRequestRepository) scanLeave(row pgx.Row, join bool) (leave.LeaveRequest, error) {
	var (
		req               leave.LeaveRequest
		start, end        time.Time
		name, username    *string
		email, department *string
	)
	dest := []any{
		&req.ID, &req.UserID, &start, &end, &req.Reason, &req.Status, &req.RequestDate,
		&req.AdminComments, &req.UpdatedBy, &req.UpdateDate, &req.CreatedAt, &req.UpdatedAt,
	}
	if join {
		dest = append(dest, &name, &username, &email, &department)
	}
	if err := row.Scan(dest...); err != nil {
		return leave.LeaveRequest{}, err
	}

	req.StartDate = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, r.loc)
	req.EndDate = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, r.loc)
	req.RequestDate = req.RequestDate.In(r.loc)
	if join && name != nil {
		req.User = &user.Summary{ID: req.UserID, Name: *name, Username: deref(username), Email: deref(email), Department: deref(department)}
	}
	return req, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		request.ID = uuid.NewString()
	}

	query := `
		INSERT INTO leave_requests AS l (id, user_id, start_date, end_date, reason, status, request_date)
		VALUES ($1, $2, $3::date, $4::date, $5, $6, $7)
		RETURNING ` + leaveColumns

	created, err := r.scanLeave(q.QueryRow(ctx, query,
		request.ID, request.UserID,
		request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"),
		request.Reason, request.Status, request.RequestDate,
	), false)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	req, err := r.scanLeave(q.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_requests l WHERE l.id = $1`, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return r.list(ctx, `SELECT `+leaveColumns+` FROM leave_requests l WHERE l.user_id = $1 ORDER BY l.request_date DESC`, false, userID)
}

// ListAll implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, `
		SELECT `+leaveColumns+`, u.name, u.username, u.email, u.department
		FROM leave_requests l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.request_date DESC`, true)
}

func (r *leaveRequestRepository) list(ctx context.Context, query string, join bool, args ...any) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := r.scanLeave(rows, join)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Decide implements leave.LeaveRequestRepository. The status = 'pending'
// guard makes the transition happen at most once.
func (r *leaveRequestRepository) Decide(ctx context.Context, id string, d leave.Decision) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	var decided leave.LeaveRequest
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var status leave.Status
		err := q.QueryRow(ctx, `SELECT status FROM leave_requests WHERE id = $1 FOR UPDATE`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock leave request: %w", err)
		}
		if status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		decided, err = r.scanLeave(q.QueryRow(ctx, `
			UPDATE leave_requests AS l
			SET status = $2, admin_comments = $3, updated_by = $4, update_date = $5, updated_at = NOW()
			WHERE l.id = $1
			RETURNING `+leaveColumns,
			id, d.Status, d.Comments, d.DecidedBy, d.DecidedAt,
		), false)
		if err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return decided, nil
}

// CountByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) CountByStatus(ctx context.Context, status leave.Status, userID *string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM leave_requests WHERE status = $1`
	args := []any{status}
	if userID != nil {
		query += ` AND user_id = $2`
		args = append(args, *userID)
	}

	var n int64
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return n, nil
}
