package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, loc: loc}
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.status, a.check_in, a.check_out,
	a.check_in_lat, a.check_in_lng, a.check_in_accuracy,
	a.check_out_lat, a.check_out_lng, a.check_out_accuracy,
	a.hours_worked, a.created_at, a.updated_at`

// scanAttendance reads attendanceColumns, optionally followed by the joined
// user name, username, email and department.
func (r *attendanceRepository) scanAttendance(row pgx.Row, join bool) (attendance.Attendance, error) {
	var (
		att                   attendance.Attendance
		date                  time.Time
		inLat, inLng, inAcc   *float64
		outLat, outLng, outAc *float64
		name, username        *string
		email, department     *string
	)
	dest := []any{
		&att.ID, &att.UserID, &date, &att.Status, &att.CheckIn, &att.CheckOut,
		&inLat, &inLng, &inAcc,
		&outLat, &outLng, &outAc,
		&att.HoursWorked, &att.CreatedAt, &att.UpdatedAt,
	}
	if join {
		dest = append(dest, &name, &username, &email, &department)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}

	att.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
	att.CheckInLocation = toLocation(inLat, inLng, inAcc)
	att.CheckOutLocation = toLocation(outLat, outLng, outAc)
	if att.CheckIn != nil {
		t := att.CheckIn.In(r.loc)
		att.CheckIn = &t
	}
	if att.CheckOut != nil {
		t := att.CheckOut.In(r.loc)
		att.CheckOut = &t
	}
	if join && name != nil {
		att.User = &user.Summary{ID: att.UserID, Name: *name, Username: deref(username), Email: deref(email), Department: deref(department)}
	}
	return att, nil
}

func toLocation(lat, lng, acc *float64) *attendance.Location {
	if lat == nil || lng == nil {
		return nil
	}
	return &attendance.Location{Lat: *lat, Lng: *lng, Accuracy: deref(acc)}
}

func fromLocation(loc *attendance.Location) (lat, lng, acc *float64) {
	if loc == nil {
		return nil, nil, nil
	}
	return &loc.Lat, &loc.Lng, &loc.Accuracy
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	inLat, inLng, inAcc := fromLocation(att.CheckInLocation)
	outLat, outLng, outAcc := fromLocation(att.CheckOutLocation)

	query := `
		INSERT INTO attendances AS a (
			id, user_id, date, status, check_in, check_out,
			check_in_lat, check_in_lng, check_in_accuracy,
			check_out_lat, check_out_lng, check_out_accuracy, hours_worked
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + attendanceColumns

	created, err := r.scanAttendance(q.QueryRow(ctx, query,
		att.ID, att.UserID, att.Date.Format(attendance.DateLayout), att.Status, att.CheckIn, att.CheckOut,
		inLat, inLng, inAcc,
		outLat, outLng, outAcc, att.HoursWorked,
	), false)
	if err != nil {
		if uniqueConstraint(err) == "attendances_user_date_key" {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	att, err := r.scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendances a WHERE a.id = $1`, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	att, err := r.scanAttendance(q.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendances a WHERE a.user_id = $1 AND a.date = $2::date`,
		userID, date.Format(attendance.DateLayout),
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}
	return &att, nil
}

// CloseOpen implements attendance.AttendanceRepository.
func (r *attendanceRepository) CloseOpen(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	lat, lng, acc := fromLocation(att.CheckOutLocation)
	tag, err := q.Exec(ctx, `
		UPDATE attendances
		SET check_out = $2, check_out_lat = $3, check_out_lng = $4, check_out_accuracy = $5,
		    hours_worked = $6, updated_at = NOW()
		WHERE id = $1 AND check_out IS NULL`,
		att.ID, att.CheckOut, lat, lng, acc, att.HoursWorked,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoActiveCheckIn
	}
	return nil
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	return r.list(ctx, filter, &userID)
}

// ListAll implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListAll(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.Attendance, error) {
	return r.list(ctx, filter, nil)
}

func (r *attendanceRepository) list(ctx context.Context, filter attendance.HistoryFilter, userID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	join := userID == nil

	var (
		where []string
		args  []any
	)
	if userID != nil {
		args = append(args, *userID)
		where = append(where, fmt.Sprintf("a.user_id = $%d", len(args)))
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		args = append(args, *filter.StartDate)
		where = append(where, fmt.Sprintf("a.date >= $%d::date", len(args)))
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		args = append(args, *filter.EndDate)
		where = append(where, fmt.Sprintf("a.date <= $%d::date", len(args)))
	}

	query := `SELECT ` + attendanceColumns
	if join {
		query += `, u.name, u.username, u.email, u.department FROM attendances a LEFT JOIN users u ON u.id = a.user_id`
	} else {
		query += ` FROM attendances a`
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY a.date DESC, a.check_in DESC NULLS LAST`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := r.scanAttendance(rows, join)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

// DeleteByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteByUserAndDate(ctx context.Context, userID string, date time.Time) error {
	if _, err := uuid.Parse(userID); err != nil {
		return attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE user_id = $1 AND date = $2::date`, userID, date.Format(attendance.DateLayout))
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (r *attendanceRepository) CountByStatus(ctx context.Context, date time.Time, userID *string) (map[attendance.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT status, COUNT(*) FROM attendances WHERE date = $1::date`
	args := []any{date.Format(attendance.DateLayout)}
	if userID != nil {
		query += ` AND user_id = $2`
		args = append(args, *userID)
	}
	query += ` GROUP BY status`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}
	defer rows.Close()

	counts := make(map[attendance.Status]int64)
	for rows.Next() {
		var (
			status attendance.Status
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
