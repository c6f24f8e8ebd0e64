package postgresql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL, migrates, and truncates all tables.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))

	_, err = db.Exec(ctx, `TRUNCATE finance_records, leave_requests, attendances, users CASCADE`)
	require.NoError(t, err)

	t.Cleanup(db.Close)
	return db
}

func createUser(t *testing.T, repo user.UserRepository, username string) user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), user.User{
		Username:     username,
		Name:         "Test " + username,
		Email:        username + "@company.com",
		PasswordHash: "x",
		Role:         user.RoleEmployee,
		Department:   "Engineering",
	})
	require.NoError(t, err)
	return u
}

func TestUserRepositoryDuplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	createUser(t, repo, "john.doe")

	_, err := repo.Create(context.Background(), user.User{Username: "john.doe", Name: "Other", Email: "other@company.com", PasswordHash: "x", Role: user.RoleEmployee, Department: "HR"})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	_, err = repo.Create(context.Background(), user.User{Username: "other", Name: "Other", Email: "john.doe@company.com", PasswordHash: "x", Role: user.RoleEmployee, Department: "HR"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepositoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	loc := time.UTC
	u := createUser(t, NewUserRepository(db), "michael.chen")
	repo := NewAttendanceRepository(db, loc)

	checkIn := time.Date(2024, 11, 4, 9, 0, 0, 0, loc)
	created, err := repo.Create(ctx, attendance.NewCheckIn(u.ID, checkIn, &attendance.Location{Lat: 40.7128, Lng: -74.006, Accuracy: 12}))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, created.Status)
	assert.Equal(t, 40.7128, created.CheckInLocation.Lat)

	_, err = repo.Create(ctx, attendance.NewCheckIn(u.ID, checkIn.Add(3*time.Hour), nil))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	require.NoError(t, created.Close(time.Date(2024, 11, 4, 17, 30, 0, 0, loc), nil))
	require.NoError(t, repo.CloseOpen(ctx, created))
	assert.ErrorIs(t, repo.CloseOpen(ctx, created), attendance.ErrNoActiveCheckIn)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.HoursWorked)
	assert.Equal(t, 8.5, *stored.HoursWorked)

	start, end := "2024-11-04", "2024-11-04"
	all, err := repo.ListAll(ctx, attendance.HistoryFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "michael.chen", all[0].User.Username)

	require.NoError(t, repo.DeleteByUserAndDate(ctx, u.ID, attendance.DayOf(checkIn, loc)))
	assert.ErrorIs(t, repo.DeleteByUserAndDate(ctx, u.ID, attendance.DayOf(checkIn, loc)), attendance.ErrAttendanceNotFound)
}

func TestLeaveAndFinanceRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	loc := time.UTC
	u := createUser(t, NewUserRepository(db), "emily.brown")

	leaves := NewLeaveRequestRepository(db, loc)
	day := time.Date(2024, 12, 2, 0, 0, 0, 0, loc)
	req, err := leaves.Create(ctx, leave.LeaveRequest{UserID: u.ID, StartDate: day, EndDate: day.AddDate(0, 0, 2), Reason: "vacation", Status: leave.StatusPending, RequestDate: time.Now()})
	require.NoError(t, err)

	_, err = leaves.Decide(ctx, req.ID, leave.Decision{Status: leave.StatusRejected, DecidedBy: u.ID, DecidedAt: time.Now()})
	require.NoError(t, err)
	_, err = leaves.Decide(ctx, req.ID, leave.Decision{Status: leave.StatusApproved, DecidedBy: u.ID, DecidedAt: time.Now()})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	ledger := NewFinanceRepository(db, loc)
	_, err = ledger.Create(ctx, finance.Record{Type: finance.TypeIncome, Amount: 50000, Category: "Sales Revenue", Date: day, CreatedBy: u.ID})
	require.NoError(t, err)
	_, err = ledger.Create(ctx, finance.Record{Type: finance.TypeExpense, Amount: 8500, Category: "Marketing", Date: day, CreatedBy: u.ID})
	require.NoError(t, err)

	totals, err := ledger.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 41500.0, totals.Balance())
}
