package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_MONGODB_URI and uses a throwaway database.
func setupTestDB(t *testing.T) *database.MongoDB {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	db, err := database.NewMongoDB(uri, "dashpro_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(context.Background(), db))

	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Drop(ctx)
		_ = db.Close(ctx)
	})
	return db
}

func TestAttendanceRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	loc := time.UTC

	users := NewUserRepository(db)
	repo := NewAttendanceRepository(db, loc)

	u, err := users.Create(ctx, user.User{Username: "jane.smith", Name: "Jane Smith", Email: "jane.smith@company.com", Role: user.RoleEmployee, Department: "Marketing"})
	require.NoError(t, err)

	checkIn := time.Date(2024, 11, 4, 9, 0, 1, 0, loc)
	created, err := repo.Create(ctx, attendance.NewCheckIn(u.ID, checkIn, &attendance.Location{Lat: 40.7128, Lng: -74.006, Accuracy: 10}))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, created.Status)

	t.Run("unique per user and day", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.NewCheckIn(u.ID, checkIn.Add(time.Hour), nil))
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	})

	t.Run("close once", func(t *testing.T) {
		open, err := repo.GetByUserAndDate(ctx, u.ID, attendance.DayOf(checkIn, loc))
		require.NoError(t, err)
		require.NotNil(t, open)

		require.NoError(t, open.Close(checkIn.Add(8*time.Hour), nil))
		require.NoError(t, repo.CloseOpen(ctx, *open))
		assert.ErrorIs(t, repo.CloseOpen(ctx, *open), attendance.ErrNoActiveCheckIn)
	})

	t.Run("list all joins user", func(t *testing.T) {
		all, err := repo.ListAll(ctx, attendance.HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.NotNil(t, all[0].User)
		assert.Equal(t, "Jane Smith", all[0].User.Name)
		assert.Equal(t, "2024-11-04", all[0].Date.Format(dateLayout))
	})

	t.Run("count and delete", func(t *testing.T) {
		day := attendance.DayOf(checkIn, loc)
		counts, err := repo.CountByStatus(ctx, day, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[attendance.StatusLate])

		require.NoError(t, repo.DeleteByUserAndDate(ctx, u.ID, day))
		assert.ErrorIs(t, repo.DeleteByUserAndDate(ctx, u.ID, day), attendance.ErrAttendanceNotFound)
	})
}

func TestLeaveRequestDecideOnce(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewLeaveRequestRepository(db, time.UTC)

	day := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	req, err := repo.Create(ctx, leave.LeaveRequest{UserID: "u1", StartDate: day, EndDate: day, Reason: "family", Status: leave.StatusPending, RequestDate: time.Now()})
	require.NoError(t, err)

	d := leave.Decision{Status: leave.StatusApproved, DecidedBy: "admin", DecidedAt: time.Now()}
	decided, err := repo.Decide(ctx, req.ID, d)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, decided.Status)

	_, err = repo.Decide(ctx, req.ID, d)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	_, err = repo.Decide(ctx, "missing", d)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
