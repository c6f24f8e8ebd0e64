package attendance

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var jakarta = time.FixedZone("WIB", 7*3600)

type fixture struct {
	svc   attendance.AttendanceService
	repo  attendance.AttendanceRepository
	users user.UserRepository
	now   time.Time
	jwt   jwt.Service
}

func newFixture(t *testing.T, storeLocation bool) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		repo:  memory.NewAttendanceRepository(store),
		users: memory.NewUserRepository(store),
		now:   time.Date(2024, 11, 4, 9, 0, 0, 0, jakarta),
		jwt:   jwt.NewJWTService("test-secret", "1h"),
	}
	f.svc = NewAttendanceService(f.repo, jakarta, storeLocation, WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) as(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	ctx, err := jwt.ContextWithToken(context.Background(), f.jwt, token)
	require.NoError(t, err)
	return ctx
}

func TestCheckInThenCheckOut(t *testing.T) {
	f := newFixture(t, true)
	ctx := f.as(t, "u1", user.RoleEmployee)

	loc := &attendance.Location{Lat: -6.2, Lng: 106.8, Accuracy: 8}
	in, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{Location: loc})
	require.NoError(t, err)
	assert.Equal(t, "present", in.Status)
	assert.Equal(t, "2024-11-04", in.Date)
	assert.Equal(t, loc, in.CheckInLocation)
	assert.Nil(t, in.CheckOut)

	f.now = time.Date(2024, 11, 4, 17, 30, 0, 0, jakarta)
	out, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{RecordID: in.ID})
	require.NoError(t, err)
	require.NotNil(t, out.HoursWorked)
	assert.Equal(t, 8.5, *out.HoursWorked)
	assert.Equal(t, "present", out.Status)
	assert.Equal(t, &attendance.Location{}, out.CheckOutLocation)

	history, err := f.svc.GetHistory(ctx, attendance.HistoryFilter{})
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSecondCheckInSameDayRejected(t *testing.T) {
	f := newFixture(t, true)
	ctx := f.as(t, "u1", user.RoleEmployee)

	in, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// still rejected once the day is completed
	f.now = f.now.Add(8 * time.Hour)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{RecordID: in.ID})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// the next day opens a new record
	f.now = f.now.Add(16 * time.Hour)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	assert.NoError(t, err)
}

func TestLateCheckIn(t *testing.T) {
	f := newFixture(t, true)
	f.now = time.Date(2024, 11, 4, 9, 0, 1, 0, jakarta)

	in, err := f.svc.CheckIn(f.as(t, "u1", user.RoleEmployee), attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "late", in.Status)
}

func TestCheckOutPreconditions(t *testing.T) {
	f := newFixture(t, true)
	owner := f.as(t, "u1", user.RoleEmployee)
	other := f.as(t, "u2", user.RoleEmployee)

	_, err := f.svc.CheckOut(owner, attendance.CheckOutRequest{RecordID: "missing"})
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)

	in, err := f.svc.CheckIn(owner, attendance.CheckInRequest{})
	require.NoError(t, err)

	t.Run("not the owner", func(t *testing.T) {
		_, err := f.svc.CheckOut(other, attendance.CheckOutRequest{RecordID: in.ID})
		assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)

		stored, err := f.repo.GetByID(context.Background(), in.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsOpen())
	})

	t.Run("already closed", func(t *testing.T) {
		_, err := f.svc.CheckOut(owner, attendance.CheckOutRequest{RecordID: in.ID})
		require.NoError(t, err)
		_, err = f.svc.CheckOut(owner, attendance.CheckOutRequest{RecordID: in.ID})
		assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)
	})

	t.Run("yesterday's record", func(t *testing.T) {
		f.now = time.Date(2024, 11, 5, 8, 0, 0, 0, jakarta)
		y, err := f.svc.CheckIn(other, attendance.CheckInRequest{})
		require.NoError(t, err)

		f.now = time.Date(2024, 11, 6, 8, 0, 0, 0, jakarta)
		_, err = f.svc.CheckOut(other, attendance.CheckOutRequest{RecordID: y.ID})
		assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)
	})
}

func TestLocationPersistenceDisabled(t *testing.T) {
	f := newFixture(t, false)

	in, err := f.svc.CheckIn(f.as(t, "u1", user.RoleEmployee), attendance.CheckInRequest{
		Location: &attendance.Location{Lat: 1, Lng: 2, Accuracy: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, &attendance.Location{}, in.CheckInLocation)
}

func TestInvalidLocationRejected(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.CheckIn(f.as(t, "u1", user.RoleEmployee), attendance.CheckInRequest{
		Location: &attendance.Location{Lat: 91},
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "location.lat")
}

func TestGetToday(t *testing.T) {
	f := newFixture(t, true)
	ctx := f.as(t, "u1", user.RoleEmployee)

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.Nil(t, today)

	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{})
	require.NoError(t, err)

	today, err = f.svc.GetToday(ctx)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, "u1", today.UserID)
}

func TestHistoryRangeValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := f.as(t, "u1", user.RoleEmployee)

	start, end := "2024-11-05", "2024-11-01"
	_, err := f.svc.GetHistory(ctx, attendance.HistoryFilter{StartDate: &start, EndDate: &end})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	bad := "04/11/2024"
	_, err = f.svc.GetHistory(ctx, attendance.HistoryFilter{StartDate: &bad})
	require.ErrorAs(t, err, &verrs)
}

func TestAdminOperations(t *testing.T) {
	f := newFixture(t, true)
	admin := f.as(t, "admin-1", user.RoleAdmin)
	employee := f.as(t, "u1", user.RoleEmployee)

	_, err := f.users.Create(context.Background(), user.User{ID: "u1", Username: "john.doe", Name: "John Doe", Email: "john.doe@company.com", Role: user.RoleEmployee, Department: "Engineering"})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(employee, attendance.CheckInRequest{})
	require.NoError(t, err)

	t.Run("employee is forbidden", func(t *testing.T) {
		_, err := f.svc.ListAll(employee, attendance.HistoryFilter{})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
		assert.ErrorIs(t, f.svc.ResetToday(employee, "u1"), user.ErrInsufficientPermissions)
	})

	t.Run("list all joins identity", func(t *testing.T) {
		all, err := f.svc.ListAll(admin, attendance.HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.NotNil(t, all[0].User)
		assert.Equal(t, "John Doe", all[0].User.Name)
	})

	t.Run("export", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.svc.Export(admin, attendance.HistoryFilter{}, &buf))

		wb, err := excelize.OpenReader(&buf)
		require.NoError(t, err)
		defer wb.Close()

		rows, err := wb.GetRows(exportSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, exportHeaders, rows[0])
		assert.Equal(t, "John Doe", rows[1][1])
	})

	t.Run("reset", func(t *testing.T) {
		require.NoError(t, f.svc.ResetToday(admin, "u1"))
		assert.ErrorIs(t, f.svc.ResetToday(admin, "u1"), attendance.ErrAttendanceNotFound)

		_, err := f.svc.CheckIn(employee, attendance.CheckInRequest{})
		assert.NoError(t, err)
	})
}
