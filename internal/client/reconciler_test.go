package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

var (
	budi  = user.Principal{ID: "u-budi", Role: user.RoleEmployee}
	admin = user.Principal{ID: "u-admin", Role: user.RoleAdmin}
)

var errUnreachable = errors.New("dial tcp 127.0.0.1:4000: connect: connection refused")

type fakeSource struct {
	history    []Record
	historyErr error

	checkIn    Record
	checkInErr error

	checkOut    Record
	checkOutErr error

	resetErr error

	calls map[string]int
}

func (f *fakeSource) count(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeSource) History(ctx context.Context) ([]Record, error) {
	f.count("history")
	return append([]Record(nil), f.history...), f.historyErr
}

func (f *fakeSource) CheckIn(ctx context.Context, location *attendance.Location) (Record, error) {
	f.count("checkin")
	return f.checkIn, f.checkInErr
}

func (f *fakeSource) CheckOut(ctx context.Context, recordID string, location *attendance.Location) (Record, error) {
	f.count("checkout")
	return f.checkOut, f.checkOutErr
}

func (f *fakeSource) ResetToday(ctx context.Context, userID string) error {
	f.count("reset")
	return f.resetErr
}

type harness struct {
	store  *storage.LocalStorage
	mirror *Mirror
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return &harness{
		store:  store,
		mirror: NewMirror(store),
		now:    time.Date(2024, 11, 4, 8, 45, 0, 0, wib),
	}
}

func (h *harness) repo(src Source) *Repository {
	opts := []Option{
		WithClock(func() time.Time { return h.now }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	if src != nil {
		opts = append(opts, WithPrimary(src))
	}
	return NewRepository(h.mirror, wib, opts...)
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrFloat(f float64) *float64    { return &f }

func serverRecord(id, userID string, in time.Time, out *time.Time) Record {
	rec := Record{ID: id, UserID: userID, Date: in.Format(attendance.DateLayout), Status: "present", CheckIn: ptrTime(in), Origin: OriginServer}
	if out != nil {
		rec.CheckOut = out
		rec.HoursWorked = ptrFloat(attendance.HoursWorked(in, *out))
	}
	return rec
}

func TestLoad_ServerHistoryIsWrittenThrough(t *testing.T) {
	h := newHarness(t)
	src := &fakeSource{history: []Record{
		serverRecord("a1", budi.ID, time.Date(2024, 11, 1, 8, 0, 0, 0, wib), nil),
		serverRecord("a2", budi.ID, time.Date(2024, 11, 4, 8, 0, 0, 0, wib), nil),
	}}

	require.NoError(t, h.repo(src).Load(context.Background()))

	mirrored, found, err := h.mirror.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, mirrored, 2)
	assert.Equal(t, "a2", mirrored[0].ID, "newest first")
}

func TestLoad_NoServerNoMirrorIsEmpty(t *testing.T) {
	h := newHarness(t)
	repo := h.repo(&fakeSource{historyErr: errUnreachable})

	records, err := repo.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	_, found, err := h.mirror.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found, "nothing is seeded implicitly")
}

func TestFallbackReadsAreStable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seeded := serverRecord("a1", budi.ID, time.Date(2024, 11, 4, 8, 10, 0, 0, wib), nil)
	require.NoError(t, h.mirror.Save(ctx, []Record{seeded}))

	src := &fakeSource{historyErr: &APIError{StatusCode: http.StatusBadGateway}}
	repo := h.repo(src)

	first, err := repo.Today(ctx, budi.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Load(ctx))
		again, err := repo.Today(ctx, budi.ID)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCheckInCheckOut_MergeReplaces(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	in := time.Date(2024, 11, 4, 8, 45, 0, 0, wib)
	out := time.Date(2024, 11, 4, 17, 15, 0, 0, wib)

	src := &fakeSource{
		checkIn:  serverRecord("srv-1", budi.ID, in, nil),
		checkOut: serverRecord("srv-1", budi.ID, in, &out),
	}
	repo := h.repo(src)

	_, err := repo.CheckIn(ctx, budi, nil)
	require.NoError(t, err)
	_, err = repo.CheckOut(ctx, budi, "", nil)
	require.NoError(t, err)

	records, err := repo.ByUser(ctx, budi.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].CheckIn)
	assert.NotNil(t, records[0].CheckOut)
	assert.Equal(t, 8.5, *records[0].HoursWorked)
}

func TestServerCheckInReplacesLocalEntryForSameDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	local := serverRecord("local-1", budi.ID, time.Date(2024, 11, 4, 8, 0, 0, 0, wib), nil)
	local.Origin = OriginLocal
	require.NoError(t, h.mirror.Save(ctx, []Record{local}))

	src := &fakeSource{
		historyErr: errUnreachable,
		checkIn:    serverRecord("srv-9", budi.ID, time.Date(2024, 11, 4, 8, 45, 0, 0, wib), nil),
	}
	repo := h.repo(src)

	_, err := repo.CheckIn(ctx, budi, nil)
	require.NoError(t, err)

	records, err := repo.ByUser(ctx, budi.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "srv-9", records[0].ID)
}

func TestBusinessRejectionIsSurfaced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	src := &fakeSource{checkInErr: &APIError{StatusCode: http.StatusConflict, Code: "CONFLICT", Message: "already checked in today"}}
	repo := h.repo(src)

	_, err := repo.CheckIn(ctx, budi, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "rejections are not replayed locally")
}

func TestFallbackCheckInAppliesRulesLocally(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	src := &fakeSource{historyErr: errUnreachable, checkInErr: errUnreachable, checkOutErr: errUnreachable}
	repo := h.repo(src)

	h.now = time.Date(2024, 11, 4, 9, 0, 1, 0, wib)
	rec, err := repo.CheckIn(ctx, budi, &attendance.Location{Lat: -6.2, Lng: 106.8})
	require.NoError(t, err)
	assert.Equal(t, OriginLocal, rec.Origin)
	assert.Equal(t, "late", rec.Status)
	assert.Equal(t, "2024-11-04", rec.Date)
	assert.NotEmpty(t, rec.ID)

	_, err = repo.CheckIn(ctx, budi, nil)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	h.now = time.Date(2024, 11, 4, 17, 30, 1, 0, wib)
	closed, err := repo.CheckOut(ctx, budi, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 8.5, *closed.HoursWorked)
	assert.Equal(t, "late", closed.Status)
	assert.Equal(t, 2, src.calls["checkin"])
	assert.Zero(t, src.calls["checkout"], "local records are closed without the server")

	mirrored, _, err := h.mirror.Load(ctx)
	require.NoError(t, err)
	require.Len(t, mirrored, 1)
	assert.NotNil(t, mirrored[0].CheckOut)

	_, err = repo.CheckOut(ctx, budi, rec.ID, nil)
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)
}

func TestUnreadableCheckInReplyIsNotReplayed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unreadable := &ResponseError{Method: http.MethodPost, Path: "/api/v1/attendance/checkin", Err: io.ErrUnexpectedEOF}
	repo := h.repo(&fakeSource{checkInErr: unreadable})

	_, err := repo.CheckIn(ctx, budi, nil)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_DropsLocalOnlyRecords(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	src := &fakeSource{historyErr: errUnreachable, checkInErr: errUnreachable}
	repo := h.repo(src)

	local, err := repo.CheckIn(ctx, budi, nil)
	require.NoError(t, err)
	require.Equal(t, OriginLocal, local.Origin)

	// The server comes back without ever having seen the offline check-in.
	src.historyErr, src.checkInErr = nil, nil
	src.checkIn = serverRecord("s1", budi.ID, h.now, nil)
	require.NoError(t, repo.Load(ctx))

	mirrored, found, err := h.mirror.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, mirrored)

	_, err = repo.CheckOut(ctx, budi, "", nil)
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)

	again, err := repo.CheckIn(ctx, budi, nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", again.ID)
	assert.Equal(t, OriginServer, again.Origin)
	assert.Equal(t, 2, src.calls["checkin"])
}

func TestCheckOutWithoutOpenRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := h.repo(nil)

	_, err := repo.CheckOut(ctx, budi, "", nil)
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)

	yesterday := serverRecord("old", budi.ID, time.Date(2024, 11, 3, 8, 0, 0, 0, wib), nil)
	require.NoError(t, repo.Replace(ctx, []Record{yesterday}))

	_, err = repo.CheckOut(ctx, budi, "old", nil)
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	assert.Nil(t, records[0].CheckOut)
}

func TestRemoveToday(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := h.repo(nil)

	_, err := repo.CheckIn(ctx, budi, nil)
	require.NoError(t, err)

	err = repo.RemoveToday(ctx, budi, budi.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	require.NoError(t, repo.RemoveToday(ctx, admin, budi.ID))
	today, err := repo.Today(ctx, budi.ID)
	require.NoError(t, err)
	assert.Nil(t, today)

	assert.ErrorIs(t, repo.RemoveToday(ctx, admin, budi.ID), attendance.ErrAttendanceNotFound)
}

func TestHoursWorked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	repo := h.repo(nil)

	out := time.Date(2024, 11, 1, 17, 30, 0, 0, wib)
	require.NoError(t, repo.Replace(ctx, []Record{
		serverRecord("a1", budi.ID, time.Date(2024, 11, 1, 9, 0, 0, 0, wib), &out),
	}))

	hours, err := repo.HoursWorked(ctx, budi.ID, "2024-11-01")
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)

	hours, err = repo.HoursWorked(ctx, budi.ID, "2024-11-02")
	require.NoError(t, err)
	assert.Zero(t, hours)

	_, err = repo.HoursWorked(ctx, budi.ID, "01/11/2024")
	assert.Error(t, err)
}

func TestFallbackable(t *testing.T) {
	assert.True(t, Fallbackable(errUnreachable))
	assert.True(t, Fallbackable(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, Fallbackable(&APIError{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, Fallbackable(&APIError{StatusCode: http.StatusConflict}))
	assert.False(t, Fallbackable(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, Fallbackable(&APIError{StatusCode: http.StatusUnprocessableEntity}))
	assert.False(t, Fallbackable(context.Canceled))
	assert.False(t, Fallbackable(nil))
}
