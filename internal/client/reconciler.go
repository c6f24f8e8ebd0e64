package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// Repository is the two-tier attendance view: an optional primary Source and
// a Cache mirror. Every successful read or write goes through reconcile and
// is persisted to the mirror.
type Repository struct {
	mu sync.Mutex

	primary Source
	cache   Cache
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger

	records []Record
	loaded  bool
}

type Option func(*Repository)

// WithPrimary sets the authoritative source. Without one the repository runs
// entirely against the mirror.
func WithPrimary(src Source) Option {
	return func(r *Repository) { r.primary = src }
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

func NewRepository(cache Cache, loc *time.Location, opts ...Option) *Repository {
	r := &Repository{
		cache:  cache,
		loc:    loc,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) today() (time.Time, string) {
	now := r.now().In(r.loc)
	return now, now.Format(attendance.DateLayout)
}

// Load replaces the working set. Server history wins and is written through
// to the mirror; any failure to fetch it falls back to the mirror.
//
// Records that only exist locally (origin local) are discarded when the
// server answers. An offline check-in the server never saw is lost, so a
// later CheckOut reports ErrNoActiveCheckIn and a new CheckIn goes through
// on the server.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Repository) load(ctx context.Context) error {
	if r.primary != nil {
		records, err := r.primary.History(ctx)
		if err == nil {
			r.records = records
			sortNewestFirst(r.records)
			r.loaded = true
			return r.persist(ctx)
		}
		r.logger.WarnContext(ctx, "attendance history unavailable, using local mirror", slog.Any("error", err))
	}

	records, found, err := r.cache.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		records = []Record{}
	}
	r.records = records
	sortNewestFirst(r.records)
	r.loaded = true
	return nil
}

func (r *Repository) ensureLoaded(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	return r.load(ctx)
}

func (r *Repository) persist(ctx context.Context) error {
	return r.cache.Save(ctx, r.records)
}

// reconcile merges rec into the working set. An entry with the same id or
// the same (user, date) is replaced; other duplicates of the pair are dropped.
func (r *Repository) reconcile(rec Record) {
	merged := make([]Record, 0, len(r.records)+1)
	replaced := false
	for _, existing := range r.records {
		if existing.ID == rec.ID || (existing.UserID == rec.UserID && existing.Date == rec.Date) {
			if !replaced {
				merged = append(merged, rec)
				replaced = true
			}
			continue
		}
		merged = append(merged, existing)
	}
	if !replaced {
		merged = append(merged, rec)
	}
	sortNewestFirst(merged)
	r.records = merged
}

func (r *Repository) find(match func(Record) bool) (int, bool) {
	for i, rec := range r.records {
		if match(rec) {
			return i, true
		}
	}
	return -1, false
}

// CheckIn records a check-in for p. The server is tried first; transport and
// server faults fall back to a local replay of the same rules.
func (r *Repository) CheckIn(ctx context.Context, p user.Principal, location *attendance.Location) (Record, error) {
	if err := user.RequireRole(p, user.RoleAdmin, user.RoleEmployee); err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return Record{}, err
	}

	if r.primary != nil {
		rec, err := r.primary.CheckIn(ctx, location)
		if err == nil {
			r.reconcile(rec)
			return rec, r.persist(ctx)
		}
		if !Fallbackable(err) {
			return Record{}, err
		}
		r.logger.WarnContext(ctx, "check-in not accepted by server, applying locally", slog.Any("error", err))
	}

	now, today := r.today()
	if _, ok := r.find(func(rec Record) bool { return rec.UserID == p.ID && rec.Date == today }); ok {
		return Record{}, attendance.ErrAlreadyCheckedIn
	}

	att := attendance.NewCheckIn(p.ID, now, attendance.ResolveLocation(location, true))
	att.ID = uuid.NewString()
	rec := FromAttendance(att, OriginLocal)

	r.reconcile(rec)
	return rec, r.persist(ctx)
}

// CheckOut closes the open record recordID, or today's open record for p when
// recordID is empty. Records created locally are closed locally.
func (r *Repository) CheckOut(ctx context.Context, p user.Principal, recordID string, location *attendance.Location) (Record, error) {
	if err := user.RequireRole(p, user.RoleAdmin, user.RoleEmployee); err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return Record{}, err
	}

	_, today := r.today()
	idx, found := r.find(func(rec Record) bool {
		if recordID != "" {
			return rec.ID == recordID
		}
		return rec.UserID == p.ID && rec.Date == today && rec.IsOpen()
	})
	if recordID == "" {
		if !found {
			return Record{}, attendance.ErrNoActiveCheckIn
		}
		recordID = r.records[idx].ID
	}

	if r.primary != nil && !(found && r.records[idx].Origin == OriginLocal) {
		rec, err := r.primary.CheckOut(ctx, recordID, location)
		if err == nil {
			r.reconcile(rec)
			return rec, r.persist(ctx)
		}
		if !Fallbackable(err) {
			return Record{}, err
		}
		r.logger.WarnContext(ctx, "check-out not accepted by server, applying locally", slog.Any("error", err))
	}

	if !found {
		return Record{}, attendance.ErrNoActiveCheckIn
	}
	target := r.records[idx]
	if target.UserID != p.ID || target.Date != today {
		return Record{}, attendance.ErrNoActiveCheckIn
	}

	att, err := target.toAttendance(r.loc)
	if err != nil {
		return Record{}, err
	}
	now, _ := r.today()
	if err := att.Close(now, attendance.ResolveLocation(location, true)); err != nil {
		return Record{}, err
	}

	rec := FromAttendance(att, OriginLocal)
	r.reconcile(rec)
	return rec, r.persist(ctx)
}

// RemoveToday deletes today's record for userID. Admin only.
func (r *Repository) RemoveToday(ctx context.Context, p user.Principal, userID string) error {
	if err := user.RequireRole(p, user.RoleAdmin); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	serverMissing := false
	if r.primary != nil {
		err := r.primary.ResetToday(ctx, userID)
		switch {
		case err == nil:
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			serverMissing = true
		case Fallbackable(err):
			r.logger.WarnContext(ctx, "reset not accepted by server, applying locally", slog.Any("error", err))
		default:
			return err
		}
	}

	_, today := r.today()
	idx, found := r.find(func(rec Record) bool { return rec.UserID == userID && rec.Date == today })
	if !found {
		if r.primary == nil || serverMissing {
			return attendance.ErrAttendanceNotFound
		}
		return nil
	}

	r.records = append(r.records[:idx], r.records[idx+1:]...)
	return r.persist(ctx)
}

// Records returns a copy of the working set, newest first.
func (r *Repository) Records(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return append([]Record(nil), r.records...), nil
}

// ByUser returns userID's records, newest first.
func (r *Repository) ByUser(ctx context.Context, userID string) ([]Record, error) {
	records, err := r.Records(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Today returns userID's record for today, or nil.
func (r *Repository) Today(ctx context.Context, userID string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	_, today := r.today()
	idx, found := r.find(func(rec Record) bool { return rec.UserID == userID && rec.Date == today })
	if !found {
		return nil, nil
	}
	rec := r.records[idx]
	return &rec, nil
}

// HoursWorked returns the hours recorded for userID on date (YYYY-MM-DD), or
// 0 when there is no completed record.
func (r *Repository) HoursWorked(ctx context.Context, userID, date string) (float64, error) {
	if _, err := time.Parse(attendance.DateLayout, date); err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}

	records, err := r.ByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		if rec.Date == date && rec.HoursWorked != nil {
			return *rec.HoursWorked, nil
		}
	}
	return 0, nil
}

// Replace overwrites the mirror with records, used by explicit seeding.
func (r *Repository) Replace(ctx context.Context, records []Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append([]Record(nil), records...)
	sortNewestFirst(r.records)
	r.loaded = true
	return r.persist(ctx)
}
