package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/storage"
)

// Mirror namespaces in the local document store.
const (
	AttendanceNamespace = "attendanceRecords"
	LeaveNamespace      = "leaveRequests"
	FinanceNamespace    = "financeRecords"
	SessionNamespace    = "session"
)

// Cache is the secondary tier: a persisted copy of the working set.
type Cache interface {
	// Load returns the mirrored records; found is false when nothing was ever saved.
	Load(ctx context.Context) (records []Record, found bool, err error)
	Save(ctx context.Context, records []Record) error
}

type Mirror struct {
	store     storage.DocumentStore
	namespace string
}

func NewMirror(store storage.DocumentStore) *Mirror {
	return &Mirror{store: store, namespace: AttendanceNamespace}
}

// Load implements Cache.
func (m *Mirror) Load(ctx context.Context) ([]Record, bool, error) {
	var records []Record
	if err := m.store.Get(ctx, m.namespace, &records); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read attendance mirror: %w", err)
	}
	return records, true, nil
}

// Save implements Cache.
func (m *Mirror) Save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	if err := m.store.Put(ctx, m.namespace, records); err != nil {
		return fmt.Errorf("failed to write attendance mirror: %w", err)
	}
	return nil
}

// Session is the credential dashctl keeps between invocations.
type Session struct {
	ServerURL string `json:"serverUrl"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

func LoadSession(ctx context.Context, store storage.DocumentStore) (Session, bool, error) {
	var s Session
	if err := store.Get(ctx, SessionNamespace, &s); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, false, nil
		}
		return Session{}, false, err
	}
	return s, true, nil
}

func SaveSession(ctx context.Context, store storage.DocumentStore, s Session) error {
	return store.Put(ctx, SessionNamespace, s)
}
