package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/client"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offline prepares a mirror dir with a token-less session, so every command
// runs against the local mirror only.
func offline(t *testing.T, role string) {
	t.Helper()
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	t.Setenv("DASHCTL_MIRROR_DIR", dir)
	t.Setenv("DASHCTL_TIMEZONE", "UTC")

	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, client.SaveSession(context.Background(), store, client.Session{
		UserID:   "u-1",
		Username: "john.doe",
		Role:     role,
	}))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOfflineCheckInCheckOut(t *testing.T) {
	offline(t, "employee")

	out, err := execute(t, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Not checked in today")

	_, err = execute(t, "checkin", "--lat", "-6.2", "--lng", "106.8")
	require.NoError(t, err)

	_, err = execute(t, "checkin")
	assert.ErrorContains(t, err, "already checked in today")

	_, err = execute(t, "checkout")
	require.NoError(t, err)

	out, err = execute(t, "today", "--json")
	require.NoError(t, err)
	var records []client.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].CheckOut)
	assert.Equal(t, client.OriginLocal, records[0].Origin)
}

func TestResetRequiresAdmin(t *testing.T) {
	offline(t, "employee")

	_, err := execute(t, "reset", "u-1")
	assert.ErrorContains(t, err, "insufficient permissions")
}

func TestSeedLocalAndSummary(t *testing.T) {
	offline(t, "employee")

	out, err := execute(t, "seed-local", "--days", "10", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 10 demo records")

	out, err = execute(t, "history", "--json")
	require.NoError(t, err)
	var records []client.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Len(t, records, 10)

	_, err = execute(t, "history", "--start", "2024-02-01", "--end", "2024-01-01")
	assert.Error(t, err)

	_, err = execute(t, "summary", "--month", "March")
	assert.Error(t, err)
}

func TestCommandsNeedSession(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DASHCTL_MIRROR_DIR", t.TempDir())

	_, err := execute(t, "checkin")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestLeaveCommands(t *testing.T) {
	offline(t, "employee")

	out, err := execute(t, "leave", "submit", "--start", "2024-11-11", "--end", "2024-11-12", "--reason", "Family event", "--json")
	require.NoError(t, err)
	var submitted []client.LeaveEntry
	require.NoError(t, json.Unmarshal([]byte(out), &submitted))
	require.Len(t, submitted, 1)
	assert.Equal(t, "pending", submitted[0].Status)

	_, err = execute(t, "leave", "submit", "--start", "2024-11-12", "--end", "2024-11-11", "--reason", "Backwards")
	assert.Error(t, err)

	_, err = execute(t, "leave", "approve", submitted[0].ID)
	assert.ErrorContains(t, err, "insufficient permissions")

	out, err = execute(t, "leave", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Family event")
	assert.Contains(t, out, "pending")
}

func TestLeaveDecisionByAdmin(t *testing.T) {
	offline(t, "admin")

	out, err := execute(t, "leave", "submit", "--start", "2024-11-11", "--end", "2024-11-11", "--reason", "Errand", "--json")
	require.NoError(t, err)
	var submitted []client.LeaveEntry
	require.NoError(t, json.Unmarshal([]byte(out), &submitted))
	require.Len(t, submitted, 1)

	out, err = execute(t, "leave", "reject", submitted[0].ID, "--comment", "Busy week")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected")

	_, err = execute(t, "leave", "approve", submitted[0].ID)
	assert.ErrorContains(t, err, "already processed")
}

func TestFinanceCommands(t *testing.T) {
	offline(t, "employee")
	_, err := execute(t, "finance", "list")
	assert.ErrorContains(t, err, "insufficient permissions")

	offline(t, "admin")
	out, err := execute(t, "finance", "add", "--type", "income", "--amount", "15000", "--category", "Sales", "--date", "2024-11-01", "--json")
	require.NoError(t, err)
	var added []client.FinanceEntry
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	require.Len(t, added, 1)

	_, err = execute(t, "finance", "add", "--type", "expense", "--amount", "4000", "--category", "Rent", "--date", "2024-11-03")
	require.NoError(t, err)

	_, err = execute(t, "finance", "update", added[0].ID, "--amount", "20000")
	require.NoError(t, err)

	out, err = execute(t, "finance", "totals", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_income":20000,"total_expenses":4000,"balance":16000}`, out)

	out, err = execute(t, "finance", "list", "--type", "expense")
	require.NoError(t, err)
	assert.Contains(t, out, "Rent")
	assert.NotContains(t, out, "Sales")

	_, err = execute(t, "finance", "delete", added[0].ID)
	require.NoError(t, err)
	_, err = execute(t, "finance", "delete", added[0].ID)
	assert.ErrorContains(t, err, "finance record not found")
}

func TestSeedLocalLeaveAndFinance(t *testing.T) {
	offline(t, "admin")

	out, err := execute(t, "seed-local", "--days", "3", "--leave", "--finance")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 leave requests")
	assert.Contains(t, out, "Wrote 12 finance records")

	out, err = execute(t, "leave", "list", "--json")
	require.NoError(t, err)
	var leaves []client.LeaveEntry
	require.NoError(t, json.Unmarshal([]byte(out), &leaves))
	require.Len(t, leaves, 2)
	for _, l := range leaves {
		assert.NotEqual(t, "pending", l.Status)
		assert.NotNil(t, l.UpdatedBy)
	}
}
