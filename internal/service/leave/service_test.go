package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFor(t *testing.T, svc jwt.Service, userID string, role user.Role) context.Context {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	ctx, err := jwt.ContextWithToken(context.Background(), svc, token)
	require.NoError(t, err)
	return ctx
}

func TestLeaveWorkflow(t *testing.T) {
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	_, err := users.Create(context.Background(), user.User{ID: "u1", Username: "sarah.johnson", Name: "Sarah Johnson", Email: "sarah.johnson@company.com", Role: user.RoleEmployee, Department: "Sales"})
	require.NoError(t, err)

	svc := NewLeaveService(memory.NewLeaveRequestRepository(store), time.UTC)
	jwtService := jwt.NewJWTService("test-secret", "1h")
	employee := contextFor(t, jwtService, "u1", user.RoleEmployee)
	admin := contextFor(t, jwtService, "admin-1", user.RoleAdmin)

	created, err := svc.Submit(employee, leave.CreateLeaveRequest{StartDate: "2024-12-23", EndDate: "2024-12-27", Reason: "Holiday"})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "2024-12-23", created.StartDate)

	mine, err := svc.ListMine(employee)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListAll(employee)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	_, err = svc.UpdateStatus(employee, leave.UpdateStatusRequest{ID: created.ID, Status: "approved"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	all, err := svc.ListAll(admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "Sarah Johnson", all[0].User.Name)

	comment := "Enjoy"
	approved, err := svc.UpdateStatus(admin, leave.UpdateStatusRequest{ID: created.ID, Status: "approved", Comments: &comment})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, &comment, approved.AdminComments)
	require.NotNil(t, approved.UpdatedBy)
	assert.Equal(t, "admin-1", *approved.UpdatedBy)
	assert.NotNil(t, approved.UpdateDate)

	_, err = svc.UpdateStatus(admin, leave.UpdateStatusRequest{ID: created.ID, Status: "rejected"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = svc.UpdateStatus(admin, leave.UpdateStatusRequest{ID: "missing", Status: "rejected"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestSubmitValidation(t *testing.T) {
	svc := NewLeaveService(memory.NewLeaveRequestRepository(memory.NewStore()), time.UTC)
	ctx := contextFor(t, jwt.NewJWTService("test-secret", "1h"), "u1", user.RoleEmployee)

	tests := []struct {
		name  string
		req   leave.CreateLeaveRequest
		field string
	}{
		{"missing reason", leave.CreateLeaveRequest{StartDate: "2024-12-01", EndDate: "2024-12-02"}, "reason"},
		{"bad format", leave.CreateLeaveRequest{StartDate: "01-12-2024", EndDate: "2024-12-02", Reason: "x"}, "start_date"},
		{"end before start", leave.CreateLeaveRequest{StartDate: "2024-12-05", EndDate: "2024-12-02", Reason: "x"}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	_, err := svc.UpdateStatus(contextFor(t, jwt.NewJWTService("test-secret", "1h"), "a", user.RoleAdmin), leave.UpdateStatusRequest{ID: "x", Status: "pending"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
}
