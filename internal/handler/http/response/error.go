package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Messages are localized
// from the request's locale.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	t := func(id string, fallback error) string {
		return i18n.T(ctx, id, fallback.Error())
	}

	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, i18n.T(ctx, "validation_failed", "Validation failed"), validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, t("invalid_credentials", auth.ErrInvalidCredentials))
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, t("invalid_token", auth.ErrInvalidToken))

	// User domain errors
	case errors.Is(err, user.ErrUnauthenticated):
		Unauthorized(w, t("unauthenticated", user.ErrUnauthenticated))
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, t("forbidden", user.ErrInsufficientPermissions))
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, t("user_not_found", user.ErrUserNotFound))
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, t("username_exists", user.ErrUsernameExists))
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, t("email_exists", user.ErrUserEmailExists))

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, t("already_checked_in", attendance.ErrAlreadyCheckedIn))
	case errors.Is(err, attendance.ErrNoActiveCheckIn):
		NotFound(w, t("no_active_check_in", attendance.ErrNoActiveCheckIn))
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, t("attendance_not_found", attendance.ErrAttendanceNotFound))

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, t("leave_not_found", leave.ErrLeaveRequestNotFound))
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, t("leave_already_processed", leave.ErrLeaveRequestAlreadyProcessed))

	// Finance domain errors
	case errors.Is(err, finance.ErrFinanceRecordNotFound):
		NotFound(w, t("finance_not_found", finance.ErrFinanceRecordNotFound))

	// Default
	default:
		slog.ErrorContext(ctx, "unhandled error", slog.String("path", r.URL.Path), slog.Any("error", err))
		InternalServerError(w, i18n.T(ctx, "internal_error", "An unexpected error occurred"))
	}
}
