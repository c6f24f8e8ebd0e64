package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

func historyFilter(r *http.Request) attendance.HistoryFilter {
	return attendance.HistoryFilter{
		StartDate: queryPtr(r, "startDate"),
		EndDate:   queryPtr(r, "endDate"),
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Checked in successfully", resp)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RecordID = chi.URLParam(r, "recordId")

	resp, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out successfully", resp)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.GetHistory(r.Context(), historyFilter(r))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// ListAll implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ListAll(r.Context(), historyFilter(r))
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// Reset implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.ResetToday(r.Context(), chi.URLParam(r, "userId")); err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance reset successfully", nil)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	// Buffer so a failure can still produce a JSON error response
	var buf bytes.Buffer
	if err := h.attendanceService.Export(r.Context(), historyFilter(r), &buf); err != nil {
		response.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
