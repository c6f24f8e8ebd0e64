package http

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Leave request submitted successfully", resp)
}

// ListMine implements LeaveHandler.
func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaveService.ListMine(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// ListAll implements LeaveHandler.
func (h *leaveHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaveService.ListAll(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// UpdateStatus implements LeaveHandler.
func (h *leaveHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateStatusRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.leaveService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request "+resp.Status, resp)
}
