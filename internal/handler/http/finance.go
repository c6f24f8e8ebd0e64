package http

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/finance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type FinanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type financeHandlerImpl struct {
	financeService finance.FinanceService
}

func NewFinanceHandler(financeService finance.FinanceService) FinanceHandler {
	return &financeHandlerImpl{financeService: financeService}
}

// Create implements FinanceHandler.
func (h *financeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req finance.CreateRecordRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.financeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Created(w, "Finance record created successfully", resp)
}

// List implements FinanceHandler.
func (h *financeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := finance.ListFilter{
		Type:      queryPtr(r, "type"),
		StartDate: queryPtr(r, "startDate"),
		EndDate:   queryPtr(r, "endDate"),
	}

	resp, err := h.financeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}

// Update implements FinanceHandler.
func (h *financeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req finance.UpdateRecordRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.financeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Finance record updated successfully", resp)
}

// Delete implements FinanceHandler.
func (h *financeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.financeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.SuccessWithMessage(w, "Finance record deleted successfully", nil)
}
