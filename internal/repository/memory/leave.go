package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	now := r.s.now()
	request.CreatedAt, request.UpdatedAt = now, now
	request.User = nil
	r.s.leaves[request.ID] = request
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return r.list(func(req leave.LeaveRequest) bool { return req.UserID == userID }, false), nil
}

func (r *leaveRequestRepository) ListAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(func(leave.LeaveRequest) bool { return true }, true), nil
}

func (r *leaveRequestRepository) list(keep func(leave.LeaveRequest) bool, join bool) []leave.LeaveRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	requests := make([]leave.LeaveRequest, 0)
	for _, req := range r.s.leaves {
		if !keep(req) {
			continue
		}
		if join {
			req.User = r.s.summaryLocked(req.UserID)
		}
		requests = append(requests, req)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].RequestDate.After(requests[j].RequestDate)
	})
	return requests
}

func (r *leaveRequestRepository) Decide(ctx context.Context, id string, d leave.Decision) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	decidedBy, decidedAt := d.DecidedBy, d.DecidedAt
	req.Status = d.Status
	req.AdminComments = d.Comments
	req.UpdatedBy = &decidedBy
	req.UpdateDate = &decidedAt
	req.UpdatedAt = r.s.now()
	r.s.leaves[id] = req
	return req, nil
}

func (r *leaveRequestRepository) CountByStatus(ctx context.Context, status leave.Status, userID *string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, req := range r.s.leaves {
		if req.Status == status && (userID == nil || req.UserID == *userID) {
			n++
		}
	}
	return n, nil
}
