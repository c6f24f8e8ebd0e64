package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"golang.org/x/oauth2"
)

// Source is the authoritative attendance data source.
type Source interface {
	History(ctx context.Context) ([]Record, error)
	CheckIn(ctx context.Context, location *attendance.Location) (Record, error)
	CheckOut(ctx context.Context, recordID string, location *attendance.Location) (Record, error)
	ResetToday(ctx context.Context, userID string) error
}

// APIError is a rejection reported by the server in the response envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashpro API error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is lets callers match server rejections against the attendance sentinels
// they would get from a local replay.
func (e *APIError) Is(target error) bool {
	switch target {
	case attendance.ErrAlreadyCheckedIn:
		return e.StatusCode == http.StatusConflict
	case attendance.ErrNoActiveCheckIn, attendance.ErrAttendanceNotFound:
		return e.StatusCode == http.StatusNotFound
	case auth.ErrInvalidCredentials, auth.ErrInvalidToken:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// ResponseError is a 2xx reply whose body could not be read. The server may
// already have applied the request.
type ResponseError struct {
	Method string
	Path   string
	Err    error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unreadable response to %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Fallbackable reports whether err should send a transition to the local
// mirror: transport failures, rejected credentials and server faults.
// Business rejections and unreadable success replies are not fallbackable.
func Fallbackable(err error) bool {
	if err == nil {
		return false
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return !errors.Is(err, context.Canceled)
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode >= http.StatusInternalServerError
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIClient talks to the attendance HTTP API with a bearer token.
type APIClient struct {
	baseURL string
	http    *http.Client
	loc     *time.Location
}

func NewAPIClient(ctx context.Context, baseURL, token string, timeout time.Duration, loc *time.Location) *APIClient {
	var httpClient *http.Client
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = timeout

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		loc:     loc,
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return &ResponseError{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if dst == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return &ResponseError{Method: method, Path: path, Err: err}
	}
	return nil
}

func (c *APIClient) record(method, path string, resp attendance.AttendanceResponse) (Record, error) {
	rec, err := FromResponse(resp, c.loc)
	if err != nil {
		return Record{}, &ResponseError{Method: method, Path: path, Err: err}
	}
	return rec, nil
}

// History implements Source.
func (c *APIClient) History(ctx context.Context) ([]Record, error) {
	const path = "/api/v1/attendance/history"
	var resps []attendance.AttendanceResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resps); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(resps))
	for _, resp := range resps {
		rec, err := c.record(http.MethodGet, path, resp)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// CheckIn implements Source.
func (c *APIClient) CheckIn(ctx context.Context, location *attendance.Location) (Record, error) {
	var resp attendance.AttendanceResponse
	body := attendance.CheckInRequest{Location: location}
	const path = "/api/v1/attendance/checkin"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return Record{}, err
	}
	return c.record(http.MethodPost, path, resp)
}

// CheckOut implements Source.
func (c *APIClient) CheckOut(ctx context.Context, recordID string, location *attendance.Location) (Record, error) {
	var resp attendance.AttendanceResponse
	body := attendance.CheckOutRequest{Location: location}
	path := "/api/v1/attendance/checkout/" + url.PathEscape(recordID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return Record{}, err
	}
	return c.record(http.MethodPost, path, resp)
}

// ResetToday implements Source.
func (c *APIClient) ResetToday(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/attendance/reset/"+url.PathEscape(userID), nil, nil)
}

// Login exchanges credentials for an access token.
func (c *APIClient) Login(ctx context.Context, username, password string) (auth.LoginResponse, error) {
	var resp auth.LoginResponse
	req := auth.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return auth.LoginResponse{}, err
	}
	return resp, nil
}
