package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"photomarket/internal/domain"
)

// API talks to the notification endpoints. One canonical envelope is
// expected everywhere; any other shape is a hard parse error rather than
// something to branch on per call site.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPI(baseURL, token string, client *http.Client) *API {
	if client == nil {
		client = http.DefaultClient
	}
	return &API{baseURL: baseURL, token: token, http: client}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

// APIError is the error half of the response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (%d): %s", e.Code, e.Status, e.Message)
}

type notificationList struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	TotalCount    int64                 `json:"total_count"`
}

// FetchNotifications does the full bulk fetch. Errors are returned to the
// caller, not swallowed into an empty list.
func (a *API) FetchNotifications(ctx context.Context) ([]domain.Notification, int64, int64, error) {
	data, err := a.do(ctx, http.MethodGet, "/api/notifications", nil)
	if err != nil {
		return nil, 0, 0, err
	}

	var out notificationList
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, 0, 0, fmt.Errorf("decode notifications: %w", err)
	}
	return out.Notifications, out.UnreadCount, out.TotalCount, nil
}

func (a *API) MarkRead(ctx context.Context, id int64) error {
	_, err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), nil)
	return err
}

func (a *API) Delete(ctx context.Context, id int64) error {
	_, err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", id), nil)
	return err
}

func (a *API) MarkAllRead(ctx context.Context) error {
	_, err := a.do(ctx, http.MethodPost, "/api/notifications/read-all", nil)
	return err
}

func (a *API) do(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		apiErr := env.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "UNKNOWN", Message: "missing error body"}
		}
		apiErr.Status = resp.StatusCode
		return nil, apiErr
	}
	return env.Data, nil
}
