package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photomarket/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(NewAPI(baseURL, "test-token", nil), zap.NewNop())
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeErrorEnvelope(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": msg},
	})
}

func TestConsume_AppliesNamedEvents(t *testing.T) {
	c := newTestClient("")

	stream := strings.Join([]string{
		"event: message",
		`data: {"status":"connected"}`,
		"",
		"event: notification",
		`data: {"id":1,"title":"New booking request","is_read":false}`,
		"",
		"event: notification",
		`data: {"id":2,"title":"Photographer assigned","is_read":false}`,
		"",
		"event: notification-update",
		`data: {"id":1,"title":"New booking request","is_read":true}`,
		"",
		"event: notification-delete",
		`data: {"id":2}`,
		"",
		"event: unread-count",
		`data: {"unread_count":0}`,
		"",
	}, "\n") + "\n"

	require.NoError(t, c.consume(strings.NewReader(stream)))

	list, unread, _ := c.Mirror().Snapshot()
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.True(t, list[0].IsRead)
	assert.Equal(t, int64(0), unread)
}

func TestConsume_MalformedPayloadDoesNotKillStream(t *testing.T) {
	c := newTestClient("")

	stream := strings.Join([]string{
		"event: notification",
		"data: {not json",
		"",
		": keepalive comment",
		"event: notification",
		`data: {"id":3,"is_read":false}`,
		"",
	}, "\n") + "\n"

	require.NoError(t, c.consume(strings.NewReader(stream)))

	list, unread, _ := c.Mirror().Snapshot()
	require.Len(t, list, 1)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, int64(1), unread)
}

func TestConsume_FiresNotifyHook(t *testing.T) {
	c := newTestClient("")

	var got []int64
	c.OnNotify = func(n domain.Notification) { got = append(got, n.ID) }

	stream := "event: notification\ndata: {\"id\":9}\n\n"
	require.NoError(t, c.consume(strings.NewReader(stream)))
	assert.Equal(t, []int64{9}, got)
}

func TestFetchNotifications_ParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]any{
			"notifications": []map[string]any{{"id": 1, "is_read": false}},
			"unread_count":  1,
			"total_count":   5,
		})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, "test-token", nil)
	list, unread, total, err := api.FetchNotifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, int64(5), total)
}

func TestFetchNotifications_SurfacesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(w, http.StatusInternalServerError, "FETCH_FAILED", "boom")
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, "t", nil)
	_, _, _, err := api.FetchNotifications(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "FETCH_FAILED", apiErr.Code)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestMarkRead_OptimisticThenConfirmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]string{"status": "read"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Mirror().Replace([]domain.Notification{{ID: 1, IsRead: false}}, 1, 1)

	require.NoError(t, c.MarkRead(context.Background(), 1))

	list, unread, _ := c.Mirror().Snapshot()
	assert.True(t, list[0].IsRead)
	assert.Equal(t, int64(0), unread)
}

func TestMarkRead_FailureRefetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			writeErrorEnvelope(w, http.StatusInternalServerError, "UPDATE_FAILED", "nope")
			return
		}
		// The refetch reveals the truth: still unread.
		writeEnvelope(w, http.StatusOK, map[string]any{
			"notifications": []map[string]any{{"id": 1, "is_read": false}},
			"unread_count":  1,
			"total_count":   1,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Mirror().Replace([]domain.Notification{{ID: 1, IsRead: false}}, 1, 1)

	err := c.MarkRead(context.Background(), 1)
	require.Error(t, err)

	// No partial rollback: the whole mirror reflects the server again.
	list, unread, _ := c.Mirror().Snapshot()
	assert.False(t, list[0].IsRead)
	assert.Equal(t, int64(1), unread)
}

func TestClearAll_DeletesEverythingThenRefetches(t *testing.T) {
	var deletes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes.Add(1)
			writeEnvelope(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"notifications": []map[string]any{},
			"unread_count":  0,
			"total_count":   0,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Mirror().Replace([]domain.Notification{{ID: 1}, {ID: 2}, {ID: 3}}, 3, 3)

	require.NoError(t, c.ClearAll(context.Background()))
	assert.Equal(t, int64(3), deletes.Load())

	list, unread, total := c.Mirror().Snapshot()
	assert.Empty(t, list)
	assert.Equal(t, int64(0), unread)
	assert.Equal(t, int64(0), total)
}

func TestClearAll_SurvivesIndividualFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			if strings.HasSuffix(r.URL.Path, "/2") {
				writeErrorEnvelope(w, http.StatusInternalServerError, "DELETE_FAILED", "boom")
				return
			}
			writeEnvelope(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]any{
			"notifications": []map[string]any{{"id": 2, "is_read": false}},
			"unread_count":  1,
			"total_count":   1,
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Mirror().Replace([]domain.Notification{{ID: 1}, {ID: 2}}, 2, 2)

	// The flow settles on whatever the refetch says, failures and all.
	require.NoError(t, c.ClearAll(context.Background()))

	list, unread, _ := c.Mirror().Snapshot()
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), unread)
}

func TestConnectAndConsume_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/stream"):
			w.Header().Set("Content-Type", "text/event-stream")
			fl := w.(http.Flusher)
			fmt.Fprint(w, "event: message\ndata: {\"status\":\"connected\"}\n\n")
			fmt.Fprint(w, "event: notification\ndata: {\"id\":1,\"is_read\":false}\n\n")
			fmt.Fprint(w, "event: unread-count\ndata: {\"unread_count\":1}\n\n")
			fl.Flush()
		default:
			writeEnvelope(w, http.StatusOK, map[string]any{
				"notifications": []map[string]any{},
				"unread_count":  0,
				"total_count":   0,
			})
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	require.NoError(t, c.connectAndConsume(context.Background()))

	list, unread, _ := c.Mirror().Snapshot()
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, StateConnected, c.State())
}

func TestConnectAndConsume_RejectedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorEnvelope(w, http.StatusUnauthorized, "UNAUTHORIZED", "bad token")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.connectAndConsume(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestConnState_String(t *testing.T) {
	assert.Equal(t, "DISCONNECTED", StateDisconnected.String())
	assert.Equal(t, "CONNECTING", StateConnecting.String())
	assert.Equal(t, "CONNECTED", StateConnected.String())
	assert.Equal(t, "RECONNECTING", StateReconnecting.String())
}
