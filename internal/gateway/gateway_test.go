package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskboard/internal/model"
)

// newTestGateway points all three services at one handler
func newTestGateway(t *testing.T, h http.HandlerFunc, opts ...Option) *Gateway {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(Endpoints{
		Auth:          srv.URL + "/auth-api/",
		Tasks:         srv.URL + "/task-api",
		Notifications: srv.URL + "/notify-api",
	}, opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequest_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   Kind
		wantStatus int
		wantMsg    string
	}{
		{
			name: "structured error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			},
			wantKind:   KindStatus,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid credentials",
		},
		{
			name: "message field accepted",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "title is required"})
			},
			wantKind:   KindStatus,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "title is required",
		},
		{
			name: "no parseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			wantKind:   KindStatusNoBody,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "task service returned 503 Service Unavailable",
		},
		{
			name: "empty error field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "  "})
			},
			wantKind:   KindStatusNoBody,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "task service returned 500 Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGateway(t, tt.handler)

			_, err := g.ListTasks(context.Background(), "u1")
			require.Error(t, err)

			gwErr, ok := AsError(err)
			require.True(t, ok, "expected *gateway.Error, got %T", err)
			assert.Equal(t, tt.wantKind, gwErr.Kind)
			assert.Equal(t, tt.wantStatus, gwErr.StatusCode)
			assert.Equal(t, tt.wantMsg, gwErr.Error())
			assert.Equal(t, Tasks, gwErr.Service)
		})
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := New(Endpoints{Auth: url, Tasks: url, Notifications: url}, WithTimeout(time.Second))

	_, err := g.Login(context.Background(), model.LoginRequest{Email: "a@b.com", Password: "x"})
	require.Error(t, err)

	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, gwErr.Kind)
	assert.Zero(t, gwErr.StatusCode)
	assert.Equal(t, "cannot reach the auth service", gwErr.Message)
	assert.NotNil(t, gwErr.Unwrap())
}

func TestRequest_DecodeFailure(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks": "not-a-list"}`))
	})

	_, err := g.ListTasks(context.Background(), "u1")
	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, gwErr.Kind)
}

func TestRequest_Headers(t *testing.T) {
	var got http.Header
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusCreated, map[string]any{"task": map[string]any{"id": "t1", "title": "x"}})
	}, WithTokenSource(func() string { return "tok-1" }))

	_, err := g.CreateTask(context.Background(), model.CreateTaskRequest{Title: "x", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestAuthenticate(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusCreated, map[string]any{
			"user":  map[string]any{"id": "u1", "first_name": "A", "last_name": "B", "email": "a@b.com"},
			"token": "t1",
		})
	})

	resp, err := g.Signup(context.Background(), model.SignupRequest{
		FirstName: "A", LastName: "B", Email: "a@b.com", Password: "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "/auth-api/auth/signup", gotPath)
	assert.Equal(t, "A", gotBody["first_name"])
	assert.Equal(t, "x", gotBody["password"])
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "t1", resp.Token)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": "u1"}})
	})

	_, err := g.Login(context.Background(), model.LoginRequest{Email: "a@b.com", Password: "x"})
	gwErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, gwErr.Kind)
	assert.Contains(t, gwErr.Message, "token")
}

func TestNotificationRoutes(t *testing.T) {
	type call struct{ method, uri string }
	var calls []call

	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.RequestURI()})
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if r.URL.Query().Get("limit") != "" {
				writeJSON(w, http.StatusOK, map[string]any{"notifications": []any{}})
				return
			}
			fallthrough
		default:
			writeJSON(w, http.StatusOK, map[string]any{"notification": map[string]any{"id": "n 1", "status": "read"}})
		}
	})
	ctx := context.Background()

	list, err := g.ListNotifications(ctx, "u/1", 50)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := g.GetNotification(ctx, "n 1")
	require.NoError(t, err)
	assert.Equal(t, "n 1", n.ID)

	n, err = g.MarkNotificationRead(ctx, "n 1")
	require.NoError(t, err)
	assert.True(t, n.IsRead())

	require.NoError(t, g.DeleteNotification(ctx, "n 1"))

	assert.Equal(t, []call{
		{http.MethodGet, "/notify-api/users/u%2F1/notifications?limit=50"},
		{http.MethodGet, "/notify-api/notifications/n%201"},
		{http.MethodPut, "/notify-api/notifications/n%201/read"},
		{http.MethodDelete, "/notify-api/notifications/n%201"},
	}, calls)
}

func TestCreateNotification_NilDataSentAsObject(t *testing.T) {
	var body map[string]any
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, map[string]any{"notification": map[string]any{"id": "n1"}})
	})

	_, err := g.CreateNotification(context.Background(), model.CreateNotificationRequest{
		UserID: "u1", Title: "t", Message: "m", Type: model.NotificationInApp,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, body["data"])
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&Error{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsUnauthorized(&Error{StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(assert.AnError))
}

func TestMarkNotificationRead_NoContent(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	n, err := g.MarkNotificationRead(context.Background(), "n1")
	require.NoError(t, err)
	assert.Nil(t, n)
}
