package menuclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	base := []Option{
		WithTransport(srv.Client().Transport),
		WithRetries(2, time.Millisecond),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	return New(srv.URL, append(base, opts...)...), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Structure(t *testing.T) {
	url := "https://chat.example.com"
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu/structure", r.URL.Path)
		assert.Equal(t, "alice@example.com", r.Header.Get(UserHeader))
		writeJSON(w, http.StatusOK, dto.StructureResponse{MenuGroups: []dto.MenuGroup{{
			MenuID: "m1", MenuName: "Assistant", MenuNo: 1,
			Pages: []dto.Page{{PageID: "p1", PageName: "Chat", PageNo: 1, MenuID: "m1", URL: &url}},
		}}})
	}, WithUser("alice@example.com"))

	tree, err := client.Load(context.Background())
	require.NoError(t, err)

	_, page, ok := tree.FindPage("p1")
	require.True(t, ok)
	assert.Equal(t, "Chat", page.Name())
	assert.Equal(t, menu.Redirect{URL: url}, page.Mode())
}

func TestClient_ReplaceSendsTree(t *testing.T) {
	var got dto.BatchUpdateRequest
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/menu/structure/batch-update", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		writeJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Message: "menu structure updated"})
	})

	tree := menu.NewTree([]menu.Group{
		menu.NewGroup("m1", "Assistant", 1, []menu.Page{menu.NewPage("p1", "Sales", 1, "dash-01", "", "")}),
	})
	require.NoError(t, client.Save(context.Background(), tree))

	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, got.MenuGroups, 1)
	require.Len(t, got.MenuGroups[0].Pages, 1)
	assert.Equal(t, "dash-01", *got.MenuGroups[0].Pages[0].DashboardID)
	assert.Nil(t, got.MenuGroups[0].Pages[0].URL)
}

func TestClient_ReplaceIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.Replace(context.Background(), menu.NewTree(nil))

	assert.ErrorIs(t, err, ErrUnresponsive)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ServerMessageSurfacedVerbatim(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, dto.StatusResponse{
			Message:    "validation failed",
			Error:      "VALIDATION_ERROR",
			Violations: []dto.Violation{{Key: "m1", MenuID: "m1", Field: "menu_name", Message: "name must not be blank"}},
		})
	})

	err := client.Replace(context.Background(), menu.NewTree(nil))

	require.ErrorIs(t, err, ErrServer)
	var status *StatusError
	require.True(t, errors.As(err, &status))
	assert.Equal(t, http.StatusBadRequest, status.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", status.Code)
	assert.Len(t, status.Violations, 1)
	assert.Equal(t, "validation failed", UserMessage(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_RetriesEmptyServerErrors(t *testing.T) {
	var n atomic.Int32
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if n.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, dto.StructureResponse{})
	})

	tree, err := client.Structure(context.Background())

	require.NoError(t, err)
	assert.Zero(t, tree.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GivesUpOnUnresponsiveServer(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Structure(context.Background())

	require.ErrorIs(t, err, ErrUnresponsive)
	assert.Equal(t, MessageUnresponsive, UserMessage(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ServerErrorWithMessageIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, dto.StatusResponse{Message: "system error", Error: "database is locked"})
	})

	_, err := client.Structure(context.Background())

	require.ErrorIs(t, err, ErrServer)
	assert.Equal(t, "system error", UserMessage(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>proxy</html>"))
	})

	_, err := client.List(context.Background())

	require.ErrorIs(t, err, ErrUnresponsive)
	assert.Equal(t, MessageUnresponsive, UserMessage(err))
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	transport := &http.Transport{}
	t.Cleanup(transport.CloseIdleConnections)
	client := New(addr,
		WithTransport(transport),
		WithRetries(1, time.Millisecond),
		WithLogger(slog.New(slog.DiscardHandler)),
	)

	_, err := client.Structure(context.Background())

	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, MessageNetwork, UserMessage(err))
}

func TestClient_Timeout(t *testing.T) {
	client, _ := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, WithTimeout(50*time.Millisecond), WithRetries(0, time.Millisecond))

	_, err := client.Structure(context.Background())

	require.ErrorIs(t, err, ErrUnresponsive)
}

func TestClient_ListAndDisplay(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/menu/list":
			writeJSON(w, http.StatusOK, dto.LegacyListResponse{Success: true, Data: []menu.LegacyGroup{{
				MenuID: "m1", MenuName: "Assistant",
				Children: []menu.LegacyItem{{MenuID: "p1", MenuName: "Chat", Route: "/page/p1"}},
			}}})
		case "/api/menu/pages/p 1/display":
			writeJSON(w, http.StatusOK, dto.DisplayResponse{PageID: "p 1", Mode: "embedded", Navigable: true})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	groups, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "/page/p1", groups[0].Children[0].Route)

	display, err := client.Display(ctx, "p 1")
	require.NoError(t, err)
	assert.Equal(t, "embedded", display.Mode)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"network", ErrNetwork, MessageNetwork},
		{"unresponsive", &StatusError{StatusCode: 502}, MessageUnresponsive},
		{"server", &StatusError{StatusCode: 400, Message: "bad order"}, "bad order"},
		{"other", errors.New("boom"), MessageRetry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0

	err := retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &retryableError{err: errors.New("transient")}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
