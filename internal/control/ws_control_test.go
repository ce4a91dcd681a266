package control

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/session"
	"github.com/frudas24/candela/internal/testutil"
)

// newTestServer starts a control server over recording strategies.
func newTestServer(t *testing.T, token string) (*httptest.Server, *Server, *testutil.FakeStrategy, *testutil.FakeStrategy) {
	t.Helper()
	sw := testutil.NewFakeStrategy(brightness.ModeSoftware, 1)
	hw := testutil.NewFakeStrategy(brightness.ModeHardware, 1)
	ctrl, err := brightness.NewController(sw, hw)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := NewServer(ctrl, session.New(token), log)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, srv, sw, hw
}

// dial opens a websocket to the test server.
func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// roundTrip sends raw and decodes the reply.
func roundTrip(t *testing.T, conn *websocket.Conn, raw string) Reply {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
	var reply Reply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

// TestServer_SetAndToggle verifies set, toggle and state messages drive the controller.
func TestServer_SetAndToggle(t *testing.T) {
	ts, _, sw, hw := newTestServer(t, "")
	conn := dial(t, ts, "")

	reply := roundTrip(t, conn, `{"t":"set","percent":35}`)
	assert.Equal(t, TypeState, reply.T)
	assert.Equal(t, brightness.ModeSoftware, reply.Mode)
	require.NotNil(t, reply.Level)
	assert.Equal(t, 35, *reply.Level)
	require.NotNil(t, reply.Report)
	assert.Equal(t, 1, reply.Report.Applied)

	reply = roundTrip(t, conn, `{"t":"toggle"}`)
	assert.Equal(t, brightness.ModeHardware, reply.Mode)
	assert.Nil(t, reply.Level)
	assert.Equal(t, 100, reply.Report.Percent)

	reply = roundTrip(t, conn, `{"t":"state"}`)
	assert.Equal(t, brightness.ModeHardware, reply.Mode)
	assert.Nil(t, reply.Report)

	assert.Equal(t, []int{35, 100}, sw.Levels())
	assert.Empty(t, hw.Levels())
}

// TestServer_Reset verifies reset applies full brightness on the active strategy.
func TestServer_Reset(t *testing.T) {
	ts, _, sw, _ := newTestServer(t, "")
	conn := dial(t, ts, "")
	roundTrip(t, conn, `{"t":"set","percent":5}`)
	reply := roundTrip(t, conn, `{"t":"reset"}`)
	assert.Equal(t, 100, *reply.Level)
	assert.Equal(t, []int{5, 100}, sw.Levels())
}

// TestServer_Errors verifies bad messages are answered without closing the connection.
func TestServer_Errors(t *testing.T) {
	ts, _, sw, _ := newTestServer(t, "")
	conn := dial(t, ts, "")

	reply := roundTrip(t, conn, `{"t":"dim"}`)
	assert.Equal(t, TypeError, reply.T)
	assert.Contains(t, reply.Error, "dim")

	reply = roundTrip(t, conn, `{"t":"set"}`)
	assert.Equal(t, "percent is required", reply.Error)

	reply = roundTrip(t, conn, `not json`)
	assert.Equal(t, TypeError, reply.T)

	reply = roundTrip(t, conn, `{"t":"set","percent":60}`)
	assert.Equal(t, TypeState, reply.T)
	assert.Equal(t, []int{60}, sw.Levels())
}

// TestServer_SingleConnection verifies a second control connection is rejected.
func TestServer_SingleConnection(t *testing.T) {
	ts, srv, _, _ := newTestServer(t, "")
	first := dial(t, ts, "")
	roundTrip(t, first, `{"t":"state"}`)
	assert.True(t, srv.Active())

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// TestServer_Token verifies the token guard on upgrade.
func TestServer_Token(t *testing.T) {
	ts, _, _, _ := newTestServer(t, "s3cret")

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn := dial(t, ts, "?token=s3cret")
	reply := roundTrip(t, conn, `{"t":"state"}`)
	assert.Equal(t, TypeState, reply.T)
}
