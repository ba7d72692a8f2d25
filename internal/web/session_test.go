package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	srv  *Server
}

func dialSession(t *testing.T, header http.Header) (*testClient, *visitorStorages) {
	t.Helper()
	srv, storages := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, srv: srv}, storages
}

func (c *testClient) send(frame map[string]any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(frame))
}

// next returns the next frame of the given type, skipping others such as the
// typewriter stream.
func (c *testClient) next(kind string) map[string]any {
	c.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	require.NoError(c.t, c.conn.SetReadDeadline(deadline))
	for {
		var f map[string]any
		require.NoError(c.t, c.conn.ReadJSON(&f), "waiting for %s frame", kind)
		if f["type"] == kind {
			return f
		}
	}
}

// collect reads frames for window and returns those of the given type.
func (c *testClient) collect(kind string, window time.Duration) []map[string]any {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(window)))
	var got []map[string]any
	for {
		var f map[string]any
		if err := c.conn.ReadJSON(&f); err != nil {
			return got
		}
		if f["type"] == kind {
			got = append(got, f)
		}
	}
}

// only returns the single live session once its first frame has arrived.
func (c *testClient) only() *session {
	c.t.Helper()
	c.next("theme")
	live := c.srv.liveSessions()
	require.Len(c.t, live, 1)
	return live[0]
}

func TestSessionInitialFrames(t *testing.T) {
	c, _ := dialSession(t, nil)

	th := c.next("theme")
	assert.Equal(t, false, th["darkMode"])

	sc := c.next("scroll")
	assert.Equal(t, false, sc["hidden"])
	assert.Equal(t, "hero", sc["active"])
}

func TestSessionScrollFrames(t *testing.T) {
	c, _ := dialSession(t, nil)
	c.next("scroll")

	tops := map[string]any{"hero": 0, "about": 800, "projects": 1600}
	var hidden []bool
	var active []string
	for _, off := range []float64{0, 50, 150, 140, 1500} {
		c.send(map[string]any{"type": "scroll", "offset": off, "tops": tops})
		f := c.next("scroll")
		hidden = append(hidden, f["hidden"].(bool))
		active = append(active, f["active"].(string))
	}

	assert.Equal(t, []bool{false, false, true, false, true}, hidden)
	assert.Equal(t, "projects", active[len(active)-1])
	assert.Equal(t, "hero", active[0])
}

func TestSessionRevealIsOneShot(t *testing.T) {
	c, _ := dialSession(t, nil)

	c.send(map[string]any{"type": "observe", "id": "skills", "threshold": 0.5})
	c.send(map[string]any{"type": "visibility", "id": "skills", "ratio": 0.2})
	c.send(map[string]any{"type": "visibility", "id": "skills", "ratio": 0.6})

	f := c.next("reveal")
	assert.Equal(t, "skills", f["id"])

	// Leaving and re-entering the viewport produces nothing new; the next
	// reveal frame must belong to another element.
	c.send(map[string]any{"type": "visibility", "id": "skills", "ratio": 0})
	c.send(map[string]any{"type": "visibility", "id": "skills", "ratio": 1})
	c.send(map[string]any{"type": "observe", "id": "about-text"})
	c.send(map[string]any{"type": "visibility", "id": "about-text", "ratio": 1})

	f = c.next("reveal")
	assert.Equal(t, "about-text", f["id"])
}

func TestSessionPointerAndHover(t *testing.T) {
	c, _ := dialSession(t, nil)

	c.send(map[string]any{"type": "pointer", "x": 12, "y": 34})
	f := c.next("pointer")
	assert.EqualValues(t, 12, f["x"])
	assert.EqualValues(t, 34, f["y"])
	assert.Equal(t, false, f["hover"])

	c.send(map[string]any{"type": "hover", "interactive": true})
	f = c.next("pointer")
	assert.Equal(t, true, f["hover"])
	assert.EqualValues(t, 12, f["x"])
}

func TestSessionTypewriterStreams(t *testing.T) {
	c, _ := dialSession(t, nil)

	first := c.next("typewriter")
	assert.Equal(t, "", first["text"])

	f := c.next("typewriter")
	assert.Equal(t, "a", f["text"])
	f = c.next("typewriter")
	assert.Equal(t, "a ", f["text"])
}

func TestSessionThemeTogglePersists(t *testing.T) {
	cookie := "folio_visitor=0d5f7a3c-8b1e-4c2d-9f6a-1e2b3c4d5e6f"
	header := http.Header{"Cookie": []string{cookie}}
	c, storages := dialSession(t, header)
	c.next("theme")

	c.send(map[string]any{"type": "toggle-theme"})
	f := c.next("theme")
	assert.Equal(t, true, f["darkMode"])

	v, err := storages.For("0d5f7a3c-8b1e-4c2d-9f6a-1e2b3c4d5e6f").Get(t.Context(), "darkMode")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestSessionRejectsUnknownFrames(t *testing.T) {
	c, _ := dialSession(t, nil)

	c.send(map[string]any{"type": "teleport"})
	f := c.next("error")
	assert.Contains(t, f["message"], "teleport")

	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	f = c.next("error")
	assert.Equal(t, "malformed frame", f["message"])

	// The session survives both.
	c.send(map[string]any{"type": "pointer", "x": 1, "y": 2})
	c.next("pointer")
}

func TestSessionObserveOncePerID(t *testing.T) {
	c, _ := dialSession(t, nil)

	for range 3 {
		c.send(map[string]any{"type": "observe", "id": "skills"})
	}
	c.send(map[string]any{"type": "visibility", "id": "skills", "ratio": 1})

	reveals := c.collect("reveal", 300*time.Millisecond)
	require.Len(t, reveals, 1)
	assert.Equal(t, "skills", reveals[0]["id"])
}

func TestSessionReleasedOnDisconnect(t *testing.T) {
	c, _ := dialSession(t, nil)
	sess := c.only()

	require.NoError(t, c.conn.Close())
	require.Eventually(t, func() bool { return len(c.srv.liveSessions()) == 0 },
		3*time.Second, 10*time.Millisecond, "handler should return after the client goes away")
	assert.True(t, sess.scope.Closed())

	for len(sess.out) > 0 {
		<-sess.out
	}
	_, err := sess.theme.Toggle(t.Context())
	require.NoError(t, err)
	assert.Zero(t, len(sess.out), "a closed session no longer hears theme changes")
}

func TestServerStopEndsSessions(t *testing.T) {
	c, _ := dialSession(t, nil)
	sess := c.only()

	require.NoError(t, c.srv.Stop())
	require.Eventually(t, func() bool { return len(c.srv.liveSessions()) == 0 },
		3*time.Second, 10*time.Millisecond)
	assert.True(t, sess.scope.Closed())

	require.NoError(t, c.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			var netErr interface{ Timeout() bool }
			if errors.As(err, &netErr) {
				assert.False(t, netErr.Timeout(), "the server should close the socket")
			}
			break
		}
	}
}
