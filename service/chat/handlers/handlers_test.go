package handlers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SNTejaswi/MERN-CHAT-APP/service/chat"
)

func newTestServer(t *testing.T) *chat.Server {
	t.Helper()
	srv := chat.NewServer(chat.ServerConf{GatewayID: "gw-test"})
	t.Cleanup(srv.Stop)
	RegisterAll(srv)
	return srv
}

func attach(srv *chat.Server, connID string) *chat.Client {
	c := chat.NewClient(connID, nil)
	srv.Attach(c)
	return c
}

func dispatch(t *testing.T, srv *chat.Server, c *chat.Client, event, data string) error {
	t.Helper()
	f, err := chat.ParseFrameJSON([]byte(fmt.Sprintf(`{"event":%q,"data":%s}`, event, data)))
	require.NoError(t, err)
	return srv.Dispatch(f, c)
}

func recvFrame(t *testing.T, c *chat.Client) *chat.Frame {
	t.Helper()
	select {
	case raw := <-c.Send:
		f := &chat.Frame{}
		require.NoError(t, json.Unmarshal(raw, f))
		return f
	default:
		t.Fatalf("no frame queued for %s", c.ConnID)
		return nil
	}
}

func assertIdle(t *testing.T, c *chat.Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("unexpected frame for %s: %s", c.ConnID, raw)
	default:
	}
}

func TestSetupBindsAndAcks(t *testing.T) {
	srv := newTestServer(t)
	c := attach(srv, "conn-x")

	require.NoError(t, dispatch(t, srv, c, chat.EventSetup, `{"_id":"uX","name":"X"}`))
	assert.Equal(t, chat.EventConnected, recvFrame(t, c).Event)
	assert.Equal(t, "uX", srv.Registry().UserOf("conn-x"))
}

func TestSetupWithoutIDDropped(t *testing.T) {
	srv := newTestServer(t)
	c := attach(srv, "conn-x")

	require.NoError(t, dispatch(t, srv, c, chat.EventSetup, `{"name":"nameless"}`))
	assertIdle(t, c)
	assert.Equal(t, "", srv.Registry().UserOf("conn-x"))

	// non-object payload is a decode error, frame dropped, conn intact
	assert.Error(t, dispatch(t, srv, c, chat.EventSetup, `"uX"`))
	assert.Equal(t, 1, srv.Registry().Len())
}

func TestTypingReachesRoomExceptSender(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	y := attach(srv, "conn-y")
	z := attach(srv, "conn-z")
	require.NoError(t, dispatch(t, srv, x, chat.EventSetup, `{"_id":"uX"}`))
	require.NoError(t, dispatch(t, srv, y, chat.EventSetup, `{"_id":"uY"}`))
	recvFrame(t, x)
	recvFrame(t, y)
	require.NoError(t, dispatch(t, srv, x, chat.EventJoinChat, `"c1"`))
	require.NoError(t, dispatch(t, srv, y, chat.EventJoinChat, `"c1"`))

	require.NoError(t, dispatch(t, srv, x, chat.EventTyping, `"c1"`))
	assert.Equal(t, chat.EventTyping, recvFrame(t, y).Event)
	assertIdle(t, x)
	assertIdle(t, z) // never joined c1

	require.NoError(t, dispatch(t, srv, x, chat.EventStopTyping, `"c1"`))
	assert.Equal(t, chat.EventStopTyping, recvFrame(t, y).Event)
	assertIdle(t, x)
}

func TestNewMessageFansOutToMembers(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	y := attach(srv, "conn-y")
	z := attach(srv, "conn-z")
	for conn, uid := range map[*chat.Client]string{x: "uX", y: "uY", z: "uZ"} {
		require.NoError(t, dispatch(t, srv, conn, chat.EventSetup,
			fmt.Sprintf(`{"_id":%q}`, uid)))
		recvFrame(t, conn)
	}
	// only X has the chat open; delivery must not depend on that
	require.NoError(t, dispatch(t, srv, x, chat.EventJoinChat, `"c1"`))

	payload := `{
		"_id":"m1",
		"sender":{"_id":"uX","name":"X"},
		"content":"hello",
		"chat":{"_id":"c1","users":[{"_id":"uX"},{"_id":"uY"},{"_id":"uZ"}]}
	}`
	require.NoError(t, dispatch(t, srv, x, chat.EventNewMessage, payload))

	for _, member := range []*chat.Client{y, z} {
		got := recvFrame(t, member)
		assert.Equal(t, chat.EventMessageReceived, got.Event)
		var body struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.Unmarshal(got.Data, &body))
		assert.Equal(t, "hello", body.Content)
		assertIdle(t, member) // exactly once
	}
	assertIdle(t, x) // never back to the sender
}

func TestNewMessageSnapshotGovernsRouting(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	y := attach(srv, "conn-y")
	require.NoError(t, dispatch(t, srv, x, chat.EventSetup, `{"_id":"uX"}`))
	require.NoError(t, dispatch(t, srv, y, chat.EventSetup, `{"_id":"uY"}`))
	recvFrame(t, x)
	recvFrame(t, y)

	// uY is online but absent from the snapshot: no delivery
	payload := `{"sender":"uX","chat":{"_id":"c1","users":["uX","uQ"]}}`
	require.NoError(t, dispatch(t, srv, x, chat.EventNewMessage, payload))
	assertIdle(t, y)

	// members with no live connection are silently skipped
	payload = `{"sender":"uX","chat":{"_id":"c1","users":["uX","uY","uGone"]}}`
	require.NoError(t, dispatch(t, srv, x, chat.EventNewMessage, payload))
	recvFrame(t, y)
	assertIdle(t, y)
}

func TestNewMessageWithoutUsersDropped(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	y := attach(srv, "conn-y")
	require.NoError(t, dispatch(t, srv, y, chat.EventSetup, `{"_id":"uY"}`))
	recvFrame(t, y)

	require.NoError(t, dispatch(t, srv, x, chat.EventNewMessage, `{"sender":"uX"}`))
	require.NoError(t, dispatch(t, srv, x, chat.EventNewMessage,
		`{"sender":"uX","chat":{"_id":"c1","users":[]}}`))
	assert.Error(t, dispatch(t, srv, x, chat.EventNewMessage, `"broken"`))
	assertIdle(t, y)
}

func TestRebindRoutesToNewIdentity(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	other := attach(srv, "conn-o")
	require.NoError(t, dispatch(t, srv, x, chat.EventSetup, `{"_id":"uOld"}`))
	recvFrame(t, x)
	require.NoError(t, dispatch(t, srv, x, chat.EventSetup, `{"_id":"uNew"}`))
	recvFrame(t, x)
	require.NoError(t, dispatch(t, srv, other, chat.EventSetup, `{"_id":"uO"}`))
	recvFrame(t, other)

	payload := `{"sender":"uO","chat":{"_id":"c1","users":["uO","uOld"]}}`
	require.NoError(t, dispatch(t, srv, other, chat.EventNewMessage, payload))
	assertIdle(t, x)

	payload = `{"sender":"uO","chat":{"_id":"c1","users":["uO","uNew"]}}`
	require.NoError(t, dispatch(t, srv, other, chat.EventNewMessage, payload))
	assert.Equal(t, chat.EventMessageReceived, recvFrame(t, x).Event)
}

func TestDisconnectedGetsNothing(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	y := attach(srv, "conn-y")
	require.NoError(t, dispatch(t, srv, x, chat.EventSetup, `{"_id":"uX"}`))
	require.NoError(t, dispatch(t, srv, y, chat.EventSetup, `{"_id":"uY"}`))
	recvFrame(t, x)
	recvFrame(t, y)

	srv.DropConnection(y)

	payload := `{"sender":"uX","chat":{"_id":"c1","users":["uX","uY"]}}`
	require.NoError(t, dispatch(t, srv, x, chat.EventNewMessage, payload))
	assertIdle(t, y)
}

func TestUnknownEventDropped(t *testing.T) {
	srv := newTestServer(t)
	x := attach(srv, "conn-x")
	assert.Error(t, dispatch(t, srv, x, "dance", `{}`))
	assert.Equal(t, 1, srv.Registry().Len())
}
