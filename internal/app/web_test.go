package app

import (
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aerolens/tagtracker/internal/tags"
)

func TestPoseTopic(t *testing.T) {
	tests := []struct {
		base string
		id   int
		want string
	}{
		{"tags/pose", 7, "tags/pose/7"},
		{"tags/pose", 0, "tags/pose/0"},
		{"t", 36, "t/36"},
	}
	for _, tt := range tests {
		if got := poseTopic(tt.base, tt.id); got != tt.want {
			t.Errorf("poseTopic(%q, %d) = %q, want %q", tt.base, tt.id, got, tt.want)
		}
	}
}

func dialViewer(t *testing.T, snapshot func() []tags.TagPose, frame func() ([]byte, uint64)) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(viewerHandler(snapshot, frame))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestViewerHandlerPush(t *testing.T) {
	snapshot := func() []tags.TagPose { return []tags.TagPose{{ID: 7, Z: 1}} }
	frame := func() ([]byte, uint64) { return []byte{0xFF, 0xD8}, 1 }

	conn, cleanup := dialViewer(t, snapshot, frame)
	defer cleanup()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var poses []tags.TagPose
	if err := conn.ReadJSON(&poses); err != nil {
		t.Fatalf("read poses: %v", err)
	}
	if len(poses) != 1 || poses[0].ID != 7 {
		t.Fatalf("poses = %+v, want one pose with ID 7", poses)
	}

	// The annotated frame follows the first snapshot as a binary message.
	typ, jpg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if typ != websocket.BinaryMessage || len(jpg) != 2 {
		t.Errorf("frame message type %d, %d bytes, want a 2-byte binary message", typ, len(jpg))
	}
}

func TestViewerHandlerAnswersClose(t *testing.T) {
	snapshot := func() []tags.TagPose { return nil }
	frame := func() ([]byte, uint64) { return nil, 0 }

	conn, cleanup := dialViewer(t, snapshot, frame)
	defer cleanup()

	deadline := time.Now().Add(2 * time.Second)
	if err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline); err != nil {
		t.Fatalf("send close: %v", err)
	}

	// The server must tear the session down as soon as the close frame
	// arrives, not on its next failed write.
	conn.SetReadDeadline(deadline)
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue // in-flight snapshot push
		}
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			t.Fatal("session still open after the client's close frame")
		}
		return
	}
}
