package server

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/PcloD/RemoteTalk/internal/audio"
)

func TestWSTalkPushesBinaryFrames(t *testing.T) {
	h := newTestHandler()
	s, ts := newTestServer(h)
	defer ts.Close()
	stop := pump(s)
	defer stop()

	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws/talk?text=hello"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frames []*audio.AudioData
	for {
		mt, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if mt != websocket.BinaryMessage {
			t.Fatalf("expected binary message, got %d", mt)
		}
		var a audio.AudioData
		if err := a.Deserialize(bytes.NewReader(raw)); err != nil {
			t.Fatalf("frame decode: %v", err)
		}
		frames = append(frames, &a)
		if a.Format == audio.FormatUnknown && a.Empty() {
			break
		}
	}

	if len(frames) != 2 {
		t.Fatalf("expected 1 frame + terminator, got %d", len(frames))
	}
	if frames[0].Format != audio.FormatS16 || len(frames[0].Data) != 16 {
		t.Fatalf("unexpected frame: %+v", frames[0])
	}
}
