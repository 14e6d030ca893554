package hostbridge

import (
	"bytes"
	"testing"
	"time"

	"github.com/PcloD/RemoteTalk/internal/audio"
	"github.com/PcloD/RemoteTalk/internal/server"
	"github.com/PcloD/RemoteTalk/internal/talk"
)

func decodeFrames(t *testing.T, raw []byte) []*audio.AudioData {
	t.Helper()
	var frames []*audio.AudioData
	r := bytes.NewReader(raw)
	for r.Len() > 0 {
		var a audio.AudioData
		if err := a.Deserialize(r); err != nil {
			t.Fatalf("frame decode: %v", err)
		}
		frames = append(frames, &a)
	}
	return frames
}

func TestOnTalkStreamsFramesAndTerminator(t *testing.T) {
	engine := talk.NewMockEngine()
	engine.FrameCount = 2
	engine.FrameBytes = 16
	b := New(engine, server.DefaultSettings())

	var buf bytes.Buffer
	stream := server.NewAudioStream(&buf)
	var p talk.TalkParams
	p.SetPitch(1.1)
	msg := server.NewTalkMessage(p, "hello", stream)

	if !b.OnTalk(msg) {
		t.Fatalf("OnTalk must accept when engine is ready")
	}
	select {
	case <-stream.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not finish")
	}

	frames := decodeFrames(t, buf.Bytes())
	if len(frames) != 3 {
		t.Fatalf("expected 2 frames + terminator, got %d", len(frames))
	}
	for _, f := range frames[:2] {
		if f.Format != audio.FormatS16 || f.Frequency != 22050 || f.Channels != 1 {
			t.Fatalf("unexpected frame header: %+v", f)
		}
		if len(f.Data) != 16 {
			t.Fatalf("expected 16-byte frame, got %d", len(f.Data))
		}
	}
	last := frames[2]
	if last.Format != audio.FormatUnknown || !last.Empty() {
		t.Fatalf("terminator must be empty Unknown frame, got %+v", last)
	}
}

func TestOnTalkRejectsWhileTalking(t *testing.T) {
	engine := talk.NewMockEngine()
	engine.FrameCount = 50
	engine.FrameInterval = 10 * time.Millisecond
	b := New(engine, server.DefaultSettings())

	var buf bytes.Buffer
	stream := server.NewAudioStream(&buf)
	msg := server.NewTalkMessage(talk.TalkParams{}, "long", stream)
	if !b.OnTalk(msg) {
		t.Fatalf("first OnTalk must be accepted")
	}

	var buf2 bytes.Buffer
	second := server.NewTalkMessage(talk.TalkParams{}, "busy", server.NewAudioStream(&buf2))
	if b.OnTalk(second) {
		t.Fatalf("OnTalk must refuse while a talk is in flight")
	}

	b.OnStop(server.NewStopMessage())
	select {
	case <-stream.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("stop must lead to terminal frame")
	}
}

func TestOnGetParamsCollectsCasts(t *testing.T) {
	engine := talk.NewMockEngine()
	b := New(engine, server.DefaultSettings())

	var p talk.TalkParams
	p.SetVolume(0.5)
	engine.SetParams(&p)

	msg := server.NewGetParamsMessage()
	if !b.OnGetParams(msg) {
		t.Fatalf("OnGetParams failed")
	}
	if msg.Params.Volume() != 0.5 {
		t.Fatalf("expected merged volume, got %v", msg.Params.Volume())
	}
	if len(msg.Casts) != 1 || msg.Casts[0].Name != "mock" {
		t.Fatalf("expected mock cast list, got %+v", msg.Casts)
	}
}
