package server

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"

	"github.com/PcloD/RemoteTalk/internal/audio"
	"github.com/PcloD/RemoteTalk/internal/logging"
)

// AudioStream 引擎产出与 HTTP 响应之间的解耦缓冲
// 引擎侧 Push 永不阻塞（帧先进内存）；专门的写协程把帧序列化进响应，
// 客户端读得慢或断开时丢弃剩余帧而不是反压引擎
type AudioStream struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frames []*audio.AudioData
	closed bool

	w      io.Writer
	done   chan struct{}
	failed atomic.Bool
	wrote  atomic.Bool
}

type flusher interface {
	Flush()
}

func NewAudioStream(w io.Writer) *AudioStream {
	s := &AudioStream{w: w, done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Push 投入一帧，立即返回
func (s *AudioStream) Push(a *audio.AudioData) {
	s.mu.Lock()
	if !s.closed {
		s.frames = append(s.frames, a)
	}
	s.mu.Unlock()
	s.cond.Signal()
}

// Close 声明不再有帧；写协程补上终止空帧后退出
func (s *AudioStream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Signal()
}

// Done 写协程完成（或放弃）的信号
func (s *AudioStream) Done() <-chan struct{} { return s.done }

// Wrote 是否已有字节写进响应
func (s *AudioStream) Wrote() bool { return s.wrote.Load() }

func (s *AudioStream) run() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.frames) == 0 && !s.closed {
			s.cond.Wait()
		}
		batch := s.frames
		s.frames = nil
		closed := s.closed
		s.mu.Unlock()

		for _, frame := range batch {
			s.writeFrame(frame)
		}
		if closed {
			s.mu.Lock()
			rest := s.frames
			s.frames = nil
			s.mu.Unlock()
			for _, frame := range rest {
				s.writeFrame(frame)
			}
			// 终止空帧：format=Unknown 且 data 为空
			s.writeFrame(&audio.AudioData{})
			return
		}
	}
}

func (s *AudioStream) writeFrame(frame *audio.AudioData) {
	if s.failed.Load() {
		return
	}
	var buf bytes.Buffer
	if err := frame.Serialize(&buf); err != nil {
		s.failed.Store(true)
		return
	}
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		// 连接断开：之后的帧全部丢弃，引擎继续跑完或被 /stop 终止
		logging.Debugf("audio stream write failed, dropping remaining frames: %v", err)
		s.failed.Store(true)
		return
	}
	s.wrote.Store(true)
	if f, ok := s.w.(flusher); ok {
		f.Flush()
	}
}
