package talk

import (
	"sync"
	"sync/atomic"
	"time"
)

// MockEngine 确定性的内置引擎
// 合成固定参数的静音帧，供测试、cmd/mockhost 与客户端联调使用
type MockEngine struct {
	// FrameCount 每次 Talk 产出的帧数
	FrameCount int
	// FrameBytes 每帧字节数
	FrameBytes int
	// FrameInterval 相邻帧的产出间隔
	FrameInterval time.Duration
	// Frequency/Channels/Bits 产出样本的规格
	Frequency int
	Channels  int
	Bits      int

	mu      sync.Mutex
	params  TalkParams
	casts   []CastInfo
	text    string
	talking atomic.Bool
	stopped atomic.Bool
}

func NewMockEngine() *MockEngine {
	return &MockEngine{
		FrameCount: 1,
		FrameBytes: 16,
		Frequency:  22050,
		Channels:   1,
		Bits:       16,
		casts: []CastInfo{
			{ID: 0, Name: "mock", ParamNames: []string{"高兴", "怒り", "哀しみ"}},
		},
	}
}

func (m *MockEngine) ClientName() string   { return "MockHost" }
func (m *MockEngine) PluginVersion() int   { return 1 }
func (m *MockEngine) ProtocolVersion() int { return 1 }

func (m *MockEngine) GetParams(dst *TalkParams) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = m.params
	return true
}

func (m *MockEngine) SetParams(p *TalkParams) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.Merge(p)
	return true
}

func (m *MockEngine) NumCasts() int { return len(m.casts) }

func (m *MockEngine) CastInfo(i int) (CastInfo, bool) {
	if i < 0 || i >= len(m.casts) {
		return CastInfo{}, false
	}
	return m.casts[i], true
}

func (m *MockEngine) SetText(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return true
}

func (m *MockEngine) Ready() bool {
	return !m.talking.Load()
}

// Talk 立即返回，帧在后台陆续交付；Stop 之后尽快送出终止 nil
func (m *MockEngine) Talk(cb SampleCallback) bool {
	if !m.talking.CompareAndSwap(false, true) {
		return false
	}
	m.stopped.Store(false)

	go func() {
		defer func() {
			cb(nil)
			m.talking.Store(false)
		}()
		for i := 0; i < m.FrameCount; i++ {
			if m.stopped.Load() {
				return
			}
			if i > 0 && m.FrameInterval > 0 {
				time.Sleep(m.FrameInterval)
			}
			if m.stopped.Load() {
				return
			}
			cb(&TalkSample{
				Data:      make([]byte, m.FrameBytes),
				Bits:      m.Bits,
				Channels:  m.Channels,
				Frequency: m.Frequency,
			})
		}
	}()
	return true
}

func (m *MockEngine) Stop() bool {
	m.stopped.Store(true)
	return true
}
