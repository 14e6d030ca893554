package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/PcloD/RemoteTalk/internal/talk"
)

const (
	// waitInterval × waitIterations ≈ 5 分钟，与既有客户端的超时预期一致
	waitInterval   = 30 * time.Millisecond
	waitIterations = 10000
)

// Message 消息队列中的一项
// 由 HTTP worker 构造入队，引擎线程消费，ready 单调地从 false 翻到 true
type Message interface {
	Ready() bool
	Wait() bool

	markReady()
	processing() bool
}

type baseMessage struct {
	uid   string
	ready atomic.Bool

	mu   sync.Mutex
	task <-chan struct{}
}

func newBaseMessage() baseMessage {
	return baseMessage{uid: uuid.NewString()}
}

func (m *baseMessage) ID() string { return m.uid }

func (m *baseMessage) Ready() bool { return m.ready.Load() }

func (m *baseMessage) markReady() { m.ready.Store(true) }

// SetTask 挂接后台任务（音频分块异步写响应）的完成信号
// 必须在 markReady 之前由处理方调用
func (m *baseMessage) SetTask(done <-chan struct{}) {
	m.mu.Lock()
	m.task = done
	m.mu.Unlock()
}

func (m *baseMessage) taskChan() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task
}

func (m *baseMessage) processing() bool {
	task := m.taskChan()
	if task == nil {
		return false
	}
	select {
	case <-task:
		return false
	default:
		return true
	}
}

// Wait 轮询 ready 位（30ms 步长，上限约 5 分钟），随后排空后台任务
func (m *baseMessage) Wait() bool {
	for i := 0; i < waitIterations; i++ {
		if m.ready.Load() {
			break
		}
		time.Sleep(waitInterval)
	}
	if task := m.taskChan(); task != nil {
		<-task
	}
	return m.ready.Load()
}

// TalkMessage 请求引擎发声
// Stream 由发起请求的 HTTP worker 打开，寿命长于消息本身
type TalkMessage struct {
	baseMessage
	Params talk.TalkParams
	Text   string
	Stream *AudioStream
}

func NewTalkMessage(params talk.TalkParams, text string, stream *AudioStream) *TalkMessage {
	return &TalkMessage{baseMessage: newBaseMessage(), Params: params, Text: text, Stream: stream}
}

// StopMessage 请求中止进行中的发声
// 它是唯一允许越过在途 TalkMessage 被处理的消息类型
type StopMessage struct {
	baseMessage
}

func NewStopMessage() *StopMessage {
	return &StopMessage{baseMessage: newBaseMessage()}
}

// GetParamsMessage 读取当前参数与 cast 列表
type GetParamsMessage struct {
	baseMessage
	Params talk.TalkParams
	Casts  []talk.CastInfo
}

func NewGetParamsMessage() *GetParamsMessage {
	return &GetParamsMessage{baseMessage: newBaseMessage(), Casts: []talk.CastInfo{}}
}

// DebugMessage 调试构建下由 /debug 投递
type DebugMessage struct {
	baseMessage
}

func NewDebugMessage() *DebugMessage {
	return &DebugMessage{baseMessage: newBaseMessage()}
}
