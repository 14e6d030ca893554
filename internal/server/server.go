package server

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/PcloD/RemoteTalk/internal/logging"
)

// Settings HTTP 服务器设置
type Settings struct {
	MaxQueue   int
	MaxThreads int
	Port       uint16
}

func DefaultSettings() Settings {
	return Settings{MaxQueue: 256, MaxThreads: 8, Port: 8081}
}

// Handler 引擎线程侧的消息处理方
// 返回 false 表示“现在处理不了”，消息留到下一轮
type Handler interface {
	OnTalk(*TalkMessage) bool
	OnStop(*StopMessage) bool
	OnGetParams(*GetParamsMessage) bool
	Ready() bool
}

// DebugHandler 调试构建下可选实现
type DebugHandler interface {
	OnDebug(*DebugMessage) bool
}

// TalkServer 拥有消息队列与 HTTP 服务器
// 队列是唯一的跨线程可变状态，由单把互斥锁守护
type TalkServer struct {
	settings Settings
	handler  Handler

	mu       sync.Mutex
	messages []Message

	listener net.Listener
	httpSrv  *http.Server

	slots  chan struct{}
	queued chan struct{}
}

func New(handler Handler, settings Settings) *TalkServer {
	if settings.MaxThreads <= 0 {
		settings.MaxThreads = DefaultSettings().MaxThreads
	}
	if settings.MaxQueue <= 0 {
		settings.MaxQueue = DefaultSettings().MaxQueue
	}
	return &TalkServer{
		settings: settings,
		handler:  handler,
		slots:    make(chan struct{}, settings.MaxThreads),
		queued:   make(chan struct{}, settings.MaxQueue),
	}
}

// Start 绑定端口并开始服务；绑定失败原样上抛，服务器保持未启动
func (s *TalkServer) Start() error {
	if s.httpSrv != nil {
		return nil
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.settings.Port))
	if err != nil {
		return fmt.Errorf("bind port %d: %w", s.settings.Port, err)
	}
	s.listener = ln
	srv := &http.Server{Handler: s.router()}
	s.httpSrv = srv
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Errorf("talk server: %v", err)
		}
	}()
	logging.Infof("talk server listening on :%d", s.settings.Port)
	return nil
}

// Shutdown 停止 HTTP 服务
func (s *TalkServer) Shutdown() {
	if s.httpSrv != nil {
		_ = s.httpSrv.Close()
		s.httpSrv = nil
		s.listener = nil
	}
}

// Port 实际监听端口
func (s *TalkServer) Port() uint16 {
	if s.listener == nil {
		return s.settings.Port
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return uint16(addr.Port)
	}
	return s.settings.Port
}

// AddMessage 入队
func (s *TalkServer) AddMessage(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

// PendingMessages 当前队列长度（诊断用）
func (s *TalkServer) PendingMessages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// ProcessMessages 在引擎线程上反复调用
// 严格按 FIFO 派发未就绪消息；处理方拒绝时本轮终止，仅允许 Stop 插队。
// 就绪且后台任务已结束的消息被移除
func (s *TalkServer) ProcessMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.messages {
		if m.Ready() {
			continue
		}
		if s.dispatch(m) {
			m.markReady()
			continue
		}
		// 在途消息挡住了队列：唯一合法的越位是 Stop
		for _, n := range s.messages[i+1:] {
			if stop, ok := n.(*StopMessage); ok && !stop.Ready() {
				if s.handler.OnStop(stop) {
					stop.markReady()
				}
				break
			}
		}
		break
	}

	keep := s.messages[:0]
	for _, m := range s.messages {
		if !m.Ready() || m.processing() {
			keep = append(keep, m)
		}
	}
	s.messages = keep
}

func (s *TalkServer) dispatch(m Message) bool {
	switch msg := m.(type) {
	case *TalkMessage:
		return s.handler.OnTalk(msg)
	case *StopMessage:
		return s.handler.OnStop(msg)
	case *GetParamsMessage:
		return s.handler.OnGetParams(msg)
	case *DebugMessage:
		if dh, ok := s.handler.(DebugHandler); ok {
			return dh.OnDebug(msg)
		}
		return true
	default:
		return true
	}
}
