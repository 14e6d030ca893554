// Package hostbridge 把挂钩工具、消息泵与 HTTP 服务器装配成宿主进程内的桥
// 各宿主的 TalkInterface 适配器注入到 Bridge，其余装配一致：
// 启动 TalkServer，把 ProcessMessages 泵到宿主 GUI 线程上执行。
// 任一环节失败都退化为空操作，宿主照常运行
package hostbridge

import (
	"github.com/PcloD/RemoteTalk/internal/logging"
	"github.com/PcloD/RemoteTalk/internal/server"
	"github.com/PcloD/RemoteTalk/internal/talk"
)

type Bridge struct {
	engine talk.TalkInterface
	server *server.TalkServer
}

func New(engine talk.TalkInterface, settings server.Settings) *Bridge {
	b := &Bridge{engine: engine}
	b.server = server.New(b, settings)
	return b
}

func (b *Bridge) Server() *server.TalkServer { return b.server }

func (b *Bridge) Engine() talk.TalkInterface { return b.engine }

// Start 启动 HTTP 服务；泵的安装由平台侧完成
func (b *Bridge) Start() error {
	return b.server.Start()
}

func (b *Bridge) Shutdown() {
	b.server.Shutdown()
}

// ProcessMessages 必须在引擎线程上调用
func (b *Bridge) ProcessMessages() {
	b.server.ProcessMessages()
}

func (b *Bridge) Ready() bool {
	return b.engine.Ready()
}

// OnTalk 引擎空闲时受理：下参数、置文本、起合成
// 采样回调把 PCM 推进响应流，终止 nil 样本关闭流
func (b *Bridge) OnTalk(m *server.TalkMessage) bool {
	if !b.engine.Ready() {
		return false
	}
	stream := m.Stream
	if stream == nil {
		return true
	}
	m.SetTask(stream.Done())

	b.engine.SetParams(&m.Params)
	b.engine.SetText(m.Text)
	ok := b.engine.Talk(func(s *talk.TalkSample) {
		if s == nil {
			stream.Close()
			return
		}
		stream.Push(s.ToAudioData())
	})
	if !ok {
		logging.WithRequest(m.ID()).Warnf("engine rejected talk")
		stream.Close()
	}
	return true
}

func (b *Bridge) OnStop(m *server.StopMessage) bool {
	b.engine.Stop()
	return true
}

func (b *Bridge) OnGetParams(m *server.GetParamsMessage) bool {
	b.engine.GetParams(&m.Params)
	n := b.engine.NumCasts()
	casts := make([]talk.CastInfo, 0, n)
	for i := 0; i < n; i++ {
		if ci, ok := b.engine.CastInfo(i); ok {
			casts = append(casts, ci)
		}
	}
	m.Casts = casts
	return true
}

// OnDebug 调试构建下输出引擎状态
func (b *Bridge) OnDebug(m *server.DebugMessage) bool {
	var p talk.TalkParams
	b.engine.GetParams(&p)
	logging.Infof("engine %s ready=%v casts=%d cast=%d",
		b.engine.ClientName(), b.engine.Ready(), b.engine.NumCasts(), p.Cast)
	return true
}
