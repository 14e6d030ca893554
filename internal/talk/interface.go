package talk

import (
	"github.com/PcloD/RemoteTalk/internal/audio"
)

// InterfaceFuncName 注入库必须以 C 链接导出的符号名
const InterfaceFuncName = "rtGetTalkInterface"

// TalkSample 引擎回调交付的一段 PCM
// Bits 为每样本位数（8/16/24/32），与一次 AudioData 追加一一对应
type TalkSample struct {
	Data      []byte
	Bits      int
	Channels  int
	Frequency int
}

// ToAudioData 按位深映射为带格式标签的 AudioData
func (s *TalkSample) ToAudioData() *audio.AudioData {
	a := &audio.AudioData{Frequency: s.Frequency, Channels: s.Channels}
	switch s.Bits {
	case 8:
		a.Format = audio.FormatU8
	case 16:
		a.Format = audio.FormatS16
	case 24:
		a.Format = audio.FormatS24
	case 32:
		a.Format = audio.FormatS32
	default:
		a.Format = audio.FormatUnknown
	}
	a.Data = append(audio.Buffer(nil), s.Data...)
	return a
}

// SampleCallback 一次 Talk 会调用零或多次非 nil 样本，
// 最后恰好一次 nil 通知结束（Stop 之后终止 nil 也必须送达）
type SampleCallback func(sample *TalkSample)

// TalkInterface 对 TTS 引擎的抽象契约
// 实现只能在引擎线程上被调用；返回 false 表示当前无法受理
type TalkInterface interface {
	// 握手信息
	ClientName() string
	PluginVersion() int
	ProtocolVersion() int

	// GetParams 读出当前参数；SetParams 按 Merge 语义只应用置位字段
	GetParams(dst *TalkParams) bool
	SetParams(p *TalkParams) bool

	// cast 列表在一次会话内有序且稳定
	NumCasts() int
	CastInfo(i int) (CastInfo, bool)

	// SetText 暂存下一次发声文本（主机本地 ANSI 编码）
	SetText(text string) bool

	// Ready 引擎已初始化且空闲
	Ready() bool

	// Talk 开始合成；Stop 请求中止进行中的合成
	Talk(cb SampleCallback) bool
	Stop() bool
}
