//go:build windows

package hostbridge

import (
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/PcloD/RemoteTalk/internal/hook"
	"github.com/PcloD/RemoteTalk/internal/logging"
	"github.com/PcloD/RemoteTalk/internal/talk"
	"github.com/PcloD/RemoteTalk/internal/textenc"
)

// WaveOutEngine 通用宿主适配器
// 宿主把合成结果交给 winmm 播放，这是桥能观测到“合成完毕”并拿到
// 原始 PCM 的唯一入口：把 waveOutOpen/waveOutWrite/waveOutReset 从
// 各模块的导入表改道，采样直接转发给当前 Talk 的回调。
// 文本与播放通过窗口消息驱动宿主 UI
type WaveOutEngine struct {
	mu      sync.Mutex
	params  talk.TalkParams
	casts   []talk.CastInfo
	text    string
	cb      talk.SampleCallback
	talking atomic.Bool
	lastPCM atomic.Int64 // UnixNano，看门狗用
	format  waveFormat
	hooked  bool
}

type waveFormat struct {
	channels  int
	frequency int
	bits      int
}

// waveHdr winmm WAVEHDR
type waveHdr struct {
	Data          uintptr
	BufferLength  uint32
	BytesRecorded uint32
	User          uintptr
	Flags         uint32
	Loops         uint32
	Next          uintptr
	Reserved      uintptr
}

// waveFormatEx winmm WAVEFORMATEX
type waveFormatEx struct {
	FormatTag      uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	Size           uint16
}

var (
	waveEngine *WaveOutEngine

	origWaveOutOpen  uintptr
	origWaveOutWrite uintptr
	origWaveOutReset uintptr
)

func NewWaveOutEngine() *WaveOutEngine {
	return &WaveOutEngine{
		casts: []talk.CastInfo{{ID: 0, Name: "default"}},
	}
}

// InstallCapture 在所有已加载模块的导入表上改道 winmm 入口
func (e *WaveOutEngine) InstallCapture() error {
	if e.hooked {
		return nil
	}
	waveEngine = e

	installed := 0
	hook.EnumerateCurrentModules(func(mod windows.Handle) {
		if prev := hook.OverrideIAT(mod, "winmm.dll", "waveOutOpen",
			syscall.NewCallback(hookedWaveOutOpen)); prev != 0 {
			origWaveOutOpen = prev
			installed++
		}
		if prev := hook.OverrideIAT(mod, "winmm.dll", "waveOutWrite",
			syscall.NewCallback(hookedWaveOutWrite)); prev != 0 {
			origWaveOutWrite = prev
			installed++
		}
		if prev := hook.OverrideIAT(mod, "winmm.dll", "waveOutReset",
			syscall.NewCallback(hookedWaveOutReset)); prev != 0 {
			origWaveOutReset = prev
			installed++
		}
	})
	if installed == 0 {
		waveEngine = nil
		return hook.ErrImportNotFound
	}
	e.hooked = true
	logging.Infof("waveOut capture installed (%d import hooks)", installed)
	return nil
}

func hookedWaveOutOpen(phwo, deviceID, pwfx, cb, inst, flags uintptr) uintptr {
	if e := waveEngine; e != nil && pwfx != 0 {
		wf := (*waveFormatEx)(unsafe.Pointer(pwfx))
		e.mu.Lock()
		e.format = waveFormat{
			channels:  int(wf.Channels),
			frequency: int(wf.SamplesPerSec),
			bits:      int(wf.BitsPerSample),
		}
		e.mu.Unlock()
	}
	r, _, _ := syscall.SyscallN(origWaveOutOpen, phwo, deviceID, pwfx, cb, inst, flags)
	return r
}

func hookedWaveOutWrite(hwo, pwh, cbwh uintptr) uintptr {
	if e := waveEngine; e != nil && pwh != 0 {
		hdr := (*waveHdr)(unsafe.Pointer(pwh))
		if hdr.Data != 0 && hdr.BufferLength > 0 {
			e.deliver(unsafe.Slice((*byte)(unsafe.Pointer(hdr.Data)), hdr.BufferLength))
		}
	}
	r, _, _ := syscall.SyscallN(origWaveOutWrite, hwo, pwh, cbwh)
	return r
}

func hookedWaveOutReset(hwo uintptr) uintptr {
	if e := waveEngine; e != nil {
		e.finishTalk()
	}
	r, _, _ := syscall.SyscallN(origWaveOutReset, hwo)
	return r
}

func (e *WaveOutEngine) deliver(pcm []byte) {
	if !e.talking.Load() {
		return
	}
	e.mu.Lock()
	cb := e.cb
	f := e.format
	e.mu.Unlock()
	if cb == nil {
		return
	}
	data := make([]byte, len(pcm))
	copy(data, pcm)
	e.lastPCM.Store(time.Now().UnixNano())
	cb(&talk.TalkSample{Data: data, Bits: f.bits, Channels: f.channels, Frequency: f.frequency})
}

// finishTalk 送出终止 nil 样本并收尾
func (e *WaveOutEngine) finishTalk() {
	if !e.talking.CompareAndSwap(true, false) {
		return
	}
	e.mu.Lock()
	cb := e.cb
	e.cb = nil
	e.mu.Unlock()
	if cb != nil {
		cb(nil)
	}
}

func (e *WaveOutEngine) ClientName() string   { return "WaveOutCapture" }
func (e *WaveOutEngine) PluginVersion() int   { return 1 }
func (e *WaveOutEngine) ProtocolVersion() int { return 1 }

func (e *WaveOutEngine) GetParams(dst *talk.TalkParams) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	*dst = e.params
	return true
}

func (e *WaveOutEngine) SetParams(p *talk.TalkParams) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params.Merge(p)
	return true
}

func (e *WaveOutEngine) NumCasts() int { return len(e.casts) }

func (e *WaveOutEngine) CastInfo(i int) (talk.CastInfo, bool) {
	if i < 0 || i >= len(e.casts) {
		return talk.CastInfo{}, false
	}
	return e.casts[i], true
}

// SetText 把文本塞进宿主的文本框（文本已是 ANSI，窗口消息要 UTF-16）
func (e *WaveOutEngine) SetText(text string) bool {
	e.mu.Lock()
	e.text = text
	e.mu.Unlock()
	utf8Text, err := textenc.ToUTF8([]byte(text))
	if err != nil {
		return false
	}
	return setHostEditText(utf8Text)
}

func (e *WaveOutEngine) Ready() bool {
	return e.hooked && !e.talking.Load()
}

// Talk 按下宿主的播放钮，此后采样经 waveOutWrite 钩子回流
// 看门狗在首帧之后的静默期补发终止 nil（宿主播完不一定 reset）
func (e *WaveOutEngine) Talk(cb talk.SampleCallback) bool {
	if !e.talking.CompareAndSwap(false, true) {
		return false
	}
	e.mu.Lock()
	e.cb = cb
	e.mu.Unlock()
	e.lastPCM.Store(0)

	if !clickHostPlayButton() {
		e.finishTalk()
		return false
	}

	go func() {
		const idle = 500 * time.Millisecond
		deadline := time.Now().Add(30 * time.Second)
		for e.talking.Load() {
			time.Sleep(50 * time.Millisecond)
			last := e.lastPCM.Load()
			if last != 0 && time.Since(time.Unix(0, last)) > idle {
				e.finishTalk()
				return
			}
			if time.Now().After(deadline) {
				e.finishTalk()
				return
			}
		}
	}()
	return true
}

func (e *WaveOutEngine) Stop() bool {
	clickHostStopButton()
	e.finishTalk()
	return true
}
