package talk

import (
	"io"

	"github.com/PcloD/RemoteTalk/internal/wire"
)

// MaxParams 数值参数槽位上限
const MaxParams = 12

// 常用情感/系数在 Params 数组中的槽位
// 各主机的含义由 CastInfo.ParamNames 标注
const (
	ParamVolume = iota
	ParamSpeed
	ParamPitch
	ParamIntonation
	ParamAlpha
	ParamNormal
	ParamJoy
	ParamAnger
	ParamSorrow
)

// Flags 中数组槽位之外的位
const (
	flagMute      = 1 << (MaxParams + iota) // bit 12
	flagForceMono                           // bit 13
	flagCast                                // bit 14
)

// TalkParams 定宽参数包
// Flags 位图记录调用方显式设置过哪些子字段——
// 位未置起时接收方不得应用对应值，以区分“未改动”与“设为零”
type TalkParams struct {
	Mute      bool
	ForceMono bool
	Cast      int32
	Flags     uint32
	NumParams int32
	Params    [MaxParams]float32
}

// IsSet 槽位 i 是否被显式设置
func (p *TalkParams) IsSet(i int) bool {
	return p.Flags&(1<<uint(i)) != 0
}

// Set 设置槽位 i 的值并标记对应位
func (p *TalkParams) Set(i int, v float32) {
	if i < 0 || i >= MaxParams {
		return
	}
	p.Params[i] = v
	p.Flags |= 1 << uint(i)
}

func (p *TalkParams) Get(i int) float32 {
	if i < 0 || i >= MaxParams {
		return 0
	}
	return p.Params[i]
}

func (p *TalkParams) SetMute(v bool)      { p.Mute = v; p.Flags |= flagMute }
func (p *TalkParams) SetForceMono(v bool) { p.ForceMono = v; p.Flags |= flagForceMono }
func (p *TalkParams) SetCast(v int32)     { p.Cast = v; p.Flags |= flagCast }

func (p *TalkParams) MuteSet() bool      { return p.Flags&flagMute != 0 }
func (p *TalkParams) ForceMonoSet() bool { return p.Flags&flagForceMono != 0 }
func (p *TalkParams) CastSet() bool      { return p.Flags&flagCast != 0 }

func (p *TalkParams) SetVolume(v float32)     { p.Set(ParamVolume, v) }
func (p *TalkParams) SetSpeed(v float32)      { p.Set(ParamSpeed, v) }
func (p *TalkParams) SetPitch(v float32)      { p.Set(ParamPitch, v) }
func (p *TalkParams) SetIntonation(v float32) { p.Set(ParamIntonation, v) }
func (p *TalkParams) SetAlpha(v float32)      { p.Set(ParamAlpha, v) }
func (p *TalkParams) SetNormal(v float32)     { p.Set(ParamNormal, v) }
func (p *TalkParams) SetJoy(v float32)        { p.Set(ParamJoy, v) }
func (p *TalkParams) SetAnger(v float32)      { p.Set(ParamAnger, v) }
func (p *TalkParams) SetSorrow(v float32)     { p.Set(ParamSorrow, v) }

func (p *TalkParams) Volume() float32     { return p.Params[ParamVolume] }
func (p *TalkParams) Speed() float32      { return p.Params[ParamSpeed] }
func (p *TalkParams) Pitch() float32      { return p.Params[ParamPitch] }
func (p *TalkParams) Intonation() float32 { return p.Params[ParamIntonation] }
func (p *TalkParams) Alpha() float32      { return p.Params[ParamAlpha] }
func (p *TalkParams) Normal() float32     { return p.Params[ParamNormal] }
func (p *TalkParams) Joy() float32        { return p.Params[ParamJoy] }
func (p *TalkParams) Anger() float32      { return p.Params[ParamAnger] }
func (p *TalkParams) Sorrow() float32     { return p.Params[ParamSorrow] }

// Merge 合并语义：只应用 v 中置位的子字段，其余保持不变
// 数组槽位额外受 NumParams 约束之外的显式 Set 控制
func (p *TalkParams) Merge(v *TalkParams) {
	if v.MuteSet() {
		p.SetMute(v.Mute)
	}
	if v.ForceMonoSet() {
		p.SetForceMono(v.ForceMono)
	}
	if v.CastSet() {
		p.SetCast(v.Cast)
	}
	for i := 0; i < MaxParams; i++ {
		if v.IsSet(i) {
			p.Set(i, v.Params[i])
		}
	}
	for i := int32(0); i < v.NumParams && i < MaxParams; i++ {
		p.Params[i] = v.Params[i]
	}
	if v.NumParams > p.NumParams {
		p.NumParams = v.NumParams
	}
}

// Serialize 按声明顺序写出各成员
func (p *TalkParams) Serialize(w io.Writer) error {
	ww := wire.NewWriter(w)
	if err := ww.WriteInt32(boolToInt32(p.Mute)); err != nil {
		return err
	}
	if err := ww.WriteInt32(boolToInt32(p.ForceMono)); err != nil {
		return err
	}
	if err := ww.WriteInt32(p.Cast); err != nil {
		return err
	}
	if err := ww.WriteUint32(p.Flags); err != nil {
		return err
	}
	if err := ww.WriteInt32(p.NumParams); err != nil {
		return err
	}
	for _, f := range p.Params {
		if err := ww.WriteFloat32(f); err != nil {
			return err
		}
	}
	return nil
}

func (p *TalkParams) Deserialize(r io.Reader) error {
	rr := wire.NewReader(r)
	mute, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	mono, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	cast, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	flags, err := rr.ReadUint32()
	if err != nil {
		return err
	}
	num, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	p.Mute = mute != 0
	p.ForceMono = mono != 0
	p.Cast = cast
	p.Flags = flags
	p.NumParams = num
	for i := range p.Params {
		if p.Params[i], err = rr.ReadFloat32(); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// CastInfo 一个可选语音身份
// ParamNames[k] 标注该 cast 下 Params[k] 的含义
type CastInfo struct {
	ID         int32
	Name       string
	ParamNames []string
}
