package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/PcloD/RemoteTalk/internal/wire"
)

var (
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
	ErrFormatMismatch    = errors.New("audio: format mismatch")
)

// AudioData 以采样格式打标的 PCM 容器
// 生命周期：空建 → 引擎回调填充 → 序列化进 HTTP 响应 → 丢弃
// 不变量：PCM 格式下 len(Data) 是 SizeOf(Format)*Channels 的整数倍
type AudioData struct {
	Format    Format
	Frequency int
	Channels  int
	Data      Buffer
}

// Serialize 依次写出 format、frequency、channels、data
func (a *AudioData) Serialize(w io.Writer) error {
	ww := wire.NewWriter(w)
	if err := ww.WriteInt32(int32(a.Format)); err != nil {
		return err
	}
	if err := ww.WriteInt32(int32(a.Frequency)); err != nil {
		return err
	}
	if err := ww.WriteInt32(int32(a.Channels)); err != nil {
		return err
	}
	return ww.WriteBytes(a.Data)
}

// Deserialize 与 Serialize 严格同序读回
func (a *AudioData) Deserialize(r io.Reader) error {
	rr := wire.NewReader(r)
	f, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	freq, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	ch, err := rr.ReadInt32()
	if err != nil {
		return err
	}
	data, err := rr.ReadBytes()
	if err != nil {
		return err
	}
	a.Format = Format(f)
	a.Frequency = int(freq)
	a.Channels = int(ch)
	a.Data = data

	if a.Format.IsPCM() {
		block := SizeOf(a.Format) * a.Channels
		if block <= 0 || len(a.Data)%block != 0 {
			return fmt.Errorf("audio: %d bytes do not align to %s x%d channels", len(a.Data), a.Format, a.Channels)
		}
	}
	return nil
}

// Hash 对 Data 做确定性的 64 位指纹
func (a *AudioData) Hash() uint64 {
	return xxhash.Sum64(a.Data)
}

// AllocateByte 将数据长度精确设为 n 字节
func (a *AudioData) AllocateByte(n int) []byte {
	a.Data.Resize(n)
	return a.Data
}

// AllocateSample 按样本数分配：n * channels * 每样本字节数
func (a *AudioData) AllocateSample(n int) []byte {
	a.Data.Resize(n * a.Channels * SizeOf(a.Format))
	return a.Data
}

// SampleLength 样本总数（各声道合计）
func (a *AudioData) SampleLength() int {
	s := SizeOf(a.Format)
	if s == 0 {
		return 0
	}
	return len(a.Data) / s
}

// Duration 时长（秒）
func (a *AudioData) Duration() float64 {
	if a.Frequency == 0 || a.Channels == 0 {
		return 0
	}
	return float64(a.SampleLength()) / float64(a.Frequency*a.Channels)
}

// Empty 判断数据是否为空，不看格式（终止帧另需 Format 为 Unknown）
func (a *AudioData) Empty() bool {
	return len(a.Data) == 0
}

// Clone 深拷贝
func (a *AudioData) Clone() *AudioData {
	c := &AudioData{Format: a.Format, Frequency: a.Frequency, Channels: a.Channels}
	c.Data = append(Buffer(nil), a.Data...)
	return c
}

// ConvertSamplesToFloat 把每个样本按其格式归一化为 float
// dst 长度不得小于 SampleLength()
func (a *AudioData) ConvertSamplesToFloat(dst []float32) error {
	n := a.SampleLength()
	if len(dst) < n {
		return fmt.Errorf("audio: dst holds %d samples, need %d", len(dst), n)
	}
	switch a.Format {
	case FormatU8:
		for i := 0; i < n; i++ {
			dst[i] = Unorm8ToFloat(a.Data[i])
		}
	case FormatS16:
		for i := 0; i < n; i++ {
			v := int16(uint16(a.Data[i*2]) | uint16(a.Data[i*2+1])<<8)
			dst[i] = Snorm16ToFloat(v)
		}
	case FormatS24:
		for i := 0; i < n; i++ {
			dst[i] = Snorm24ToFloat(a.Data[i*3], a.Data[i*3+1], a.Data[i*3+2])
		}
	case FormatS32:
		for i := 0; i < n; i++ {
			v := int32(uint32(a.Data[i*4]) | uint32(a.Data[i*4+1])<<8 | uint32(a.Data[i*4+2])<<16 | uint32(a.Data[i*4+3])<<24)
			dst[i] = Snorm32ToFloat(v)
		}
	case FormatF32:
		for i := 0; i < n; i++ {
			bits := uint32(a.Data[i*4]) | uint32(a.Data[i*4+1])<<8 | uint32(a.Data[i*4+2])<<16 | uint32(a.Data[i*4+3])<<24
			dst[i] = math.Float32frombits(bits)
		}
	default:
		return ErrUnsupportedFormat
	}
	return nil
}

// putFloatSample 把归一化样本写入 data 中第 i 个样本位
func putFloatSample(f Format, data []byte, i int, v float32) {
	switch f {
	case FormatU8:
		data[i] = FloatToUnorm8(v)
	case FormatS16:
		s := FloatToSnorm16(v)
		data[i*2] = byte(s)
		data[i*2+1] = byte(uint16(s) >> 8)
	case FormatS24:
		b0, b1, b2 := FloatToSnorm24(v)
		data[i*3] = b0
		data[i*3+1] = b1
		data[i*3+2] = b2
	case FormatS32:
		s := uint32(FloatToSnorm32(v))
		data[i*4] = byte(s)
		data[i*4+1] = byte(s >> 8)
		data[i*4+2] = byte(s >> 16)
		data[i*4+3] = byte(s >> 24)
	case FormatF32:
		bits := math.Float32bits(v)
		data[i*4] = byte(bits)
		data[i*4+1] = byte(bits >> 8)
		data[i*4+2] = byte(bits >> 16)
		data[i*4+3] = byte(bits >> 24)
	}
}

// Append 确定性拼接，必要时逐样本转换格式
// 规则按序：
//  1. 自身为 RawFile、对方为空、对方为 Unknown/RawFile → 不变
//  2. 自身为 Unknown → 变为对方的拷贝
//  3. 声道与采样率一致：同格式直接拼字节，异格式转换后追加
//  4. 声道或采样率不一致 → 静默丢弃（沿袭既有客户端依赖的行为）
func (a *AudioData) Append(v *AudioData) {
	if a.Format == FormatRawFile || v == nil || v.Empty() ||
		v.Format == FormatUnknown || v.Format == FormatRawFile {
		return
	}

	if a.Format == FormatUnknown {
		*a = *v.Clone()
		return
	}

	if a.Channels != v.Channels || a.Frequency != v.Frequency {
		return
	}

	if a.Format == v.Format {
		a.Data.Append(v.Data)
		return
	}

	pos := a.SampleLength()
	src := make([]float32, v.SampleLength())
	if err := v.ConvertSamplesToFloat(src); err != nil {
		return
	}
	a.Data.Resize((pos + len(src)) * SizeOf(a.Format))
	for i, s := range src {
		putFloatSample(a.Format, a.Data, pos+i, s)
	}
}
