package audio

import (
	"bytes"
	"math"
	"testing"
)

func s16Data(samples ...int16) Buffer {
	b := make(Buffer, len(samples)*2)
	for i, s := range samples {
		b[i*2] = byte(s)
		b[i*2+1] = byte(uint16(s) >> 8)
	}
	return b
}

func TestSampleLengthAndDuration(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 48000, Channels: 2}
	a.AllocateSample(9600)
	if got := len(a.Data); got != 9600*2*2 {
		t.Fatalf("expected %d bytes, got %d", 9600*2*2, got)
	}
	if got := a.SampleLength(); got != 9600*2 {
		t.Fatalf("expected %d samples, got %d", 9600*2, got)
	}
	if got := a.Duration(); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("expected 0.2s, got %v", got)
	}
	if len(a.Data)%(SizeOf(a.Format)*a.Channels) != 0 {
		t.Fatalf("data does not align to block size")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	a := &AudioData{Format: FormatS24, Frequency: 44100, Channels: 1}
	a.Data = Buffer{1, 2, 3, 4, 5, 6}

	var buf bytes.Buffer
	if err := a.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var b AudioData
	if err := b.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if b.Format != a.Format || b.Frequency != a.Frequency || b.Channels != a.Channels {
		t.Fatalf("header mismatch: %+v vs %+v", b, a)
	}
	if !bytes.Equal(b.Data, a.Data) {
		t.Fatalf("data mismatch: %v vs %v", b.Data, a.Data)
	}
}

func TestDeserializeRejectsMisaligned(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 2}
	a.Data = Buffer{1, 2, 3} // 3 字节对不上 2 声道 S16 的块长
	var buf bytes.Buffer
	if err := a.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var b AudioData
	if err := b.Deserialize(&buf); err == nil {
		t.Fatalf("expected alignment error")
	}
}

func TestWireLayout(t *testing.T) {
	// u32 format | u32 frequency | u32 channels | u32 dataLen | data
	a := &AudioData{Format: FormatS16, Frequency: 22050, Channels: 1}
	a.Data = Buffer{0xAA, 0xBB}
	var buf bytes.Buffer
	if err := a.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := []byte{
		2, 0, 0, 0,
		0x22, 0x56, 0, 0, // 22050
		1, 0, 0, 0,
		2, 0, 0, 0,
		0xAA, 0xBB,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire layout mismatch:\n got %v\nwant %v", buf.Bytes(), want)
	}
}

func TestHashDeterministic(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(1, 2, 3)}
	b := a.Clone()
	if a.Hash() != b.Hash() {
		t.Fatalf("identical data must hash equal")
	}
	b.Data[0]++
	if a.Hash() == b.Hash() {
		t.Fatalf("different data should almost never collide")
	}
}

func TestConvertSamplesToFloatU8(t *testing.T) {
	a := &AudioData{Format: FormatU8, Frequency: 8000, Channels: 1, Data: Buffer{0x00, 0x80, 0xFF}}
	dst := make([]float32, a.SampleLength())
	if err := a.ConvertSamplesToFloat(dst); err != nil {
		t.Fatalf("ConvertSamplesToFloat: %v", err)
	}
	if dst[0] != -1.0 || dst[2] != 1.0 {
		t.Fatalf("endpoints wrong: %v", dst)
	}
	if math.Abs(float64(dst[1])) > 1.0/255 {
		t.Fatalf("midpoint should be ~0 (±1/255), got %v", dst[1])
	}
}

func TestConvertSamplesToFloatRejectsRawFile(t *testing.T) {
	a := &AudioData{Format: FormatRawFile, Data: Buffer{1, 2, 3}}
	if err := a.ConvertSamplesToFloat(make([]float32, 4)); err == nil {
		t.Fatalf("expected error for RawFile")
	}
	b := &AudioData{Format: FormatUnknown}
	if err := b.ConvertSamplesToFloat(nil); err == nil {
		t.Fatalf("expected error for Unknown")
	}
}

func TestAppendIdentity(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(1, 2)}
	before := append(Buffer(nil), a.Data...)

	a.Append(&AudioData{}) // 空 → 不变
	if !bytes.Equal(a.Data, before) {
		t.Fatalf("append of empty must not change receiver")
	}

	var empty AudioData
	empty.Append(a) // Unknown += a → a 的拷贝
	if empty.Format != a.Format || empty.Frequency != a.Frequency || empty.Channels != a.Channels {
		t.Fatalf("expected clone header, got %+v", empty)
	}
	if !bytes.Equal(empty.Data, a.Data) {
		t.Fatalf("expected clone data")
	}
	// 确认是拷贝而不是共享底层数组
	empty.Data[0]++
	if a.Data[0] == empty.Data[0] {
		t.Fatalf("clone must not alias source data")
	}
}

func TestAppendSameFormat(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(1, 2)}
	b := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(3, 4)}
	a.Append(b)
	if !bytes.Equal(a.Data, s16Data(1, 2, 3, 4)) {
		t.Fatalf("expected byte concat, got %v", a.Data)
	}
}

func TestAppendConvertsFormat(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(0)}
	b := &AudioData{Format: FormatU8, Frequency: 8000, Channels: 1, Data: Buffer{0xFF}}
	a.Append(b)
	if got := a.SampleLength(); got != 2 {
		t.Fatalf("expected 2 samples, got %d", got)
	}
	// U8 0xFF = +1.0 → S16 32767
	v := int16(uint16(a.Data[2]) | uint16(a.Data[3])<<8)
	if v != 32767 {
		t.Fatalf("expected 32767, got %d", v)
	}
}

func TestAppendDropsMismatched(t *testing.T) {
	a := &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(1)}
	before := append(Buffer(nil), a.Data...)

	a.Append(&AudioData{Format: FormatS16, Frequency: 44100, Channels: 1, Data: s16Data(9)})
	a.Append(&AudioData{Format: FormatS16, Frequency: 8000, Channels: 2, Data: s16Data(9, 9)})
	if !bytes.Equal(a.Data, before) {
		t.Fatalf("mismatched frequency/channels must be dropped silently")
	}

	raw := &AudioData{Format: FormatRawFile, Data: Buffer{1, 2, 3}}
	raw.Append(a)
	if len(raw.Data) != 3 {
		t.Fatalf("RawFile receiver must stay unchanged")
	}
}

func TestAppendAssociativeSameFormat(t *testing.T) {
	mk := func(s ...int16) *AudioData {
		return &AudioData{Format: FormatS16, Frequency: 8000, Channels: 1, Data: s16Data(s...)}
	}
	left := mk(1, 2)
	left.Append(mk(3))
	left.Append(mk(4, 5))

	right := mk(1, 2)
	bc := mk(3)
	bc.Append(mk(4, 5))
	right.Append(bc)

	if !bytes.Equal(left.Data, right.Data) {
		t.Fatalf("append must be associative for uniform format:\n %v\n %v", left.Data, right.Data)
	}
}
