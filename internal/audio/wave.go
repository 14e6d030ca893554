package audio

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ExportAsWave 写出 16/24/32/8 位整型 PCM 的 RIFF WAVE 文件
// 头部固定 44 字节，布局与既有客户端字节级兼容
// F32 与 RawFile 不能按整型 PCM 落盘，直接报错
func (a *AudioData) ExportAsWave(path string) error {
	if a.Format == FormatRawFile || a.Format == FormatF32 || !a.Format.IsPCM() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, a.Format)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wave: %w", err)
	}
	defer file.Close()

	bitsPerSample := BitsOf(a.Format)
	byteRate := a.Frequency * bitsPerSample * a.Channels / 8
	blockAlign := bitsPerSample * a.Channels / 8
	totalLen := 44 + len(a.Data)

	binary.Write(file, binary.LittleEndian, []byte("RIFF"))
	binary.Write(file, binary.LittleEndian, uint32(totalLen-8))
	binary.Write(file, binary.LittleEndian, []byte("WAVE"))
	binary.Write(file, binary.LittleEndian, []byte("fmt "))
	binary.Write(file, binary.LittleEndian, uint32(16))
	binary.Write(file, binary.LittleEndian, uint16(1))
	binary.Write(file, binary.LittleEndian, uint16(a.Channels))
	binary.Write(file, binary.LittleEndian, uint32(a.Frequency))
	binary.Write(file, binary.LittleEndian, uint32(byteRate))
	binary.Write(file, binary.LittleEndian, uint16(blockAlign))
	binary.Write(file, binary.LittleEndian, uint16(bitsPerSample))
	binary.Write(file, binary.LittleEndian, []byte("data"))
	binary.Write(file, binary.LittleEndian, uint32(totalLen-44))

	if _, err := file.Write(a.Data); err != nil {
		return fmt.Errorf("write wave data: %w", err)
	}
	return nil
}
