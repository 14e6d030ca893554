package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// 长度前缀二进制编解码
// 定宽整数一律小端；string 与字节向量写作 u32 长度 + 内容
// 结构体按成员声明顺序依次写出，读取严格按位置进行，版本不匹配直接报错

type Writer struct {
	w   io.Writer
	buf [8]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteUint16(v uint16) error {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	return w.writeRaw(w.buf[:2])
}

func (w *Writer) WriteUint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	return w.writeRaw(w.buf[:4])
}

func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

func (w *Writer) WriteUint64(v uint64) error {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	return w.writeRaw(w.buf[:8])
}

func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteBytes 写 u32 长度 + 原始字节
func (w *Writer) WriteBytes(p []byte) error {
	if err := w.WriteUint32(uint32(len(p))); err != nil {
		return err
	}
	return w.writeRaw(p)
}

func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

func (w *Writer) writeRaw(p []byte) error {
	if _, err := w.w.Write(p); err != nil {
		return fmt.Errorf("wire write: %w", err)
	}
	return nil
}

type Reader struct {
	r   io.Reader
	buf [8]byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.readRaw(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.buf[:2]), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.readRaw(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.buf[:4]), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.readRaw(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(r.buf[:8]), nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	p := make([]byte, n)
	if err := r.readRaw(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Reader) ReadString() (string, error) {
	p, err := r.ReadBytes()
	return string(p), err
}

func (r *Reader) readRaw(p []byte) error {
	if _, err := io.ReadFull(r.r, p); err != nil {
		return fmt.Errorf("wire read: %w", err)
	}
	return nil
}
