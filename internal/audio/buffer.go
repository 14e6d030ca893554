package audio

// Buffer 连续字节缓冲
// Resize 只设置长度不清零已有容量，多兆字节的 PCM 块由生产方整块覆写
type Buffer []byte

// Resize 将长度精确设为 n
// 容量足够时直接重切片，旧内容原样保留
func (b *Buffer) Resize(n int) {
	if cap(*b) >= n {
		*b = (*b)[:n]
		return
	}
	nb := make(Buffer, n)
	copy(nb, *b)
	*b = nb
}

// Append 追加字节
func (b *Buffer) Append(p []byte) {
	*b = append(*b, p...)
}

func (b Buffer) Len() int { return len(b) }
