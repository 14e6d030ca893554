package hook

import "encoding/binary"

// nearJumpRange E9 近跳的可达范围
const nearJumpRange = 0x7fff0000

// JumpCode 生成从 from 到 to 的无条件跳转机器码
// 距离在 ±0x7fff0000 内用 5 字节近相对跳（E9 rel32），
// 否则用 6 字节间接跳 + 内联 64 位目标（FF 25 disp32 abs64）
func JumpCode(from, to uintptr) []byte {
	jumpFrom := from + 5
	var distance uintptr
	if jumpFrom > to {
		distance = jumpFrom - to
	} else {
		distance = to - jumpFrom
	}

	if distance <= nearJumpRange {
		buf := make([]byte, 5)
		buf[0] = 0xE9
		binary.LittleEndian.PutUint32(buf[1:], uint32(to-jumpFrom))
		return buf
	}

	buf := make([]byte, 14)
	buf[0] = 0xFF
	buf[1] = 0x25
	binary.LittleEndian.PutUint32(buf[2:6], 0)
	binary.LittleEndian.PutUint64(buf[6:], uint64(to))
	return buf
}
