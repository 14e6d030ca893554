package hook

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestJumpCodeNearForward(t *testing.T) {
	code := JumpCode(0x1000, 0x2000)
	if len(code) != 5 {
		t.Fatalf("expected 5-byte near jump, got %d bytes", len(code))
	}
	if code[0] != 0xE9 {
		t.Fatalf("expected E9 opcode, got %#x", code[0])
	}
	rel := int32(binary.LittleEndian.Uint32(code[1:]))
	if rel != 0x2000-(0x1000+5) {
		t.Fatalf("expected rel32 %#x, got %#x", 0x2000-(0x1000+5), rel)
	}
}

func TestJumpCodeNearBackward(t *testing.T) {
	code := JumpCode(0x2000, 0x1000)
	if len(code) != 5 || code[0] != 0xE9 {
		t.Fatalf("expected near jump, got % x", code)
	}
	rel := int32(binary.LittleEndian.Uint32(code[1:]))
	if rel != 0x1000-(0x2000+5) {
		t.Fatalf("expected negative rel32, got %#x", rel)
	}
}

func TestJumpCodeFar(t *testing.T) {
	from := uintptr(0x10000000)
	to := uintptr(0x10000000 + nearJumpRange + 0x10000)
	code := JumpCode(from, to)
	if len(code) != 14 {
		t.Fatalf("expected 14-byte indirect jump, got %d bytes", len(code))
	}
	if !bytes.Equal(code[0:2], []byte{0xFF, 0x25}) {
		t.Fatalf("expected FF 25 prefix, got % x", code[0:2])
	}
	if binary.LittleEndian.Uint32(code[2:6]) != 0 {
		t.Fatalf("disp32 must be 0")
	}
	if binary.LittleEndian.Uint64(code[6:]) != uint64(to) {
		t.Fatalf("inline target mismatch")
	}
}

func TestJumpCodeBoundary(t *testing.T) {
	// 距离恰好在界内仍是近跳
	from := uintptr(0x1000)
	to := from + 5 + nearJumpRange
	if code := JumpCode(from, to); len(code) != 5 {
		t.Fatalf("boundary distance must still use near jump, got %d bytes", len(code))
	}
	if code := JumpCode(from, to+1); len(code) != 14 {
		t.Fatalf("past-boundary distance must use indirect jump")
	}
}
