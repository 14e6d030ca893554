package audio

import (
	"math"
	"testing"
)

func TestUnorm8Endpoints(t *testing.T) {
	// 0x00 → -1.0, 0x80 → ≈0 (±1/255), 0xFF → +1.0
	if v := Unorm8ToFloat(0x00); v != -1.0 {
		t.Fatalf("expected -1.0, got %v", v)
	}
	if v := Unorm8ToFloat(0x80); math.Abs(float64(v)) > 1.0/255 {
		t.Fatalf("expected ~0, got %v", v)
	}
	if v := Unorm8ToFloat(0xFF); v != 1.0 {
		t.Fatalf("expected +1.0, got %v", v)
	}
}

func TestUnorm8RoundTrip(t *testing.T) {
	for i := 0; i <= 255; i++ {
		b := byte(i)
		if got := FloatToUnorm8(Unorm8ToFloat(b)); got != b {
			t.Fatalf("round trip %#x -> %#x", b, got)
		}
	}
}

func TestSnorm16(t *testing.T) {
	if v := Snorm16ToFloat(32767); v != 1.0 {
		t.Fatalf("expected 1.0, got %v", v)
	}
	if v := Snorm16ToFloat(-32768); v != -1.0 {
		t.Fatalf("expected saturation to -1.0, got %v", v)
	}
	if v := FloatToSnorm16(2.0); v != 32767 {
		t.Fatalf("expected saturation to 32767, got %d", v)
	}
	for _, s := range []int16{0, 1, -1, 1000, -1000, 32767} {
		if got := FloatToSnorm16(Snorm16ToFloat(s)); got != s {
			t.Fatalf("round trip %d -> %d", s, got)
		}
	}
}

func TestSnorm24SignExtension(t *testing.T) {
	// 0xFFFFFF = -1（符号扩展后）
	if v := Snorm24ToFloat(0xFF, 0xFF, 0xFF); math.Abs(float64(v)+1.0/8388607) > 1e-9 {
		t.Fatalf("expected -1/8388607, got %v", v)
	}
	if v := Snorm24ToFloat(0xFF, 0xFF, 0x7F); v != 1.0 {
		t.Fatalf("expected 1.0, got %v", v)
	}
	b0, b1, b2 := FloatToSnorm24(1.0)
	if b0 != 0xFF || b1 != 0xFF || b2 != 0x7F {
		t.Fatalf("expected 7FFFFF, got %02x%02x%02x", b2, b1, b0)
	}
}

func TestSnorm32(t *testing.T) {
	if v := Snorm32ToFloat(2147483647); v != 1.0 {
		t.Fatalf("expected 1.0, got %v", v)
	}
	if v := FloatToSnorm32(-1.0); v != -2147483647 {
		t.Fatalf("expected -2147483647, got %d", v)
	}
}
