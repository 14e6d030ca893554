package textenc

import "testing"

func TestRoundTrip(t *testing.T) {
	// ASCII 在任何代码页下都原样往返
	src := "hello world"
	ansi, err := ToANSI(src)
	if err != nil {
		t.Fatalf("ToANSI: %v", err)
	}
	back, err := ToUTF8(ansi)
	if err != nil {
		t.Fatalf("ToUTF8: %v", err)
	}
	if back != src {
		t.Fatalf("expected %q, got %q", src, back)
	}
}
