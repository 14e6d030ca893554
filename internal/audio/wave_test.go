package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestExportAsWaveLayout(t *testing.T) {
	a := &AudioData{
		Format:    FormatS16,
		Frequency: 48000,
		Channels:  2,
		Data:      Buffer{0x00, 0x00, 0x00, 0x80, 0xFF, 0x7F, 0xFF, 0xFF},
	}

	path := filepath.Join(t.TempDir(), "out.wav")
	if err := a.ExportAsWave(path); err != nil {
		t.Fatalf("ExportAsWave: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(raw) != 52 {
		t.Fatalf("expected 52-byte file, got %d", len(raw))
	}
	if string(raw[0:4]) != "RIFF" {
		t.Fatalf("missing RIFF tag: %q", raw[0:4])
	}
	if v := binary.LittleEndian.Uint32(raw[4:8]); v != 44 {
		t.Fatalf("file size field: expected 44, got %d", v)
	}
	if string(raw[8:12]) != "WAVE" || string(raw[12:16]) != "fmt " {
		t.Fatalf("bad WAVE/fmt tags")
	}
	if v := binary.LittleEndian.Uint32(raw[16:20]); v != 16 {
		t.Fatalf("fmt size: expected 16, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(raw[20:22]); v != 1 {
		t.Fatalf("format id: expected 1 (PCM), got %d", v)
	}
	if v := binary.LittleEndian.Uint16(raw[22:24]); v != 2 {
		t.Fatalf("channels: expected 2, got %d", v)
	}
	if v := binary.LittleEndian.Uint32(raw[24:28]); v != 48000 {
		t.Fatalf("frequency: expected 48000, got %d", v)
	}
	if v := binary.LittleEndian.Uint16(raw[34:36]); v != 16 {
		t.Fatalf("bits per sample: expected 16, got %d", v)
	}
	if string(raw[36:40]) != "data" {
		t.Fatalf("missing data tag")
	}
	if v := binary.LittleEndian.Uint32(raw[40:44]); v != 8 {
		t.Fatalf("data size: expected 8, got %d", v)
	}
	if !bytes.Equal(raw[44:], a.Data) {
		t.Fatalf("payload mismatch: %v", raw[44:])
	}
}

func TestExportAsWaveRejectsFloatAndRaw(t *testing.T) {
	for _, f := range []Format{FormatF32, FormatRawFile, FormatUnknown} {
		a := &AudioData{Format: f, Frequency: 8000, Channels: 1}
		if err := a.ExportAsWave(filepath.Join(t.TempDir(), "x.wav")); err == nil {
			t.Fatalf("expected error for %s", f)
		}
	}
}
