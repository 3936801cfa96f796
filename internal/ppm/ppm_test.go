package ppm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeHeaderAndPayload(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	}

	var buf bytes.Buffer
	if err := Encode(&buf, 2, 2, pixels); err != nil {
		t.Fatal(err)
	}

	want := append([]byte("P6\n2 2\n255\n"), pixels...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("encoded bytes mismatch:\ngot  %q\nwant %q", buf.Bytes(), want)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, 0, 2, nil); err == nil {
		t.Error("expected error for zero width")
	}
	if err := Encode(&buf, 2, 2, make([]byte, 5)); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppm")
	pixels := make([]byte, 3*4*3)

	if err := WriteFile(path, 4, 3, pixels); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("P6\n4 3\n255\n")) {
		t.Errorf("unexpected header: %q", data[:12])
	}
	if len(data) != len("P6\n4 3\n255\n")+len(pixels) {
		t.Errorf("unexpected file size %d", len(data))
	}
}
