// Package ppm writes binary (P6) portable pixmaps.
package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Encode writes a P6 image: ASCII header "P6\n<w> <h>\n255\n" followed by
// 3*w*h raw RGB bytes.
func Encode(w io.Writer, width, height int, pixels []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ppm: invalid dimensions %dx%d", width, height)
	}
	if len(pixels) != 3*width*height {
		return fmt.Errorf("ppm: pixel buffer is %d bytes, want %d", len(pixels), 3*width*height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	if _, err := bw.Write(pixels); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile encodes the image to path, truncating any existing file.
func WriteFile(path string, width, height int, pixels []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, width, height, pixels); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
