package cli

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func TestSniffFormat(t *testing.T) {
	cases := []struct {
		blob []byte
		want string
	}{
		{[]byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{[]byte("\x89PNG\r\n\x1a\nrest"), "png"},
		{[]byte("GIF89a..."), "gif"},
		{[]byte("GIF87a..."), "gif"},
		{[]byte("BMxxxx"), "bmp"},
		{[]byte("plain text"), ""},
		{nil, ""},
	}
	for _, c := range cases {
		if got := sniffFormat(c.blob); got != c.want {
			t.Fatalf("sniffFormat(%q) = %q, want %q", c.blob, got, c.want)
		}
	}
}

func TestLoadImageSampleSpec(t *testing.T) {
	img, format, err := LoadImage("sample:gradient:32x16")
	if err != nil {
		t.Fatalf("sample spec: %v", err)
	}
	if format != "png" {
		t.Fatalf("sample format = %q", format)
	}
	b := img.Bounds()
	if b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("sample bounds %v", b)
	}
	if _, _, err := LoadImage("sample:plasma"); err == nil {
		t.Fatalf("unknown sample kind accepted")
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, _, err := LoadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestSaveLoadRoundTripPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := solidNRGBA(6, 4, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	if err := SaveImage(path, src); err != nil {
		t.Fatalf("save: %v", err)
	}
	img, format, err := LoadImage(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q", format)
	}
	got := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA)
	if got.R != 10 || got.G != 200 || got.B != 30 {
		t.Fatalf("pixel = %v", got)
	}
}

func TestSaveLoadRoundTripBMP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bmp")
	src := solidNRGBA(5, 5, color.NRGBA{R: 128, G: 0, B: 255, A: 255})
	if err := SaveImage(path, src); err != nil {
		t.Fatalf("save: %v", err)
	}
	img, format, err := LoadImage(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if format != "bmp" {
		t.Fatalf("format = %q", format)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 5 {
		t.Fatalf("bounds %v", img.Bounds())
	}
}

func TestSaveImageNil(t *testing.T) {
	if err := SaveImage(filepath.Join(t.TempDir(), "x.png"), nil); err == nil {
		t.Fatalf("nil image accepted")
	}
}

// exifApp1 builds a little-endian APP1 Exif segment whose IFD0 holds only an
// orientation tag.
func exifApp1(orientation uint16) []byte {
	payload := &bytes.Buffer{}
	payload.Write([]byte("Exif\x00\x00"))
	payload.Write([]byte{'I', 'I'})
	_ = binary.Write(payload, binary.LittleEndian, uint16(0x2A))
	_ = binary.Write(payload, binary.LittleEndian, uint32(8)) // IFD0 offset
	_ = binary.Write(payload, binary.LittleEndian, uint16(1)) // entry count
	_ = binary.Write(payload, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(payload, binary.LittleEndian, uint16(3)) // SHORT
	_ = binary.Write(payload, binary.LittleEndian, uint32(1))
	_ = binary.Write(payload, binary.LittleEndian, orientation)
	_ = binary.Write(payload, binary.LittleEndian, uint16(0))
	_ = binary.Write(payload, binary.LittleEndian, uint32(0)) // no next IFD

	seg := &bytes.Buffer{}
	seg.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(seg, binary.BigEndian, uint16(payload.Len()+2))
	seg.Write(payload.Bytes())
	return seg.Bytes()
}

// jpegWithOrientation encodes a 2x1 image and splices the Exif APP1 segment
// in right after SOI.
func jpegWithOrientation(t *testing.T, orientation uint16) []byte {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	raw := buf.Bytes()
	out := append([]byte{}, raw[:2]...)
	out = append(out, exifApp1(orientation)...)
	out = append(out, raw[2:]...)
	return out
}

func TestExifOrientation(t *testing.T) {
	for _, want := range []int{1, 3, 6, 8} {
		blob := jpegWithOrientation(t, uint16(want))
		got, err := exifOrientation(blob)
		if err != nil {
			t.Fatalf("orientation %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("orientation = %d, want %d", got, want)
		}
	}
	// a plain encode carries no exif at all
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2)), nil)
	if _, err := exifOrientation(buf.Bytes()); err == nil {
		t.Fatalf("expected error without exif segment")
	}
}

func TestLoadImageAppliesOrientation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rot.jpg")
	if err := os.WriteFile(path, jpegWithOrientation(t, 6), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	img, format, err := LoadImage(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("format = %q", format)
	}
	b := img.Bounds()
	// the 2x1 fixture comes back upright as 1x2
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("bounds after auto-orient = %v", b)
	}
}
