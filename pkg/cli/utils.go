package cli

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineOrFzf reads a full line from stdin and treats a single-line "/"
// as a request to invoke fzf for file selection. Behavior:
//   - Print the prompt.
//   - Read a full line (including spaces).
//   - If the trimmed line equals "/", launch fzf via SelectFileWithFzf(".").
//   - If fzf returns a non-empty selection, return it.
//   - If fzf is unavailable or selection is cancelled, fall back to a typed prompt
//     (re-using PromptLine to read a full line).
//   - Otherwise return the trimmed line as the input value.
//
// This approach preserves support for paths containing spaces because we read
// the entire input line instead of a single token.
func PromptLineOrFzf(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	input := strings.TrimSpace(line)

	if input == "/" {
		// User requested fzf selection.
		sel, selErr := SelectFileWithFzf(".")
		if selErr == nil && sel != "" {
			// Show concise indicator and return the selection.
			fmt.Printf(" [fzf] %s\n", sel)
			return sel, nil
		}
		// fzf not available or selection cancelled — fall back to typed prompt.
		return PromptLine(prompt)
	}

	return input, nil
}

// LoadImage loads a file from disk into an image.Image. The container format
// is sniffed from the file's magic bytes (PNG/JPEG/GIF/BMP); JPEG files with
// an EXIF orientation tag are rotated upright before the image is returned so
// downstream transforms never see a sideways buffer. The spec form
// "sample:<kind>[:<W>x<H>]" generates a procedural test image instead of
// touching the disk.
func LoadImage(path string) (image.Image, string, error) {
	if kind, w, h, ok := raster.ParseSampleSpec(path); ok {
		img, err := raster.NewSample(kind, w, h, 0)
		if err != nil {
			return nil, "", err
		}
		return img, "png", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	format := sniffFormat(b)
	var img image.Image
	if format == "bmp" {
		// image.Decode only knows bmp when the codec is registered; decode
		// explicitly instead of relying on an import side effect elsewhere.
		img, err = bmp.Decode(bytes.NewReader(b))
	} else {
		img, format, err = sniffDecode(b, format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	if format == "jpeg" {
		if o, oerr := exifOrientation(b); oerr == nil && o > 1 {
			img = raster.AutoOrient(img, o)
		}
	}
	return img, format, nil
}

func sniffDecode(b []byte, sniffed string) (image.Image, string, error) {
	img, decoded, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", err
	}
	if sniffed == "" {
		sniffed = decoded
	}
	return img, sniffed, nil
}

// sniffFormat identifies the container by magic bytes; empty means unknown.
func sniffFormat(b []byte) string {
	switch {
	case len(b) >= 3 && bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))):
		return "gif"
	case len(b) >= 2 && b[0] == 'B' && b[1] == 'M':
		return "bmp"
	}
	return ""
}

// exifOrientation returns the EXIF orientation (1..8) from JPEG bytes. Only
// the zeroth IFD is scanned; orientation never lives anywhere else.
func exifOrientation(data []byte) (int, error) {
	tiffStart, err := tiffStartFromJPEG(data)
	if err != nil {
		return 0, err
	}
	if tiffStart+8 > len(data) {
		return 0, fmt.Errorf("tiff header truncated")
	}
	var order binary.ByteOrder
	switch {
	case data[tiffStart] == 'M' && data[tiffStart+1] == 'M':
		order = binary.BigEndian
	case data[tiffStart] == 'I' && data[tiffStart+1] == 'I':
		order = binary.LittleEndian
	default:
		return 0, fmt.Errorf("unknown tiff byte order")
	}
	if order.Uint16(data[tiffStart+2:tiffStart+4]) != 0x002A {
		return 0, fmt.Errorf("invalid tiff magic")
	}
	ifd := tiffStart + int(order.Uint32(data[tiffStart+4:tiffStart+8]))
	if ifd+2 > len(data) {
		return 0, fmt.Errorf("ifd truncated")
	}
	n := int(order.Uint16(data[ifd : ifd+2]))
	for e := 0; e < n; e++ {
		ent := ifd + 2 + e*12
		if ent+12 > len(data) {
			break
		}
		tag := order.Uint16(data[ent : ent+2])
		typ := order.Uint16(data[ent+2 : ent+4])
		if tag == 0x0112 && typ == 3 { // orientation, SHORT
			return int(order.Uint16(data[ent+8 : ent+10])), nil
		}
	}
	return 0, fmt.Errorf("orientation tag not found")
}

// tiffStartFromJPEG scans JPEG segments for an APP1 Exif block and returns the
// offset where the TIFF header begins.
func tiffStartFromJPEG(data []byte) (int, error) {
	if len(data) < 4 {
		return -1, fmt.Errorf("data too short")
	}
	i := 2 // skip initial 0xFF 0xD8
	for i+4 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA { // start of scan
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE1 && segLen >= 8 {
			if i+10 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
				return i + 10, nil
			}
		}
		if segLen <= 2 {
			i += 2
		} else {
			i += 2 + segLen
		}
	}
	return -1, fmt.Errorf("no exif segment")
}

// SaveImage saves an image.Image to disk using format inferred from the filename extension.
// Supports .png, .jpg/.jpeg, .gif, .bmp; anything else is written as PNG.
func SaveImage(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		return png.Encode(f, img)
	}
}
