package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/nickjwhite/gofpdf"

	"github.com/Fepozopo/pixlab/pkg/raster"
)

// WriteReport renders a one-page PDF summary of the session: the image as
// loaded next to the current result, the luminance histogram chart of the
// result, and the list of operations applied with their parameters.
func WriteReport(path string, s *raster.Session) error {
	if s == nil || !s.Loaded() {
		return fmt.Errorf("no image loaded")
	}

	const margin = 36.0
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	usable := pageW - 2*margin

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 20, "pixlab report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 14, s.Path, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 14, time.Now().Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Loaded and current buffers side by side, scaled to half-width boxes.
	const gap = 12.0
	boxW := (usable - gap) / 2
	const boxH = 240.0
	top := pdf.GetY()
	if err := placeImage(pdf, "orig", s.Orig, margin, top, boxW, boxH); err != nil {
		return err
	}
	if err := placeImage(pdf, "dst", s.Dst, margin+boxW+gap, top, boxW, boxH); err != nil {
		return err
	}
	pdf.SetY(top + boxH + 4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(boxW, 12, "loaded", "", 0, "C", false, 0, "")
	pdf.CellFormat(gap, 12, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(boxW, 12, "current", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Histogram chart of the current buffer, full width.
	chartPNG, err := raster.HistogramChartPNG(s.Dst, "luma")
	if err != nil {
		return fmt.Errorf("render histogram chart: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("hist", opts, bytes.NewReader(chartPNG))
	if pdf.Err() {
		return fmt.Errorf("embed histogram chart: %w", pdf.Error())
	}
	chartH := usable * info.Height() / info.Width()
	pdf.ImageOptions("hist", margin, pdf.GetY(), usable, chartH, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + chartH + 12)

	// Operation log.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 14, "Applied operations", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(s.History) == 0 {
		pdf.CellFormat(0, 13, "(none)", "", 1, "L", false, 0, "")
	}
	for i, op := range s.History {
		pdf.CellFormat(0, 13, fmt.Sprintf("%d. %s", i+1, op.String()), "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	b := s.Dst.Bounds()
	pdf.CellFormat(0, 12, fmt.Sprintf("%dx%d RGBA8, engine %s", b.Dx(), b.Dy(), s.Proc.Name()), "", 1, "L", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

// placeImage embeds img into the PDF scaled to fit a box at (x, y),
// preserving aspect ratio and centering inside the box.
func placeImage(pdf *gofpdf.Fpdf, name string, img *image.NRGBA, x, y, boxW, boxH float64) error {
	if img == nil {
		return fmt.Errorf("no %s image", name)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s thumbnail: %w", name, err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	if pdf.Err() {
		return fmt.Errorf("embed %s thumbnail: %w", name, pdf.Error())
	}
	b := img.Bounds()
	scale := boxW / float64(b.Dx())
	if s := boxH / float64(b.Dy()); s < scale {
		scale = s
	}
	w := float64(b.Dx()) * scale
	h := float64(b.Dy()) * scale
	pdf.ImageOptions(name, x+(boxW-w)/2, y+(boxH-h)/2, w, h, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("place %s thumbnail: %w", name, pdf.Error())
	}
	return nil
}
