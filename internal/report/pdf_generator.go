package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/user/adsorption_analyzer_go/internal/adsorption"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// pdfStyler holds reusable styling and flowing-content state.
type pdfStyler struct {
	pdf        *gofpdf.Fpdf
	styles     map[string]func()
	lineHeight float64
	currentY   float64
	pageHeight float64
	topY       float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:        pdf,
		styles:     make(map[string]func()),
		lineHeight: 6, // mm
		pageHeight: pdfPageHeightLandscape - (2 * pdfMargin),
		topY:       pdfMargin,
	}
	s.currentY = s.topY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["failure"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.pdf.AddPage()
		s.currentY = s.topY
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.topY
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	s.checkAddPage(s.lineHeight)
	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

func (s *pdfStyler) addTable(headers []string, widthsRel []float64, rows [][]string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}
	s.checkAddPage(s.lineHeight * float64(len(rows)+1))

	sY := s.currentY
	sX := pdfMargin
	s.applyStyle("tableHeader")
	for i, header := range headers {
		s.pdf.SetXY(sX, sY)
		s.pdf.CellFormat(widths[i], s.lineHeight, header, "1", 0, "C", true, 0, "")
		sX += widths[i]
	}
	sY += s.lineHeight
	s.currentY = sY

	s.applyStyle("tableCell")
	for _, row := range rows {
		s.checkAddPage(s.lineHeight)
		sY = s.currentY
		sX = pdfMargin
		for i, cell := range row {
			s.pdf.SetXY(sX, sY)
			s.pdf.CellFormat(widths[i], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			sX += widths[i]
		}
		sY += s.lineHeight
		s.currentY = sY
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}
	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height
	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

func formatValue(v adsorption.Value, withUncertainty bool) string {
	if withUncertainty {
		return fmt.Sprintf("%.6g +/- %.2g", v.V, v.U)
	}
	return fmt.Sprintf("%.6g", v.V)
}

// BuildPDFReport writes the full analysis report: unit labels, one result
// table per evaluated closure, a list of closures that were inapplicable and
// why, import diagnostics, and the supplied plots.
func BuildPDFReport(filepath string, mt *adsorption.Measurement, ev *adsorption.Evaluation,
	parseErrors []string, plotImages map[string][]byte) error {

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	styler := newPDFStyler(pdf)

	styler.writeParagraph(fmt.Sprintf("Batch Adsorption Analysis Report (%d Runs)", mt.Runs()), "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Units: volume [%s], concentration [%s], mass [%s], density [%s]",
		orDash(mt.VolumeUnits), orDash(mt.ConcentrationUnits), orDash(mt.MassUnits), orDash(mt.DensityUnits)),
		"normal", "L")
	styler.addSpacer(4)

	withU := mt.HasUncertainty()
	headers := []string{"Run", "CA_eq", "Q_A", "Q_S", "V_eq"}
	widths := []float64{0.1, 0.2, 0.25, 0.25, 0.2}

	for _, r := range ev.Results {
		styler.writeParagraph(fmt.Sprintf("%s - %s", r.Model, r.Model.Description()), "h2", "L")
		rows := make([][]string, mt.Runs())
		for i := 0; i < mt.Runs(); i++ {
			rows[i] = []string{
				fmt.Sprintf("%d", i+1),
				formatValue(mt.CAEq(i), withU),
				formatValue(r.QA[i], withU),
				formatValue(r.QS[i], withU),
				formatValue(r.VEq[i], withU),
			}
		}
		styler.addTable(headers, widths, rows)
		styler.addSpacer(5)
	}

	if len(ev.Failures) > 0 {
		styler.writeParagraph("Closures not applicable to this data", "h2", "L")
		for _, f := range ev.Failures {
			styler.writeParagraph(fmt.Sprintf("%s (%s): %v", f.Model, f.Model.Description(), f.Err), "failure", "L")
		}
		styler.addSpacer(5)
	}

	if len(parseErrors) > 0 {
		styler.writeParagraph("Import diagnostics", "h2", "L")
		for _, msg := range parseErrors {
			styler.writeParagraph("- "+msg, "normal", "L")
		}
	}

	if len(plotImages) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(5)

		plotDefs := []struct {
			Key     string
			Caption string
		}{
			{"loading_qa", "Solute loading by closure model"},
			{"loading_qs", "Solvent loading by closure model"},
			{"volume_veq", "Equilibrium liquid volume by closure model"},
			{"heatmap_qa", "Solute loading across closure models and runs"},
		}
		imgWidth := pdfContentWidth * 0.85
		imgHeight := imgWidth * (4.0 / 8.0)
		for _, pd := range plotDefs {
			if imgBytes, ok := plotImages[pd.Key]; ok && len(imgBytes) > 0 {
				styler.addImage(imgBytes, pd.Key, imgWidth, imgHeight, pd.Caption)
			}
		}
	}

	return pdf.OutputFileAndClose(filepath)
}

func orDash(unit string) string {
	if unit == "" {
		return "-"
	}
	return unit
}
