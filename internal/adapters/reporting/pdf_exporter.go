package reporting

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/lcalzada-xor/wguard/internal/core/domain"
)

// PDFExporter exports scan reports to PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ExportScanReport renders the latest tagged scan and its change events.
func (e *PDFExporter) ExportScanReport(report *domain.ScanReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("failed to generate PDF: nil report")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	e.addHeader(pdf, tr, report)
	e.addOverview(pdf, report)
	e.addThreatBreakdown(pdf, report)
	e.addFlaggedNetworks(pdf, tr, report)
	e.addChanges(pdf, tr, report)
	e.addFooter(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (e *PDFExporter) emptyNote(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

// addHeader adds the report header
func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, tr func(string) string, report *domain.ScanReport) {
	title := report.Metadata.Title
	if title == "" {
		title = "Wi-Fi Security Scan Report"
	}
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 15, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.Metadata.GeneratedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	if !report.Latest.Timestamp.IsZero() {
		pdf.CellFormat(0, 6, fmt.Sprintf("Latest scan: %s", report.Latest.Timestamp.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	}
	if p := report.Metadata.ScanPeriod; !p.Start.IsZero() {
		pdf.CellFormat(0, 6, fmt.Sprintf("History: %s to %s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

// addOverview adds the statistics grid
func (e *PDFExporter) addOverview(pdf *gofpdf.Fpdf, report *domain.ScanReport) {
	e.sectionTitle(pdf, "Overview")

	sev := report.SeverityCounts()
	stats := []struct {
		label string
		value string
		color []int
	}{
		{"Networks in scan", fmt.Sprintf("%d", len(report.Latest.Networks)), []int{0, 102, 204}},
		{"Flagged networks", fmt.Sprintf("%d", report.Latest.FlaggedCount()), []int{220, 53, 69}},
		{"Open networks", fmt.Sprintf("%d", report.OpenCount()), []int{255, 149, 0}},
		{"Records analyzed", fmt.Sprintf("%d", report.Changes.RecordsAnalyzed), []int{0, 102, 204}},
		{"High severity changes", fmt.Sprintf("%d", sev[domain.ChangeSeverityHigh]), []int{220, 53, 69}},
		{"Medium severity changes", fmt.Sprintf("%d", sev[domain.ChangeSeverityMedium]), []int{255, 149, 0}},
		{"Low severity changes", fmt.Sprintf("%d", sev[domain.ChangeSeverityLow]), []int{52, 199, 89}},
		{"Pinned networks", fmt.Sprintf("%d", len(report.Pinned)), []int{150, 150, 150}},
	}

	// Display in 2 columns
	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}
		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-55, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}
	pdf.Ln(10)
}

// addThreatBreakdown lists tag counts for the latest scan
func (e *PDFExporter) addThreatBreakdown(pdf *gofpdf.Fpdf, report *domain.ScanReport) {
	e.sectionTitle(pdf, "Threat Breakdown")

	breakdown := report.ThreatBreakdown()
	if len(breakdown) == 0 {
		e.emptyNote(pdf, "No threats tagged in the latest scan")
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(70, 8, "Threat", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Networks", "1", 0, "C", true, 0, "")
	pdf.CellFormat(80, 8, "Meaning", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, s := range breakdown {
		pdf.CellFormat(70, 7, s.Threat.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", s.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(80, 7, truncate(s.Threat.Description(), 48), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

// addFlaggedNetworks lists every flagged network with its tags
func (e *PDFExporter) addFlaggedNetworks(pdf *gofpdf.Fpdf, tr func(string) string, report *domain.ScanReport) {
	e.sectionTitle(pdf, "Flagged Networks")

	var flagged []domain.NetworkObservation
	for _, n := range report.Latest.Networks {
		if n.IsFlagged() {
			flagged = append(flagged, n)
		}
	}
	if len(flagged) == 0 {
		e.emptyNote(pdf, "No flagged networks")
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(38, 8, "SSID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(34, 8, "BSSID", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 8, "Vendor", "1", 0, "L", true, 0, "")
	pdf.CellFormat(14, 8, "RSSI", "1", 0, "C", true, 0, "")
	pdf.CellFormat(56, 8, "Threats", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 8)
	for _, n := range flagged {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
		ssid := n.SSID
		if !n.HasSSID() {
			ssid = "<hidden>"
		}
		bssid := n.Key()
		if _, ok := report.Pinned[bssid]; ok {
			bssid += " *"
		}

		r, g, b := e.getThreatCountColor(n.Threats.Len())
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(38, 7, tr(truncate(ssid, 22)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(34, 7, bssid, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 7, tr(truncate(report.Vendors[n.Key()], 16)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(14, 7, fmt.Sprintf("%d", n.RSSI), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(56, 7, truncate(strings.Join(n.Threats.Names(), ", "), 40), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

// addChanges lists scored change events
func (e *PDFExporter) addChanges(pdf *gofpdf.Fpdf, tr func(string) string, report *domain.ScanReport) {
	e.sectionTitle(pdf, "Changes Across Scans")

	if len(report.Changes.Changes) == 0 {
		e.emptyNote(pdf, "No significant changes detected")
		return
	}

	for _, c := range report.Changes.Changes {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}

		r, g, b := e.getSeverityColor(c.Severity)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(22, 6, fmt.Sprintf("%s %d", strings.ToUpper(string(c.Severity)), c.Score), "", 0, "C", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(0, 51, 102)
		pdf.CellFormat(0, 6, "  "+c.Type.String()+"  "+c.BSSID, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(60, 60, 60)
		pdf.MultiCell(0, 5, tr(c.Description), "", "L", false)
		if c.PreviousValue != "" || c.CurrentValue != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s -> %s", c.PreviousValue, c.CurrentValue)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
}

// getSeverityColor returns RGB color based on change severity
func (e *PDFExporter) getSeverityColor(severity domain.ChangeSeverity) (r, g, b int) {
	switch severity {
	case domain.ChangeSeverityHigh:
		return 220, 53, 69 // Red
	case domain.ChangeSeverityMedium:
		return 255, 149, 0 // Orange
	default:
		return 52, 199, 89 // Green
	}
}

// getThreatCountColor returns RGB color based on how many tags a network carries
func (e *PDFExporter) getThreatCountColor(count int) (r, g, b int) {
	switch {
	case count >= 3:
		return 220, 53, 69
	case count == 2:
		return 255, 149, 0
	default:
		return 60, 60, 60
	}
}

// addFooter adds the report footer
func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report *domain.ScanReport) {
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	id := report.Metadata.ID
	if len(id) > 8 {
		id = id[:8]
	}
	by := report.Metadata.GeneratedBy
	if by == "" {
		by = "wguard"
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by %s | Report ID: %s", by, id), "", 1, "C", false, 0, "")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
