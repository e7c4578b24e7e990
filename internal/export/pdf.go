package export

import (
	"bytes"
	"fmt"
	"strconv"

	"stockpulse/internal/analytics"

	"github.com/go-pdf/fpdf"
)

const (
	reportMargin   = 15.0
	maxRiskRows    = 40
	maxProductName = 38
)

// RenderReport draws the executive report of a dashboard: KPIs, insights with their
// recommendations and the at-risk products.
func RenderReport(dashboard *analytics.Dashboard) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(reportMargin, reportMargin, reportMargin)
	pdf.SetTitle("Rapport stock et ventes", true)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps accents and the euro sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*reportMargin

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Rapport stock et ventes"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Généré le %s UTC, fenêtre de %d jours",
		dashboard.GeneratedAt.UTC().Format("02/01/2006 15:04"), dashboard.Options.WindowDays)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// KPIs
	s := dashboard.Summary
	sectionTitle(pdf, tr, contentW, "Indicateurs clés")
	kpis := [][2]string{
		{"Chiffre d'affaires", analytics.FormatCurrency(s.TotalRevenue)},
		{"Commandes", strconv.Itoa(s.OrdersCount)},
		{"Panier moyen", analytics.FormatCurrency(s.AverageBasket)},
		{"Valeur du stock", analytics.FormatCurrency(s.InventoryValue)},
		{"Produits (sain / risque / surstock)", fmt.Sprintf("%d (%d / %d / %d)", s.ProductsCount, s.HealthyCount, s.RiskCount, s.OverstockCount)},
	}
	if s.TrendPercent != nil {
		kpis = append(kpis, [2]string{"Tendance des ventes", fmt.Sprintf("%+.1f%%", *s.TrendPercent)})
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, kpi := range kpis {
		pdf.CellFormat(contentW*0.6, 6, tr(kpi[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 6, tr(kpi[1]), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Insights
	sectionTitle(pdf, tr, contentW, "Alertes et recommandations")
	if len(dashboard.Insights) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(contentW, 6, tr("Aucune alerte."), "", 1, "L", false, 0, "")
	}
	for _, insight := range dashboard.Insights {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(contentW, 5, tr(fmt.Sprintf("[%s] %s", insight.Category, insight.Message)), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		if insight.Details != "" {
			pdf.MultiCell(contentW, 5, tr(insight.Details), "", "L", false)
		}
		if insight.Recommendation != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(contentW, 5, tr("> "+insight.Recommendation), "", "L", false)
		}
		pdf.Ln(2)
	}
	pdf.Ln(2)

	// At-risk products
	var risk []analytics.StockMetric
	for _, m := range dashboard.Stock {
		if m.Status == analytics.StatusRisk {
			risk = append(risk, m)
		}
	}
	if len(risk) > 0 {
		sectionTitle(pdf, tr, contentW, "Produits en risque de rupture")
		col := []float64{contentW * 0.46, contentW * 0.14, contentW * 0.2, contentW * 0.2}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col[0], 6, tr("Produit"), "B", 0, "L", false, 0, "")
		pdf.CellFormat(col[1], 6, tr("Stock"), "B", 0, "R", false, 0, "")
		pdf.CellFormat(col[2], 6, tr("Ventes / sem."), "B", 0, "R", false, 0, "")
		pdf.CellFormat(col[3], 6, tr("Jours de couverture"), "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for i, m := range risk {
			if i == maxRiskRows {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("... et %d autre(s)", len(risk)-maxRiskRows)), "", 1, "L", false, 0, "")
				break
			}
			pdf.CellFormat(col[0], 5, tr(truncate(m.ProductName, maxProductName)), "", 0, "L", false, 0, "")
			pdf.CellFormat(col[1], 5, strconv.Itoa(m.CurrentStock), "", 0, "R", false, 0, "")
			pdf.CellFormat(col[2], 5, strconv.FormatFloat(m.SalesVelocity, 'f', 2, 64), "", 0, "R", false, 0, "")
			pdf.CellFormat(col[3], 5, strconv.Itoa(m.DaysCover), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, tr func(string) string, width float64, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(width, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
