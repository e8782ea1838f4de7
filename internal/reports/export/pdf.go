// Package export renders report payloads into downloadable documents.
package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/merenda-app/merenda/internal/reports"
)

// HTMLRenderer converts HTML into PDF bytes. Satisfied by the Gotenberg
// client.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFExporter builds report documents through an HTMLRenderer.
type PDFExporter struct {
	Renderer HTMLRenderer
}

// RenderMonthly produces the monthly cost report PDF.
func (p *PDFExporter) RenderMonthly(ctx context.Context, report reports.MonthlyReport) ([]byte, error) {
	if p == nil || p.Renderer == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	return p.Renderer.RenderHTML(ctx, buildMonthlyHTML(report))
}

// RenderAnnual produces the annual cost report PDF.
func (p *PDFExporter) RenderAnnual(ctx context.Context, report reports.AnnualReport) ([]byte, error) {
	if p == nil || p.Renderer == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	return p.Renderer.RenderHTML(ctx, buildAnnualHTML(report))
}

const pageStyle = "body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;}section{margin-bottom:24px;} .label{text-align:left;}"

func buildMonthlyHTML(report reports.MonthlyReport) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString(pageStyle)
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>Relatório mensal de custos – %02d/%04d</h1>", report.Stats.Month, report.Stats.Year))

	b.WriteString("<section><h2>Resumo</h2><table><tbody>")
	writeMoneyRow(&b, "Custo total", report.Stats.TotalCost)
	writeMoneyRow(&b, "Custo médio por dia", report.Stats.AverageCost)
	writeCountRow(&b, "Dias planejados", report.Stats.DaysPlanned)
	writeCountRow(&b, "Dias úteis no mês", report.Stats.Weekdays)
	b.WriteString("</tbody></table></section>")

	if len(report.Categories) > 0 {
		b.WriteString("<section><h2>Custos por categoria</h2><table><thead><tr><th>Categoria</th><th>Total</th></tr></thead><tbody>")
		for _, slice := range report.Categories {
			b.WriteString("<tr><td class=\"label\">")
			b.WriteString(htmlEscape(slice.Name))
			b.WriteString("</td><td>")
			b.WriteString(formatMoney(slice.Total))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table></section>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func buildAnnualHTML(report reports.AnnualReport) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString(pageStyle)
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>Relatório anual de custos – %04d</h1>", report.Year))

	b.WriteString("<section><h2>Resumo</h2><table><tbody>")
	writeMoneyRow(&b, "Custo total", report.TotalCost)
	writeMoneyRow(&b, "Custo médio por dia", report.AverageCost)
	writeCountRow(&b, "Dias planejados", report.DaysPlanned)
	if report.MostExpensive != nil {
		writeMoneyRow(&b, fmt.Sprintf("Mês mais caro (%s)", monthName(report.MostExpensive.Month)), report.MostExpensive.AverageCost)
	}
	if report.Cheapest != nil {
		writeMoneyRow(&b, fmt.Sprintf("Mês mais barato (%s)", monthName(report.Cheapest.Month)), report.Cheapest.AverageCost)
	}
	b.WriteString("</tbody></table></section>")

	b.WriteString("<section><h2>Meses</h2><table><thead><tr><th>Mês</th><th>Total</th><th>Dias</th><th>Média</th></tr></thead><tbody>")
	for _, stats := range report.Months {
		b.WriteString("<tr><td class=\"label\">")
		b.WriteString(monthName(stats.Month))
		b.WriteString("</td><td>")
		b.WriteString(formatMoney(stats.TotalCost))
		b.WriteString("</td><td>")
		b.WriteString(strconv.Itoa(stats.DaysPlanned))
		b.WriteString("</td><td>")
		b.WriteString(formatMoney(stats.AverageCost))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></section>")

	b.WriteString("</body></html>")
	return b.String()
}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return time.Month(m).String()
	}
	return monthNames[m-1]
}

func writeMoneyRow(b *strings.Builder, label string, value float64) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(htmlEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(formatMoney(value))
	b.WriteString("</td></tr>")
}

func writeCountRow(b *strings.Builder, label string, value int) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(htmlEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(strconv.Itoa(value))
	b.WriteString("</td></tr>")
}

func formatMoney(v float64) string {
	return "R$ " + strings.ReplaceAll(strconv.FormatFloat(v, 'f', 2, 64), ".", ",")
}

func htmlEscape(v string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(v)
}
