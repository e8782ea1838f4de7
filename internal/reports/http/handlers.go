// Package reporthttp serves report queries and document exports.
package reporthttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/merenda-app/merenda/internal/platform/httpx"
	"github.com/merenda-app/merenda/internal/rbac"
	"github.com/merenda-app/merenda/internal/reports"
	"github.com/merenda-app/merenda/internal/reports/export"
)

const requestTimeout = 5 * time.Second

// ReportService is the data contract used by the handler.
type ReportService interface {
	Monthly(ctx context.Context, year int, month time.Month, menuTypeID *int64) (reports.MonthlyReport, error)
	Compare(ctx context.Context, from, to time.Time) ([]reports.TypeComparison, error)
	Annual(ctx context.Context, year int, menuTypeID *int64) (reports.AnnualReport, error)
}

// PDFService renders report payloads to PDF bytes.
type PDFService interface {
	RenderMonthly(ctx context.Context, report reports.MonthlyReport) ([]byte, error)
	RenderAnnual(ctx context.Context, report reports.AnnualReport) ([]byte, error)
}

// Handler coordinates HTTP requests for cost reports.
type Handler struct {
	logger  *slog.Logger
	service ReportService
	pdf     PDFService
	guard   rbac.Middleware
	now     func() time.Time
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService, pdf PDFService, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		pdf:     pdf,
		guard:   guard,
		now:     time.Now,
	}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type monthlyFilter struct {
	Year   int
	Month  time.Month
	TypeID *int64
}

func (h *Handler) parseMonthly(r *http.Request) (monthlyFilter, error) {
	now := h.now()
	filter := monthlyFilter{Year: now.Year(), Month: now.Month()}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 2000 || year > 2100 {
			return filter, fmt.Errorf("invalid year %q", raw)
		}
		filter.Year = year
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return filter, fmt.Errorf("invalid month %q", raw)
		}
		filter.Month = time.Month(month)
	}
	if raw := r.URL.Query().Get("type_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid type_id %q", raw)
		}
		filter.TypeID = &id
	}
	return filter, nil
}

func (h *Handler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseMonthly(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Monthly(ctx, filter.Year, filter.Month, filter.TypeID)
	if err != nil {
		h.serverError(w, "monthly report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01", r.URL.Query().Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from must be YYYY-MM")
		return
	}
	to, err := time.Parse("2006-01", r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must be YYYY-MM")
		return
	}
	if to.Before(from) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must not precede from")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	// The range is month-inclusive on both ends.
	result, err := h.service.Compare(ctx, from, to.AddDate(0, 1, 0))
	if err != nil {
		h.serverError(w, "type comparison", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"from":  from.Format("2006-01"),
		"to":    to.Format("2006-01"),
		"types": result,
	})
}

func (h *Handler) parseAnnual(r *http.Request) (int, *int64, error) {
	year := h.now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			return 0, nil, fmt.Errorf("invalid year %q", raw)
		}
		year = parsed
	}
	var typeID *int64
	if raw := r.URL.Query().Get("type_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, nil, fmt.Errorf("invalid type_id %q", raw)
		}
		typeID = &id
	}
	return year, typeID, nil
}

func (h *Handler) handleAnnual(w http.ResponseWriter, r *http.Request) {
	year, typeID, err := h.parseAnnual(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Annual(ctx, year, typeID)
	if err != nil {
		h.serverError(w, "annual report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleMonthlyPDF(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseMonthly(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	report, err := h.service.Monthly(ctx, filter.Year, filter.Month, filter.TypeID)
	if err != nil {
		h.serverError(w, "monthly report", err)
		return
	}
	payload, err := h.pdf.RenderMonthly(ctx, report)
	if err != nil {
		h.serverError(w, "render monthly pdf", err)
		return
	}
	httpx.PDF(w, fmt.Sprintf("custos-%04d-%02d.pdf", filter.Year, int(filter.Month)), payload)
}

func (h *Handler) handleAnnualPDF(w http.ResponseWriter, r *http.Request) {
	year, typeID, err := h.parseAnnual(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	report, err := h.service.Annual(ctx, year, typeID)
	if err != nil {
		h.serverError(w, "annual report", err)
		return
	}
	payload, err := h.pdf.RenderAnnual(ctx, report)
	if err != nil {
		h.serverError(w, "render annual pdf", err)
		return
	}
	httpx.PDF(w, fmt.Sprintf("custos-%04d.pdf", year), payload)
}

func (h *Handler) handleMonthlyCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseMonthly(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Monthly(ctx, filter.Year, filter.Month, filter.TypeID)
	if err != nil {
		h.serverError(w, "monthly report", err)
		return
	}
	payload, err := export.MonthlyCSV(report)
	if err != nil {
		h.serverError(w, "render monthly csv", err)
		return
	}
	writeCSV(w, fmt.Sprintf("custos-%04d-%02d.csv", filter.Year, int(filter.Month)), payload)
}

func (h *Handler) handleAnnualCSV(w http.ResponseWriter, r *http.Request) {
	year, typeID, err := h.parseAnnual(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Annual(ctx, year, typeID)
	if err != nil {
		h.serverError(w, "annual report", err)
		return
	}
	payload, err := export.AnnualCSV(report)
	if err != nil {
		h.serverError(w, "render annual csv", err)
		return
	}
	writeCSV(w, fmt.Sprintf("custos-%04d.csv", year), payload)
}

func writeCSV(w http.ResponseWriter, filename string, payload []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
