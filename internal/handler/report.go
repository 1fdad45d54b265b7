package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
	"github.com/finbooks-io/ledger-api/internal/service"
)

type reportService interface {
	TrialBalance(ctx context.Context, asOf time.Time) (*service.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*service.BalanceSheetReport, error)
	IncomeStatement(ctx context.Context, from, to time.Time) (*service.IncomeStatementReport, error)
	CashFlow(ctx context.Context, from, to time.Time) (*service.CashFlowReport, error)
}

type agingService interface {
	Report(ctx context.Context, kind domain.InvoiceKind, asOf time.Time) (*service.AgingReport, error)
}

type ReportHandler struct {
	reports reportService
	aging   agingService
}

func NewReportHandler(reports reportService, aging agingService) *ReportHandler {
	return &ReportHandler{reports: reports, aging: aging}
}

func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, appErr := asOfDate(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	report, err := h.reports.TrialBalance(r.Context(), asOf)
	if err != nil {
		logging.FromContext(r.Context()).Error("trial balance failed", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, report)
}

func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, appErr := asOfDate(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	report, err := h.reports.BalanceSheet(r.Context(), asOf)
	if err != nil {
		logging.FromContext(r.Context()).Error("balance sheet failed", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, report)
}

func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	from, to, appErr := dateRange(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	report, err := h.reports.IncomeStatement(r.Context(), from, to)
	if err != nil {
		logging.FromContext(r.Context()).Error("income statement failed", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, report)
}

func (h *ReportHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	from, to, appErr := dateRange(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	report, err := h.reports.CashFlow(r.Context(), from, to)
	if err != nil {
		logging.FromContext(r.Context()).Error("cash flow failed", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, report)
}

func (h *ReportHandler) Aging(w http.ResponseWriter, r *http.Request) {
	asOf, appErr := asOfDate(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	kind := domain.InvoiceKind(r.URL.Query().Get("type"))
	if kind == "" {
		kind = domain.InvoiceKindReceivable
	}

	report, err := h.aging.Report(r.Context(), kind, asOf)
	if err != nil {
		logging.FromContext(r.Context()).Error("aging report failed", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, report)
}
