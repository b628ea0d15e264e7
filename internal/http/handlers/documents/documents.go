package documents

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/types/documents"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultValidDays = 30
	defaultDueDays   = 30

	quoteStatusDraft     = "Draft"
	invoiceStatusUnpaid  = "Unpaid"
	cp12ValidityInMonths = 12
)

type Store interface {
	CreateQuote(ctx context.Context, q documents.Quote) (documents.Quote, error)
	GetQuote(ctx context.Context, id string) (documents.Quote, error)
	ListRecentQuotes(ctx context.Context, userID string, limit int) ([]documents.Quote, error)
	CreateInvoice(ctx context.Context, inv documents.Invoice) (documents.Invoice, error)
	GetInvoice(ctx context.Context, id string) (documents.Invoice, error)
	ListRecentInvoices(ctx context.Context, userID string, limit int) ([]documents.Invoice, error)
	CreateCP12(ctx context.Context, rec documents.CP12Record) (documents.CP12Record, error)
	GetCP12(ctx context.Context, id string) (documents.CP12Record, error)
	ListRecentCP12(ctx context.Context, userID string, limit int) ([]documents.CP12Record, error)

	GetProfile(ctx context.Context, userID string) (documents.Profile, error)
	UpsertProfile(ctx context.Context, p documents.Profile) error
	CreateShare(ctx context.Context, s documents.Share) error
	GetShare(ctx context.Context, token string) (documents.Share, error)
}

type DocumentHandlers struct {
	store Store
	now   func() time.Time
}

func NewDocumentHandlers(store Store) *DocumentHandlers {
	return &DocumentHandlers{store: store, now: time.Now}
}

// decode reads and validates a JSON body. It writes the error response itself and
// reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
		return false
	}
	if err := validator.New().Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
			return false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
	}
	return userID, ok
}

// storageFailure logs err and answers 500 with "failed to <action>".
func storageFailure(w http.ResponseWriter, action, userID string, err error) {
	slog.Error("Failed to "+action, slog.String("user_id", userID), slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to "+action)))
}

// CreateQuote prices the items, adds VAT and stores a draft quote
// @Summary Create a quote
// @Tags documents
// @Accept json
// @Produce json
// @Param request body documents.QuoteRequest true "Quote"
// @Success 201 {object} documents.Quote "Quote created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /quotes [post]
func (h *DocumentHandlers) CreateQuote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req documents.QuoteRequest
		if !decode(w, r, &req) {
			return
		}

		days := req.ValidForDays
		if days == 0 {
			days = defaultValidDays
		}
		now := h.now().UTC()
		subtotal, vat, total := documents.Totals(req.Items)

		quote, err := h.store.CreateQuote(r.Context(), documents.Quote{
			UserID:       userID,
			QuoteNumber:  documents.NewNumber("Q", now, uuid.NewString()),
			CustomerName: req.CustomerName,
			Items:        req.Items,
			Subtotal:     subtotal,
			VAT:          vat,
			Total:        total,
			Status:       quoteStatusDraft,
			ValidUntil:   now.AddDate(0, 0, days),
		})
		if err != nil {
			storageFailure(w, "create quote", userID, err)
			return
		}

		slog.Info("Quote created", slog.String("user_id", userID), slog.String("quote_number", quote.QuoteNumber))
		response.WriteJSON(w, http.StatusCreated, quote)
	}
}

// RecentQuotes lists the caller's five newest quotes
// @Summary Recent quotes
// @Tags documents
// @Produce json
// @Success 200 {array} documents.Quote "Quotes"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /quotes [get]
func (h *DocumentHandlers) RecentQuotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		quotes, err := h.store.ListRecentQuotes(r.Context(), userID, documents.RecentLimit)
		if err != nil {
			storageFailure(w, "list quotes", userID, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, quotes)
	}
}

// CreateInvoice prices the items, adds VAT and stores an unpaid invoice
// @Summary Create an invoice
// @Tags documents
// @Accept json
// @Produce json
// @Param request body documents.InvoiceRequest true "Invoice"
// @Success 201 {object} documents.Invoice "Invoice created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /invoices [post]
func (h *DocumentHandlers) CreateInvoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req documents.InvoiceRequest
		if !decode(w, r, &req) {
			return
		}

		days := req.DueInDays
		if days == 0 {
			days = defaultDueDays
		}
		now := h.now().UTC()
		subtotal, vat, total := documents.Totals(req.Items)

		invoice, err := h.store.CreateInvoice(r.Context(), documents.Invoice{
			UserID:        userID,
			InvoiceNumber: documents.NewNumber("INV", now, uuid.NewString()),
			CustomerName:  req.CustomerName,
			Items:         req.Items,
			Subtotal:      subtotal,
			VAT:           vat,
			Total:         total,
			Status:        invoiceStatusUnpaid,
			DueDate:       now.AddDate(0, 0, days),
		})
		if err != nil {
			storageFailure(w, "create invoice", userID, err)
			return
		}

		slog.Info("Invoice created", slog.String("user_id", userID), slog.String("invoice_number", invoice.InvoiceNumber))
		response.WriteJSON(w, http.StatusCreated, invoice)
	}
}

// RecentInvoices lists the caller's five newest invoices
// @Summary Recent invoices
// @Tags documents
// @Produce json
// @Success 200 {array} documents.Invoice "Invoices"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /invoices [get]
func (h *DocumentHandlers) RecentInvoices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		invoices, err := h.store.ListRecentInvoices(r.Context(), userID, documents.RecentLimit)
		if err != nil {
			storageFailure(w, "list invoices", userID, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, invoices)
	}
}

// CreateCP12 stores a landlord gas safety record, due again twelve months after inspection
// @Summary Record a CP12 inspection
// @Tags documents
// @Accept json
// @Produce json
// @Param request body documents.CP12Request true "Gas safety record"
// @Success 201 {object} documents.CP12Record "Record created"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /cp12 [post]
func (h *DocumentHandlers) CreateCP12() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req documents.CP12Request
		if !decode(w, r, &req) {
			return
		}

		// The validator has already checked the layout.
		inspected, _ := time.Parse("2006-01-02", req.InspectionDate)
		appliances := req.Appliances
		if appliances == nil {
			appliances = []documents.Appliance{}
		}

		record, err := h.store.CreateCP12(r.Context(), documents.CP12Record{
			UserID:          userID,
			PropertyAddress: req.PropertyAddress,
			LandlordName:    req.LandlordName,
			TenantName:      req.TenantName,
			InspectionDate:  inspected,
			NextDue:         inspected.AddDate(0, cp12ValidityInMonths, 0),
			OverallResult:   req.OverallResult,
			Appliances:      appliances,
		})
		if err != nil {
			storageFailure(w, "create cp12 record", userID, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, record)
	}
}

// RecentCP12 lists the caller's five newest gas safety records
// @Summary Recent CP12 records
// @Tags documents
// @Produce json
// @Success 200 {array} documents.CP12Record "Records"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /cp12 [get]
func (h *DocumentHandlers) RecentCP12() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		records, err := h.store.ListRecentCP12(r.Context(), userID, documents.RecentLimit)
		if err != nil {
			storageFailure(w, "list cp12 records", userID, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, records)
	}
}
