// Package documents holds the customer-facing paperwork an engineer issues: gas safety
// records (CP12), quotes and invoices, plus the share links that expose them.
package documents

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type DocumentType string

const (
	TypeCP12    DocumentType = "cp12"
	TypeQuote   DocumentType = "quote"
	TypeInvoice DocumentType = "invoice"
)

// VATRate is the UK standard rate applied to quotes and invoices.
const VATRate = 0.20

// RecentLimit is how many documents of each kind the dashboard lists.
const RecentLimit = 5

// ParseDocumentType reports whether s names a shareable document.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch t := DocumentType(s); t {
	case TypeCP12, TypeQuote, TypeInvoice:
		return t, true
	}
	return "", false
}

type LineItem struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// Totals returns subtotal, VAT and total in pounds, each rounded to the penny.
func Totals(items []LineItem) (subtotal, vat, total float64) {
	for _, it := range items {
		subtotal += it.Quantity * it.UnitPrice
	}
	subtotal = roundPence(subtotal)
	vat = roundPence(subtotal * VATRate)
	return subtotal, vat, roundPence(subtotal + vat)
}

func roundPence(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewNumber builds a human-readable document number such as Q-20250301-7F3A.
func NewNumber(prefix string, now time.Time, suffix string) string {
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102"), strings.ToUpper(suffix))
}

type Quote struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	QuoteNumber  string     `json:"quote_number"`
	CustomerName string     `json:"customer_name,omitempty"`
	Items        []LineItem `json:"items"`
	Subtotal     float64    `json:"subtotal"`
	VAT          float64    `json:"vat"`
	Total        float64    `json:"total"`
	Status       string     `json:"status"`
	ValidUntil   time.Time  `json:"valid_until"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Invoice struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	InvoiceNumber string     `json:"invoice_number"`
	CustomerName  string     `json:"customer_name,omitempty"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	VAT           float64    `json:"vat"`
	Total         float64    `json:"total"`
	Status        string     `json:"status"`
	DueDate       time.Time  `json:"due_date"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Appliance struct {
	Type     string `json:"type"`
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	Location string `json:"location,omitempty"`
	Result   string `json:"result" validate:"omitempty,oneof=Pass Fail"`
}

// CP12Record is a landlord gas safety record.
type CP12Record struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	PropertyAddress string      `json:"property_address"`
	LandlordName    string      `json:"landlord_name,omitempty"`
	TenantName      string      `json:"tenant_name,omitempty"`
	InspectionDate  time.Time   `json:"inspection_date"`
	NextDue         time.Time   `json:"next_due"`
	OverallResult   string      `json:"overall_result"`
	Appliances      []Appliance `json:"appliances"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Profile is what customers see of the engineer on a shared document.
type Profile struct {
	UserID        string `json:"user_id"`
	DisplayName   string `json:"display_name"`
	CompanyName   string `json:"company_name,omitempty"`
	GasSafeNumber string `json:"gas_safe_number,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// Share is an expiring, unauthenticated link to one document.
type Share struct {
	Token        string       `json:"token"`
	UserID       string       `json:"user_id"`
	DocumentType DocumentType `json:"document_type"`
	DocumentID   string       `json:"document_id"`
	ExpiresAt    time.Time    `json:"expires_at"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (s Share) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type QuoteRequest struct {
	CustomerName string     `json:"customer_name" validate:"max=255"`
	Items        []LineItem `json:"items" validate:"required,min=1,max=100,dive"`
	ValidForDays int        `json:"valid_for_days" validate:"omitempty,min=1,max=365"`
}

type InvoiceRequest struct {
	CustomerName string     `json:"customer_name" validate:"max=255"`
	Items        []LineItem `json:"items" validate:"required,min=1,max=100,dive"`
	DueInDays    int        `json:"due_in_days" validate:"omitempty,min=1,max=365"`
}

type CP12Request struct {
	PropertyAddress string      `json:"property_address" validate:"required,max=500"`
	LandlordName    string      `json:"landlord_name" validate:"max=255"`
	TenantName      string      `json:"tenant_name" validate:"max=255"`
	InspectionDate  string      `json:"inspection_date" validate:"required,datetime=2006-01-02"`
	OverallResult   string      `json:"overall_result" validate:"required,oneof=Pass Fail"`
	Appliances      []Appliance `json:"appliances" validate:"max=50,dive"`
}

type ProfileRequest struct {
	DisplayName   string `json:"display_name" validate:"required,max=100"`
	CompanyName   string `json:"company_name" validate:"max=255"`
	GasSafeNumber string `json:"gas_safe_number" validate:"omitempty,numeric,min=6,max=7"`
	Phone         string `json:"phone" validate:"max=32"`
}

type ShareRequest struct {
	DocumentType  string `json:"document_type" validate:"required,oneof=cp12 quote invoice"`
	DocumentID    string `json:"document_id" validate:"required"`
	ExpiresInDays int    `json:"expires_in_days" validate:"omitempty,min=1,max=90"`
}

type ShareResponse struct {
	Token     string    `json:"token"`
	Path      string    `json:"path"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SharedDocument is the public view behind a share token. Engineer is nil when the issuing
// engineer never filled in a profile.
type SharedDocument struct {
	DocumentType DocumentType `json:"document_type"`
	Document     any          `json:"document"`
	Engineer     *Profile     `json:"engineer"`
}
