package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/types/documents"
)

const (
	quoteColumns   = `id, user_id, quote_number, COALESCE(customer_name, ''), items, subtotal, vat, total, status, valid_until, created_at`
	invoiceColumns = `id, user_id, invoice_number, COALESCE(customer_name, ''), items, subtotal, vat, total, status, due_date, created_at`
	cp12Columns    = `id, user_id, property_address, COALESCE(landlord_name, ''), COALESCE(tenant_name, ''), inspection_date, next_due, overall_result, appliances, created_at`
)

func scanQuote(row rowScanner) (documents.Quote, error) {
	var (
		q     documents.Quote
		id    int64
		items []byte
	)
	if err := row.Scan(&id, &q.UserID, &q.QuoteNumber, &q.CustomerName, &items,
		&q.Subtotal, &q.VAT, &q.Total, &q.Status, &q.ValidUntil, &q.CreatedAt); err != nil {
		return documents.Quote{}, err
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return documents.Quote{}, fmt.Errorf("decode quote items: %w", err)
	}
	q.ID = strconv.FormatInt(id, 10)
	q.ValidUntil = q.ValidUntil.UTC()
	q.CreatedAt = q.CreatedAt.UTC()
	return q, nil
}

func scanInvoice(row rowScanner) (documents.Invoice, error) {
	var (
		inv   documents.Invoice
		id    int64
		items []byte
	)
	if err := row.Scan(&id, &inv.UserID, &inv.InvoiceNumber, &inv.CustomerName, &items,
		&inv.Subtotal, &inv.VAT, &inv.Total, &inv.Status, &inv.DueDate, &inv.CreatedAt); err != nil {
		return documents.Invoice{}, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return documents.Invoice{}, fmt.Errorf("decode invoice items: %w", err)
	}
	inv.ID = strconv.FormatInt(id, 10)
	inv.DueDate = inv.DueDate.UTC()
	inv.CreatedAt = inv.CreatedAt.UTC()
	return inv, nil
}

func scanCP12(row rowScanner) (documents.CP12Record, error) {
	var (
		rec        documents.CP12Record
		id         int64
		appliances []byte
	)
	if err := row.Scan(&id, &rec.UserID, &rec.PropertyAddress, &rec.LandlordName, &rec.TenantName,
		&rec.InspectionDate, &rec.NextDue, &rec.OverallResult, &appliances, &rec.CreatedAt); err != nil {
		return documents.CP12Record{}, err
	}
	if err := json.Unmarshal(appliances, &rec.Appliances); err != nil {
		return documents.CP12Record{}, fmt.Errorf("decode appliances: %w", err)
	}
	rec.ID = strconv.FormatInt(id, 10)
	rec.InspectionDate = rec.InspectionDate.UTC()
	rec.NextDue = rec.NextDue.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

// notFound maps sql.ErrNoRows to storage.ErrNotFound.
func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (p *Postgres) CreateQuote(ctx context.Context, q documents.Quote) (documents.Quote, error) {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return documents.Quote{}, fmt.Errorf("encode quote items: %w", err)
	}

	query := `
	INSERT INTO quotes (user_id, quote_number, customer_name, items, subtotal, vat, total, status, valid_until)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + quoteColumns

	row := p.Db.QueryRowContext(ctx, query, q.UserID, q.QuoteNumber, nullString(q.CustomerName), string(items),
		q.Subtotal, q.VAT, q.Total, q.Status, q.ValidUntil)
	created, err := scanQuote(row)
	if err != nil {
		return documents.Quote{}, fmt.Errorf("create quote: %w", err)
	}
	return created, nil
}

func (p *Postgres) GetQuote(ctx context.Context, id string) (documents.Quote, error) {
	n, err := parseID(id)
	if err != nil {
		return documents.Quote{}, err
	}
	q, err := scanQuote(p.Db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, n))
	if err != nil {
		return documents.Quote{}, notFound(err, "get quote")
	}
	return q, nil
}

// ListRecentQuotes returns the user's newest quotes first.
func (p *Postgres) ListRecentQuotes(ctx context.Context, userID string, limit int) ([]documents.Quote, error) {
	rows, err := p.Db.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := []documents.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotes: %w", err)
	}
	return quotes, nil
}

func (p *Postgres) CreateInvoice(ctx context.Context, inv documents.Invoice) (documents.Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return documents.Invoice{}, fmt.Errorf("encode invoice items: %w", err)
	}

	query := `
	INSERT INTO invoices (user_id, invoice_number, customer_name, items, subtotal, vat, total, status, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + invoiceColumns

	row := p.Db.QueryRowContext(ctx, query, inv.UserID, inv.InvoiceNumber, nullString(inv.CustomerName), string(items),
		inv.Subtotal, inv.VAT, inv.Total, inv.Status, inv.DueDate)
	created, err := scanInvoice(row)
	if err != nil {
		return documents.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return created, nil
}

func (p *Postgres) GetInvoice(ctx context.Context, id string) (documents.Invoice, error) {
	n, err := parseID(id)
	if err != nil {
		return documents.Invoice{}, err
	}
	inv, err := scanInvoice(p.Db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, n))
	if err != nil {
		return documents.Invoice{}, notFound(err, "get invoice")
	}
	return inv, nil
}

func (p *Postgres) ListRecentInvoices(ctx context.Context, userID string, limit int) ([]documents.Invoice, error) {
	rows, err := p.Db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []documents.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}

func (p *Postgres) CreateCP12(ctx context.Context, rec documents.CP12Record) (documents.CP12Record, error) {
	appliances, err := json.Marshal(rec.Appliances)
	if err != nil {
		return documents.CP12Record{}, fmt.Errorf("encode appliances: %w", err)
	}

	query := `
	INSERT INTO cp12_records (user_id, property_address, landlord_name, tenant_name, inspection_date, next_due, overall_result, appliances)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + cp12Columns

	row := p.Db.QueryRowContext(ctx, query, rec.UserID, rec.PropertyAddress, nullString(rec.LandlordName),
		nullString(rec.TenantName), rec.InspectionDate, rec.NextDue, rec.OverallResult, string(appliances))
	created, err := scanCP12(row)
	if err != nil {
		return documents.CP12Record{}, fmt.Errorf("create cp12 record: %w", err)
	}
	return created, nil
}

func (p *Postgres) GetCP12(ctx context.Context, id string) (documents.CP12Record, error) {
	n, err := parseID(id)
	if err != nil {
		return documents.CP12Record{}, err
	}
	rec, err := scanCP12(p.Db.QueryRowContext(ctx, `SELECT `+cp12Columns+` FROM cp12_records WHERE id = $1`, n))
	if err != nil {
		return documents.CP12Record{}, notFound(err, "get cp12 record")
	}
	return rec, nil
}

func (p *Postgres) ListRecentCP12(ctx context.Context, userID string, limit int) ([]documents.CP12Record, error) {
	rows, err := p.Db.QueryContext(ctx,
		`SELECT `+cp12Columns+` FROM cp12_records WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query cp12 records: %w", err)
	}
	defer rows.Close()

	records := []documents.CP12Record{}
	for rows.Next() {
		rec, err := scanCP12(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cp12 record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cp12 records: %w", err)
	}
	return records, nil
}

func (p *Postgres) GetProfile(ctx context.Context, userID string) (documents.Profile, error) {
	query := `
	SELECT user_id, display_name, COALESCE(company_name, ''), COALESCE(gas_safe_number, ''), COALESCE(phone, '')
	FROM profiles
	WHERE user_id = $1
	`

	var pr documents.Profile
	err := p.Db.QueryRowContext(ctx, query, userID).
		Scan(&pr.UserID, &pr.DisplayName, &pr.CompanyName, &pr.GasSafeNumber, &pr.Phone)
	if err != nil {
		return documents.Profile{}, notFound(err, "get profile")
	}
	return pr, nil
}

// UpsertProfile creates the profile on first save and overwrites it afterwards.
func (p *Postgres) UpsertProfile(ctx context.Context, pr documents.Profile) error {
	query := `
	INSERT INTO profiles (user_id, display_name, company_name, gas_safe_number, phone)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		company_name = EXCLUDED.company_name,
		gas_safe_number = EXCLUDED.gas_safe_number,
		phone = EXCLUDED.phone,
		updated_at = NOW()
	`

	_, err := p.Db.ExecContext(ctx, query, pr.UserID, pr.DisplayName,
		nullString(pr.CompanyName), nullString(pr.GasSafeNumber), nullString(pr.Phone))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (p *Postgres) CreateShare(ctx context.Context, s documents.Share) error {
	query := `
	INSERT INTO shared_documents (share_token, user_id, document_type, document_id, expires_at)
	VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.Db.ExecContext(ctx, query, s.Token, s.UserID, string(s.DocumentType), s.DocumentID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create share: %w", err)
	}
	return nil
}

// GetShare returns the share as stored, expired or not. The document type is not
// checked here.
func (p *Postgres) GetShare(ctx context.Context, token string) (documents.Share, error) {
	query := `
	SELECT share_token, user_id, document_type, document_id, expires_at, created_at
	FROM shared_documents
	WHERE share_token = $1
	`

	var (
		s       documents.Share
		docType string
	)
	err := p.Db.QueryRowContext(ctx, query, token).
		Scan(&s.Token, &s.UserID, &docType, &s.DocumentID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return documents.Share{}, notFound(err, "get share")
	}
	s.DocumentType = documents.DocumentType(docType)
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

// ListWorkHours returns the user's entries logged in [from, to), oldest first.
func (p *Postgres) ListWorkHours(ctx context.Context, userID string, from, to time.Time) ([]types.WorkHours, error) {
	query := `
	SELECT id, user_id, hours, COALESCE(job_id, ''), COALESCE(notes, ''), created_at
	FROM work_hours
	WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	ORDER BY created_at
	`

	rows, err := p.Db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query work hours: %w", err)
	}
	defer rows.Close()

	entries := []types.WorkHours{}
	for rows.Next() {
		var (
			e         types.WorkHours
			id        int64
			createdAt time.Time
		)
		if err := rows.Scan(&id, &e.UserID, &e.Hours, &e.JobID, &e.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan work hours: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work hours: %w", err)
	}
	return entries, nil
}

// ListMileage returns the user's trips logged in [from, to), oldest first.
func (p *Postgres) ListMileage(ctx context.Context, userID string, from, to time.Time) ([]types.MileageLog, error) {
	query := `
	SELECT id, user_id, miles, COALESCE(job_id, ''), COALESCE(notes, ''), created_at
	FROM mileage_logs
	WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	ORDER BY created_at
	`

	rows, err := p.Db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query mileage: %w", err)
	}
	defer rows.Close()

	entries := []types.MileageLog{}
	for rows.Next() {
		var (
			e         types.MileageLog
			id        int64
			createdAt time.Time
		)
		if err := rows.Scan(&id, &e.UserID, &e.Miles, &e.JobID, &e.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan mileage: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mileage: %w", err)
	}
	return entries, nil
}
