package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/domain"
)

// tehranLocation is the Tehran Stock Exchange's trading calendar timezone,
// used to compare analysis_datetime against "today" for the freshness
// predicate -- a UTC-day comparison would disagree with the exchange's own
// calendar near midnight.
var tehranLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		return time.FixedZone("Asia/Tehran", 3*60*60+30*60)
	}
	return loc
}()

// Store is the AssetDocument collection. Zero value is not usable; build one
// with New.
type Store struct {
	db  *DB
	log zerolog.Logger
}

// New wraps an already-migrated DB as a document Store.
func New(db *DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log.With().Str("component", "store").Logger()}
}

// Upsert writes doc in place, keyed by its DocumentID(). A refresh always
// overwrites; it never appends a new row for the same document ID.
func (s *Store) Upsert(ctx context.Context, doc *domain.AssetDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: marshal document: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO asset_documents (document_id, trade_symbol, provider_id, analysis_datetime, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			analysis_datetime = excluded.analysis_datetime,
			payload = excluded.payload
	`, doc.DocumentID(), string(doc.TradeSymbol), doc.ProviderID, doc.AnalysisDatetime.Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("store: upsert %q: %w", doc.DocumentID(), err)
	}
	return nil
}

// Get retrieves a document by its "{trade_symbol}_{provider_id}" key.
func (s *Store) Get(ctx context.Context, documentID string) (*domain.AssetDocument, error) {
	var payload string
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT payload FROM asset_documents WHERE document_id = ?`, documentID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %q: %w", documentID, err)
	}

	var doc domain.AssetDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("store: unmarshal %q: %w", documentID, err)
	}
	return &doc, nil
}

// LastAnalyzedAt returns the stored analysis_datetime for documentID, or the
// zero time if it doesn't exist yet -- a fresh symbol is always due for a
// run.
func (s *Store) LastAnalyzedAt(ctx context.Context, documentID string) (time.Time, error) {
	var raw string
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT analysis_datetime FROM asset_documents WHERE document_id = ?`, documentID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("store: last analyzed %q: %w", documentID, err)
	}
	return time.Parse(time.RFC3339, raw)
}

// ShouldRun reports whether documentID is due for re-ingestion: true if the
// stored document is absent or lacks an analysis_datetime, or its date is
// strictly earlier than today (Tehran calendar); false if the date is
// today; false (with a logged warning) if the date is in the future, which
// indicates a clock skew or bad write rather than a document to refresh.
func (s *Store) ShouldRun(ctx context.Context, documentID string) (bool, error) {
	last, err := s.LastAnalyzedAt(ctx, documentID)
	if err != nil {
		return false, err
	}
	if last.IsZero() {
		return true, nil
	}

	today := time.Now().In(tehranLocation)
	lastDay := last.In(tehranLocation)

	switch {
	case dateBefore(lastDay, today):
		return true, nil
	case dateBefore(today, lastDay):
		s.log.Warn().Str("document_id", documentID).Time("analysis_datetime", last).Msg("stored analysis_datetime is in the future")
		return false, nil
	default:
		return false, nil
	}
}

// dateBefore reports whether a's calendar date is strictly earlier than b's,
// ignoring time-of-day.
func dateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
