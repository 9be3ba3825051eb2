package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"visa_flow_app_go/models"
	"visa_flow_app_go/services"
)

var (
	// ErrStorageUnavailable signals that the backing store could not be
	// reached. Save surfaces it; Load degrades to an empty document instead.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrDossierNotFound signals an unknown dossier number.
	ErrDossierNotFound = errors.New("dossier not found")
	// ErrDuplicateDossier signals a create colliding with an existing
	// number. Must not happen when numbering goes through the identifier
	// service, but create checks and fails loudly rather than overwrite.
	ErrDuplicateDossier = errors.New("duplicate dossier number")
	// ErrIndexOutOfRange signals an invalid row index on the index-keyed
	// reference/bookkeeping operations.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Database is the single gateway to the persisted document. Every operation
// loads the whole document, transforms it, and (when mutating) writes the
// whole document back; there is no partial write. Last-writer-wins across
// sessions is an accepted limitation.
type Database struct {
	storage     StorageProvider
	documentKey string
	numberStart int
}

// New creates the document façade over a storage provider.
func New(storage StorageProvider, documentKey string, numberStart int) *Database {
	return &Database{
		storage:     storage,
		documentKey: documentKey,
		numberStart: numberStart,
	}
}

// rawDocument is the wire shape of the stored blob. Dossier rows are kept as
// raw maps so that legacy documents with aliased keys or stringly-typed
// values pass through the normalizer on load. "cases" is the historical name
// of the dossiers section.
type rawDocument struct {
	Dossiers      []map[string]any            `json:"dossiers"`
	Cases         []map[string]any            `json:"cases,omitempty"`
	VisaReference []models.VisaRow            `json:"visa_reference"`
	Bookkeeping   []models.BookkeepingEntry   `json:"bookkeeping"`
	EscrowHistory []models.EscrowHistoryEntry `json:"escrow_history"`
}

// Load reads and normalizes the whole document. A missing blob or an
// unreachable store yields an empty well-formed document, never a
// partially-shaped one. Corrupt content is an error: overwriting data that
// merely failed to decode would lose it.
func (db *Database) Load(ctx context.Context) (*models.Document, error) {
	data, err := db.storage.Get(ctx, db.documentKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return models.EmptyDocument(), nil
		}
		log.Printf("[WARNING] Document load failed, starting from an empty document: %v", err)
		return models.EmptyDocument(), nil
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	doc := models.EmptyDocument()
	for _, row := range raw.Dossiers {
		doc.Dossiers = append(doc.Dossiers, services.NormalizeDossier(row))
	}
	for _, row := range raw.Cases {
		doc.Dossiers = append(doc.Dossiers, services.NormalizeDossier(row))
	}
	if raw.VisaReference != nil {
		doc.VisaReference = raw.VisaReference
	}
	if raw.Bookkeeping != nil {
		doc.Bookkeeping = raw.Bookkeeping
	}
	if raw.EscrowHistory != nil {
		doc.EscrowHistory = raw.EscrowHistory
	}
	return doc, nil
}

// Save serializes the complete document. Failures are surfaced, never
// swallowed as an empty store.
func (db *Database) Save(ctx context.Context, doc *models.Document) error {
	doc.EnsureSections()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := db.storage.Put(ctx, db.documentKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// ListDossiers returns every dossier ordered by parsed number.
func (db *Database) ListDossiers(ctx context.Context) ([]models.Dossier, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}

	dossiers := doc.Dossiers
	sort.SliceStable(dossiers, func(i, j int) bool {
		return services.CompareDossierNumbers(dossiers[i].DossierNumber, dossiers[j].DossierNumber) < 0
	})
	return dossiers, nil
}

// GetDossier returns the dossier with the given number.
func (db *Database) GetDossier(ctx context.Context, number string) (*models.Dossier, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findDossier(doc, number)
}

func findDossier(doc *models.Document, number string) (*models.Dossier, error) {
	for i := range doc.Dossiers {
		if doc.Dossiers[i].DossierNumber == number {
			return &doc.Dossiers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDossierNotFound, number)
}

// CreateDossier normalizes the raw fields, assigns the next parent number
// when none is supplied, and appends the dossier. The assigned number is
// returned.
func (db *Database) CreateDossier(ctx context.Context, fields map[string]any) (string, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return "", err
	}

	dossier := services.NormalizeDossier(fields)
	if dossier.DossierNumber == "" {
		next := services.NextParentNumber(doc.DossierNumbers(), db.numberStart)
		dossier.DossierNumber = strconv.Itoa(next)
	}

	return db.appendDossier(ctx, doc, dossier)
}

// CreateChildDossier creates a sub-case under an existing parent, numbered
// by the identifier service ("<parent>-1", "-2", ...).
func (db *Database) CreateChildDossier(ctx context.Context, parentNumber string, fields map[string]any) (string, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return "", err
	}

	parts, err := services.ParseDossierNumber(parentNumber)
	if err != nil {
		return "", err
	}
	if _, err := findDossier(doc, parentNumber); err != nil {
		return "", err
	}

	dossier := services.NormalizeDossier(fields)
	dossier.DossierNumber = services.NextChildNumber(doc.DossierNumbers(), parts.Parent)

	return db.appendDossier(ctx, doc, dossier)
}

func (db *Database) appendDossier(ctx context.Context, doc *models.Document, dossier models.Dossier) (string, error) {
	if _, err := findDossier(doc, dossier.DossierNumber); err == nil {
		return "", fmt.Errorf("%w: %s", ErrDuplicateDossier, dossier.DossierNumber)
	}

	_, entry := services.ApplyEscrowTransition(dossier, models.EscrowStateNone, "dossier created", time.Now())
	if entry != nil {
		doc.EscrowHistory = append(doc.EscrowHistory, *entry)
	}

	doc.Dossiers = append(doc.Dossiers, dossier)
	if err := db.Save(ctx, doc); err != nil {
		return "", err
	}
	return dossier.DossierNumber, nil
}

// ImportDossiers appends a batch of normalized dossiers in a single save.
// Rows without a number are assigned the next parent numbers; a row
// colliding with an existing number is skipped and reported, never
// overwritten. Returns the numbers actually added plus per-row errors.
func (db *Database) ImportDossiers(ctx context.Context, dossiers []models.Dossier) ([]string, []string, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	var added, importErrors []string
	for _, dossier := range dossiers {
		if dossier.DossierNumber == "" {
			next := services.NextParentNumber(doc.DossierNumbers(), db.numberStart)
			dossier.DossierNumber = strconv.Itoa(next)
		} else if _, err := findDossier(doc, dossier.DossierNumber); err == nil {
			importErrors = append(importErrors, fmt.Sprintf("dossier %s already exists", dossier.DossierNumber))
			continue
		}

		_, entry := services.ApplyEscrowTransition(dossier, models.EscrowStateNone, "dossier imported", time.Now())
		if entry != nil {
			doc.EscrowHistory = append(doc.EscrowHistory, *entry)
		}
		doc.Dossiers = append(doc.Dossiers, dossier)
		added = append(added, dossier.DossierNumber)
	}

	if len(added) > 0 {
		if err := db.Save(ctx, doc); err != nil {
			return nil, importErrors, err
		}
	}
	return added, importErrors, nil
}

// UpdateDossier applies a partial field update: supplied fields overlay the
// stored record, the merge is re-normalized, and the identity is kept
// immutable. Escrow transitions caused by the update are recorded once in
// the history with the supplied cause.
func (db *Database) UpdateDossier(ctx context.Context, number string, fields map[string]any, cause string) (*models.Dossier, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := findDossier(doc, number)
	if err != nil {
		return nil, err
	}
	previousState, _ := services.DeriveEscrowState(*existing)

	merged, err := mergeDossierFields(*existing, fields)
	if err != nil {
		return nil, err
	}
	merged.DossierNumber = number

	_, entry := services.ApplyEscrowTransition(merged, previousState, cause, time.Now())
	if entry != nil {
		doc.EscrowHistory = append(doc.EscrowHistory, *entry)
	}

	*existing = merged
	if err := db.Save(ctx, doc); err != nil {
		return nil, err
	}
	return existing, nil
}

// mergeDossierFields overlays raw partial fields onto the stored record and
// re-normalizes the result, so updates go through the same coercion path as
// imports.
func mergeDossierFields(existing models.Dossier, fields map[string]any) (models.Dossier, error) {
	data, err := json.Marshal(existing)
	if err != nil {
		return models.Dossier{}, fmt.Errorf("failed to encode dossier: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Dossier{}, fmt.Errorf("failed to decode dossier: %w", err)
	}

	for key, value := range fields {
		raw[services.NormalizeKey(key)] = value
	}
	return services.NormalizeDossier(raw), nil
}

// DeleteDossier removes the dossier from the document. Identity is never
// reused; numbering only moves forward.
func (db *Database) DeleteDossier(ctx context.Context, number string) error {
	doc, err := db.Load(ctx)
	if err != nil {
		return err
	}

	for i := range doc.Dossiers {
		if doc.Dossiers[i].DossierNumber == number {
			doc.Dossiers = append(doc.Dossiers[:i], doc.Dossiers[i+1:]...)
			return db.Save(ctx, doc)
		}
	}
	return fmt.Errorf("%w: %s", ErrDossierNotFound, number)
}

// ListVisaRows returns the visa reference table.
func (db *Database) ListVisaRows(ctx context.Context) ([]models.VisaRow, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.VisaReference, nil
}

// AddVisaRow appends a reference triple.
func (db *Database) AddVisaRow(ctx context.Context, row models.VisaRow) error {
	doc, err := db.Load(ctx)
	if err != nil {
		return err
	}
	doc.VisaReference = append(doc.VisaReference, row)
	return db.Save(ctx, doc)
}

// UpdateVisaRow replaces the reference row at the given index.
func (db *Database) UpdateVisaRow(ctx context.Context, index int, row models.VisaRow) error {
	doc, err := db.Load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(doc.VisaReference) {
		return fmt.Errorf("%w: visa reference %d", ErrIndexOutOfRange, index)
	}
	doc.VisaReference[index] = row
	return db.Save(ctx, doc)
}

// DeleteVisaRow removes the reference row at the given index.
func (db *Database) DeleteVisaRow(ctx context.Context, index int) error {
	doc, err := db.Load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(doc.VisaReference) {
		return fmt.Errorf("%w: visa reference %d", ErrIndexOutOfRange, index)
	}
	doc.VisaReference = append(doc.VisaReference[:index], doc.VisaReference[index+1:]...)
	return db.Save(ctx, doc)
}

// ListBookkeeping returns all ledger entries.
func (db *Database) ListBookkeeping(ctx context.Context) ([]models.BookkeepingEntry, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Bookkeeping, nil
}

// AddBookkeepingEntry appends a ledger entry, assigning a surrogate id and
// coercing date/amount through the normalizer's rules.
func (db *Database) AddBookkeepingEntry(ctx context.Context, entry models.BookkeepingEntry) (*models.BookkeepingEntry, error) {
	doc, err := db.Load(ctx)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.New().String()
	sanitizeBookkeepingEntry(&entry)
	doc.Bookkeeping = append(doc.Bookkeeping, entry)
	if err := db.Save(ctx, doc); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateBookkeepingEntry replaces the entry at the given index, keeping its
// surrogate id.
func (db *Database) UpdateBookkeepingEntry(ctx context.Context, index int, entry models.BookkeepingEntry) error {
	doc, err := db.Load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(doc.Bookkeeping) {
		return fmt.Errorf("%w: bookkeeping %d", ErrIndexOutOfRange, index)
	}

	entry.ID = doc.Bookkeeping[index].ID
	sanitizeBookkeepingEntry(&entry)
	doc.Bookkeeping[index] = entry
	return db.Save(ctx, doc)
}

// DeleteBookkeepingEntry removes the entry at the given index.
func (db *Database) DeleteBookkeepingEntry(ctx context.Context, index int) error {
	doc, err := db.Load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(doc.Bookkeeping) {
		return fmt.Errorf("%w: bookkeeping %d", ErrIndexOutOfRange, index)
	}
	doc.Bookkeeping = append(doc.Bookkeeping[:index], doc.Bookkeeping[index+1:]...)
	return db.Save(ctx, doc)
}

func sanitizeBookkeepingEntry(entry *models.BookkeepingEntry) {
	entry.Date = services.CoerceDate(entry.Date)
	entry.Amount = services.CoerceAmount(entry.Amount)
	entry.ClientName = services.CoerceString(entry.ClientName)
	entry.DossierNumber = services.CoerceString(entry.DossierNumber)
	if !models.IsValidBookkeepingKind(entry.Kind) {
		entry.Kind = models.BookkeepingKindInflow
	}
}
