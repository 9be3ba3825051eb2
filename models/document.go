package models

// Document is the aggregate root persisted as a single JSON blob. Every save
// serializes the complete structure; a mutation to one section must never
// drop the others.
type Document struct {
	Dossiers      []Dossier            `json:"dossiers"`
	VisaReference []VisaRow            `json:"visa_reference"`
	Bookkeeping   []BookkeepingEntry   `json:"bookkeeping"`
	EscrowHistory []EscrowHistoryEntry `json:"escrow_history"`
}

// EmptyDocument returns a well-formed document with all sections present.
func EmptyDocument() *Document {
	return &Document{
		Dossiers:      []Dossier{},
		VisaReference: []VisaRow{},
		Bookkeeping:   []BookkeepingEntry{},
		EscrowHistory: []EscrowHistoryEntry{},
	}
}

// EnsureSections replaces nil sections with empty slices so callers never
// see a partially-shaped document.
func (doc *Document) EnsureSections() {
	if doc.Dossiers == nil {
		doc.Dossiers = []Dossier{}
	}
	if doc.VisaReference == nil {
		doc.VisaReference = []VisaRow{}
	}
	if doc.Bookkeeping == nil {
		doc.Bookkeeping = []BookkeepingEntry{}
	}
	if doc.EscrowHistory == nil {
		doc.EscrowHistory = []EscrowHistoryEntry{}
	}
}

// DossierNumbers returns the identifiers of all dossiers in the document.
func (doc *Document) DossierNumbers() []string {
	numbers := make([]string, 0, len(doc.Dossiers))
	for i := range doc.Dossiers {
		numbers = append(numbers, doc.Dossiers[i].DossierNumber)
	}
	return numbers
}
