package services

import (
	"time"

	"github.com/google/uuid"

	"visa_flow_app_go/models"
)

// DeriveEscrowState computes the custody state and held amount for a
// dossier from its status and escrow flags. The rules, in order:
//
//   - a resolved dossier (accepted/refused/cancelled) holds nothing: state
//     NONE, amount 0, regardless of installments. Once a case resolves the
//     funds are no longer in custody even though the historical installments
//     stay on record. Deliberate business rule, do not "fix".
//   - otherwise claimed > to-be-claimed > active, amount = installment total.
//   - no flag set: NONE, 0.
//
// The engine recomputes from flags on every call instead of trusting the
// at-most-one-true convention to hold in storage.
func DeriveEscrowState(d models.Dossier) (string, float64) {
	if d.IsResolved() {
		return models.EscrowStateNone, 0
	}

	amount := d.InstallmentTotal()
	switch {
	case d.EscrowClaimed:
		return models.EscrowStateClaimed, amount
	case d.EscrowToBeClaimed:
		return models.EscrowStateToBeClaimed, amount
	case d.EscrowActive:
		return models.EscrowStateActive, amount
	}
	return models.EscrowStateNone, 0
}

// ApplyEscrowTransition derives the dossier's current escrow state and, when
// it differs from the previous snapshot, returns an audit entry to append to
// the document's escrow history. The entry is nil when nothing changed, so
// re-deriving the same state never duplicates history. The timestamp is
// injected by the caller (capture time, not a business date).
func ApplyEscrowTransition(d models.Dossier, previousState string, cause string, now time.Time) (string, *models.EscrowHistoryEntry) {
	newState, amount := DeriveEscrowState(d)
	if !models.IsValidEscrowState(previousState) {
		previousState = models.EscrowStateNone
	}
	if newState == previousState {
		return newState, nil
	}

	return newState, &models.EscrowHistoryEntry{
		ID:            uuid.New().String(),
		DossierNumber: d.DossierNumber,
		PreviousState: previousState,
		NewState:      newState,
		Amount:        amount,
		RecordedAt:    now,
		Cause:         cause,
	}
}
