package services

import (
	"fmt"
	"sort"

	"visa_flow_app_go/models"
)

// BuildTimeline projects a normalized dossier onto an ordered sequence of
// dated events: creation, installment payments, status changes and escrow
// state changes. An event is emitted only when it has a concrete date;
// undated facts (an installment amount with no recorded payment date) are
// excluded rather than emitted with a placeholder. Output is sorted
// ascending by date, ties keeping the enumeration order above.
func BuildTimeline(d models.Dossier) []models.TimelineEvent {
	var events []models.TimelineEvent

	if d.CreatedDate != "" {
		events = append(events, models.TimelineEvent{
			Date:  d.CreatedDate,
			Type:  models.TimelineEventCreated,
			Label: "Dossier created",
		})
	}

	amounts := d.Installments()
	dates := d.PaymentDates()
	modes := d.PaymentModes()
	for i := 0; i < models.InstallmentCount; i++ {
		if amounts[i] <= 0 || dates[i] == "" {
			continue
		}
		events = append(events, models.TimelineEvent{
			Date:   dates[i],
			Type:   models.TimelineEventPayment,
			Label:  fmt.Sprintf("Payment installment %d", i+1),
			Amount: amounts[i],
			Note:   modes[i],
		})
	}

	statuses := []struct {
		date  string
		label string
	}{
		{d.SentDate, "Dossier sent"},
		{d.AcceptedDate, "Dossier accepted"},
		{d.RefusedDate, "Dossier refused"},
		{d.CancelledDate, "Dossier cancelled"},
		{d.RFEDate, "RFE received"},
	}
	for _, status := range statuses {
		if status.date == "" {
			continue
		}
		events = append(events, models.TimelineEvent{
			Date:  status.date,
			Type:  models.TimelineEventStatus,
			Label: status.label,
		})
	}

	events = append(events, escrowEvents(d)...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
	return events
}

// escrowEvents emits the event for the dossier's current escrow state, when
// it has both a held amount and a concrete date to pin it to. The claimed
// event uses the dedicated claim date; earlier data conflated it with the
// RFE date, which the alias table untangles at import time.
func escrowEvents(d models.Dossier) []models.TimelineEvent {
	state, amount := DeriveEscrowState(d)
	if amount <= 0 {
		return nil
	}

	switch state {
	case models.EscrowStateActive:
		if d.CreatedDate == "" {
			return nil
		}
		return []models.TimelineEvent{{
			Date:   d.CreatedDate,
			Type:   models.TimelineEventEscrowActive,
			Label:  "Escrow active",
			Amount: amount,
		}}
	case models.EscrowStateToBeClaimed:
		date := firstNonEmpty(d.AcceptedDate, d.RefusedDate, d.CancelledDate)
		if date == "" {
			return nil
		}
		return []models.TimelineEvent{{
			Date:   date,
			Type:   models.TimelineEventEscrowToBeClaimed,
			Label:  "Escrow to be claimed",
			Amount: amount,
		}}
	case models.EscrowStateClaimed:
		if d.ClaimDate == "" {
			return nil
		}
		return []models.TimelineEvent{{
			Date:   d.ClaimDate,
			Type:   models.TimelineEventEscrowClaimed,
			Label:  "Escrow claimed",
			Amount: amount,
		}}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
