package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa_flow_app_go/models"
)

func TestBuildTimelineUndatedFactsExcluded(t *testing.T) {
	d := models.Dossier{
		DossierNumber: "12937",
		Installment1:  100,
	}
	events := BuildTimeline(d)
	assert.Empty(t, events)
}

func TestBuildTimelinePaymentEvents(t *testing.T) {
	d := models.Dossier{
		DossierNumber: "12937",
		Installment1:  100,
		PaymentDate1:  "2024-01-10",
		PaymentMode1:  "wire",
		Installment2:  250, // no payment date: excluded
		Installment3:  0,
		PaymentDate3:  "2024-02-01", // zero amount: excluded
	}
	events := BuildTimeline(d)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-01-10", events[0].Date)
	assert.Equal(t, models.TimelineEventPayment, events[0].Type)
	assert.Equal(t, "Payment installment 1", events[0].Label)
	assert.Equal(t, 100.0, events[0].Amount)
	assert.Equal(t, "wire", events[0].Note)
}

func TestBuildTimelineStatusEvents(t *testing.T) {
	d := models.Dossier{
		DossierNumber: "12937",
		CreatedDate:   "2024-01-02",
		SentDate:      "2024-01-15",
		AcceptedDate:  "2024-04-20",
		RFEDate:       "2024-03-01",
	}
	events := BuildTimeline(d)
	require.Len(t, events, 4)

	labels := make([]string, 0, len(events))
	for _, e := range events {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"Dossier created", "Dossier sent", "RFE received", "Dossier accepted"}, labels)

	assert.True(t, sort.SliceIsSorted(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	}))
}

func TestBuildTimelineEscrowEvents(t *testing.T) {
	t.Run("Active escrow dated at creation", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			CreatedDate:   "2024-01-02",
			EscrowActive:  true,
			Installment1:  500,
		}
		events := BuildTimeline(d)
		require.Len(t, events, 2)
		assert.Equal(t, models.TimelineEventEscrowActive, events[1].Type)
		assert.Equal(t, "2024-01-02", events[1].Date)
		assert.Equal(t, 500.0, events[1].Amount)
	})

	t.Run("To be claimed dated at first terminal status date", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber:     "12937",
			EscrowToBeClaimed: true,
			Installment1:      500,
			RefusedDate:       "2024-05-01", // flag not set: status stays unresolved
		}
		events := BuildTimeline(d)

		var escrow *models.TimelineEvent
		for i := range events {
			if events[i].Type == models.TimelineEventEscrowToBeClaimed {
				escrow = &events[i]
			}
		}
		require.NotNil(t, escrow)
		assert.Equal(t, "2024-05-01", escrow.Date)
	})

	t.Run("Claimed uses the dedicated claim date, not the RFE date", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			EscrowClaimed: true,
			Installment1:  500,
			RFEDate:       "2024-03-01",
			ClaimDate:     "2024-06-15",
		}
		events := BuildTimeline(d)

		var escrow *models.TimelineEvent
		for i := range events {
			if events[i].Type == models.TimelineEventEscrowClaimed {
				escrow = &events[i]
			}
		}
		require.NotNil(t, escrow)
		assert.Equal(t, "2024-06-15", escrow.Date)
	})

	t.Run("Claimed without a claim date is excluded", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			EscrowClaimed: true,
			Installment1:  500,
			RFEDate:       "2024-03-01",
		}
		for _, e := range BuildTimeline(d) {
			assert.NotEqual(t, models.TimelineEventEscrowClaimed, e.Type)
		}
	})

	t.Run("Resolved dossier emits no escrow event", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			CreatedDate:   "2024-01-02",
			Accepted:      true,
			AcceptedDate:  "2024-04-20",
			EscrowActive:  true,
			Installment1:  500,
		}
		for _, e := range BuildTimeline(d) {
			assert.NotEqual(t, models.TimelineEventEscrowActive, e.Type)
		}
	})
}

func TestBuildTimelineTieOrder(t *testing.T) {
	// Same-day events keep enumeration order: creation, payment, status.
	d := models.Dossier{
		DossierNumber: "12937",
		CreatedDate:   "2024-01-10",
		Installment1:  100,
		PaymentDate1:  "2024-01-10",
		SentDate:      "2024-01-10",
	}
	events := BuildTimeline(d)
	require.Len(t, events, 3)
	assert.Equal(t, models.TimelineEventCreated, events[0].Type)
	assert.Equal(t, models.TimelineEventPayment, events[1].Type)
	assert.Equal(t, models.TimelineEventStatus, events[2].Type)
}
