package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visa_flow_app_go/models"
)

func TestDeriveEscrowState(t *testing.T) {
	tests := []struct {
		name           string
		dossier        models.Dossier
		expectedState  string
		expectedAmount float64
	}{
		{
			name: "Accepted dossier holds nothing even with installments",
			dossier: models.Dossier{
				Accepted:     true,
				EscrowActive: true,
				Installment1: 500,
			},
			expectedState:  models.EscrowStateNone,
			expectedAmount: 0,
		},
		{
			name: "Refused dossier holds nothing",
			dossier: models.Dossier{
				Refused:       true,
				EscrowClaimed: true,
				Installment1:  200,
				Installment2:  300,
			},
			expectedState:  models.EscrowStateNone,
			expectedAmount: 0,
		},
		{
			name: "Cancelled dossier holds nothing",
			dossier: models.Dossier{
				Cancelled:    true,
				EscrowActive: true,
				Installment4: 800,
			},
			expectedState:  models.EscrowStateNone,
			expectedAmount: 0,
		},
		{
			name: "Active escrow sums all installments",
			dossier: models.Dossier{
				EscrowActive: true,
				Installment1: 200,
				Installment2: 300,
			},
			expectedState:  models.EscrowStateActive,
			expectedAmount: 500,
		},
		{
			name: "Claimed takes precedence over other flags",
			dossier: models.Dossier{
				EscrowActive:      true,
				EscrowToBeClaimed: true,
				EscrowClaimed:     true,
				Installment1:      100,
			},
			expectedState:  models.EscrowStateClaimed,
			expectedAmount: 100,
		},
		{
			name: "To be claimed beats active",
			dossier: models.Dossier{
				EscrowActive:      true,
				EscrowToBeClaimed: true,
				Installment3:      450,
			},
			expectedState:  models.EscrowStateToBeClaimed,
			expectedAmount: 450,
		},
		{
			name:           "No flags means no custody",
			dossier:        models.Dossier{Installment1: 900},
			expectedState:  models.EscrowStateNone,
			expectedAmount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, amount := DeriveEscrowState(tt.dossier)
			assert.Equal(t, tt.expectedState, state)
			assert.Equal(t, tt.expectedAmount, amount)
		})
	}
}

func TestApplyEscrowTransition(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Transition emits one history entry", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			EscrowActive:  true,
			Installment1:  500,
		}
		state, entry := ApplyEscrowTransition(d, models.EscrowStateNone, "dossier created", now)
		assert.Equal(t, models.EscrowStateActive, state)
		require.NotNil(t, entry)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "12937", entry.DossierNumber)
		assert.Equal(t, models.EscrowStateNone, entry.PreviousState)
		assert.Equal(t, models.EscrowStateActive, entry.NewState)
		assert.Equal(t, 500.0, entry.Amount)
		assert.Equal(t, now, entry.RecordedAt)
		assert.Equal(t, "dossier created", entry.Cause)
	})

	t.Run("Same state emits nothing", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			EscrowActive:  true,
			Installment1:  500,
		}
		state, entry := ApplyEscrowTransition(d, models.EscrowStateActive, "re-render", now)
		assert.Equal(t, models.EscrowStateActive, state)
		assert.Nil(t, entry)
	})

	t.Run("Resolution drops custody to none", func(t *testing.T) {
		d := models.Dossier{
			DossierNumber: "12937",
			Accepted:      true,
			EscrowActive:  true,
			Installment1:  500,
		}
		state, entry := ApplyEscrowTransition(d, models.EscrowStateActive, "status changed to accepted", now)
		assert.Equal(t, models.EscrowStateNone, state)
		require.NotNil(t, entry)
		assert.Equal(t, models.EscrowStateActive, entry.PreviousState)
		assert.Equal(t, models.EscrowStateNone, entry.NewState)
		assert.Equal(t, 0.0, entry.Amount)
		assert.Equal(t, "status changed to accepted", entry.Cause)
	})

	t.Run("Unknown previous snapshot treated as none", func(t *testing.T) {
		d := models.Dossier{DossierNumber: "12937"}
		state, entry := ApplyEscrowTransition(d, "bogus", "noop", now)
		assert.Equal(t, models.EscrowStateNone, state)
		assert.Nil(t, entry)
	})
}
