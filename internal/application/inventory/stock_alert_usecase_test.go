package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
)

func TestAlertRunCheck_LevantaAlertasPorCondicion(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "0", "10")  // sin existencias
	f.store.seedItem("item-2", "COD-CU-34", "4", "5")    // bajo el reorden
	f.store.seedItem("item-3", "VAL-BR-1", "100", "10")  // sano
	ctx := context.Background()

	resp, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ItemsEvaluated)
	assert.Equal(t, 2, resp.AlertsRaised)

	open, err := f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)

	byItem := map[string]*dto.AlertResponse{}
	for _, a := range open {
		byItem[a.ItemID] = a
	}
	assert.Equal(t, entity.AlertTypeOutOfStock, byItem["item-1"].AlertType)
	assert.Equal(t, entity.AlertSeverityCritical, byItem["item-1"].Severity)
	assert.Equal(t, entity.AlertTypeLowStock, byItem["item-2"].AlertType)
	assert.Equal(t, entity.AlertSeverityWarning, byItem["item-2"].Severity)
}

func TestAlertRunCheck_EsIdempotente(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "0", "10")
	ctx := context.Background()

	first, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	assert.Equal(t, 1, first.AlertsRaised)

	second, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	assert.Equal(t, 0, second.AlertsRaised, "la alerta abierta del mismo tipo no se duplica")

	open, err := f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestAlertRunCheck_ResueltaSeVuelveALevantar(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "0", "10")
	ctx := context.Background()

	_, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	open, err := f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)

	// resolver sin corregir la causa: el siguiente chequeo la vuelve a abrir
	_, err = f.alertUC.Resolve(ctx, orgA, user1, open[0].ID, dto.ResolveAlertRequest{})
	require.NoError(t, err)

	again, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	assert.Equal(t, 1, again.AlertsRaised)
}

func TestAlertAcknowledge_UnaSolaVez(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "0", "10")
	ctx := context.Background()

	_, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	open, err := f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	alertID := open[0].ID

	acked, err := f.alertUC.Acknowledge(ctx, orgA, user1, alertID)
	require.NoError(t, err)
	assert.True(t, acked.IsAcknowledged)
	assert.Equal(t, user1, acked.AcknowledgedBy)
	require.NotNil(t, acked.AcknowledgedAt)

	_, err = f.alertUC.Acknowledge(ctx, orgA, user1, alertID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// reconocida sigue abierta
	open, err = f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestAlertResolve_EsTerminal(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "0", "10")
	ctx := context.Background()

	_, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	open, err := f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	alertID := open[0].ID

	// resolver no exige reconocimiento previo
	resolved, err := f.alertUC.Resolve(ctx, orgA, user1, alertID, dto.ResolveAlertRequest{
		Notes: "se recibió la orden OC-2026-ABC123",
	})
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	assert.Equal(t, "se recibió la orden OC-2026-ABC123", resolved.ResolutionNotes)

	// doble resolución y reconocimiento posterior: inválidos
	_, err = f.alertUC.Resolve(ctx, orgA, user1, alertID, dto.ResolveAlertRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.alertUC.Acknowledge(ctx, orgA, user1, alertID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// y desaparece de las abiertas
	open, err = f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestAlert_OrganizacionAjena(t *testing.T) {
	f := newFixture()
	f.store.seedItem("item-1", "TUB-PVC-12", "0", "10")
	ctx := context.Background()

	_, err := f.alertUC.RunCheck(ctx, orgA)
	require.NoError(t, err)
	open, err := f.alertUC.ListOpen(ctx, orgA, 50, 0)
	require.NoError(t, err)

	_, err = f.alertUC.Acknowledge(ctx, orgB, user1, open[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.alertUC.Resolve(ctx, orgB, user1, open[0].ID, dto.ResolveAlertRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	otros, err := f.alertUC.ListOpen(ctx, orgB, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, otros, "las alertas no se filtran entre organizaciones")
}
