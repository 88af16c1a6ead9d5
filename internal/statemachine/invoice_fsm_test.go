package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teadealer/teadealer-api/internal/models"
)

func TestInvoiceFSMTransitions(t *testing.T) {
	ctx := context.Background()

	inv := &models.Invoice{Status: models.InvoiceStatusGenerated}
	f := NewInvoiceFSM(inv)

	assert.NoError(t, f.MarkPaid(ctx))
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)

	f = NewInvoiceFSM(inv)
	assert.NoError(t, f.Cancel(ctx))
	assert.Equal(t, models.InvoiceStatusCancelled, inv.Status)

	f = NewInvoiceFSM(inv)
	assert.NoError(t, f.Reopen(ctx))
	assert.Equal(t, models.InvoiceStatusGenerated, inv.Status)
}

func TestInvoiceFSMTransitionTo(t *testing.T) {
	ctx := context.Background()

	inv := &models.Invoice{Status: models.InvoiceStatusGenerated}
	f := NewInvoiceFSM(inv)

	// target equals current state: no-op
	assert.NoError(t, f.TransitionTo(ctx, models.InvoiceStatusGenerated))
	assert.Equal(t, models.InvoiceStatusGenerated, inv.Status)

	assert.NoError(t, f.TransitionTo(ctx, models.InvoiceStatusCancelled))
	assert.Equal(t, models.InvoiceStatusCancelled, inv.Status)

	f = NewInvoiceFSM(inv)
	assert.NoError(t, f.TransitionTo(ctx, models.InvoiceStatusPaid))
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)

	f = NewInvoiceFSM(inv)
	assert.Error(t, f.TransitionTo(ctx, "SHIPPED"))
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
}
