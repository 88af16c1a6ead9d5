package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/teadealer/teadealer-api/internal/models"
)

// InvoiceFSM wraps an invoice with its state machine
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

// NewInvoiceFSM creates a new invoice state machine
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	ifsm := &InvoiceFSM{
		invoice: invoice,
	}

	ifsm.fsm = fsm.NewFSM(
		invoice.Status,
		fsm.Events{
			// generated/cancelled → paid
			{Name: "mark_paid", Src: []string{models.InvoiceStatusGenerated, models.InvoiceStatusCancelled}, Dst: models.InvoiceStatusPaid},

			// generated/paid → cancelled
			{Name: "cancel", Src: []string{models.InvoiceStatusGenerated, models.InvoiceStatusPaid}, Dst: models.InvoiceStatusCancelled},

			// paid/cancelled → generated (undo a settlement or a cancellation)
			{Name: "reopen", Src: []string{models.InvoiceStatusPaid, models.InvoiceStatusCancelled}, Dst: models.InvoiceStatusGenerated},
		},
		fsm.Callbacks{},
	)

	return ifsm
}

// MarkPaid transitions invoice to paid state
func (i *InvoiceFSM) MarkPaid(ctx context.Context) error {
	if err := i.fsm.Event(ctx, "mark_paid"); err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Cancel transitions invoice to cancelled state
func (i *InvoiceFSM) Cancel(ctx context.Context) error {
	if err := i.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel invoice: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Reopen transitions invoice back to generated state
func (i *InvoiceFSM) Reopen(ctx context.Context) error {
	if err := i.fsm.Event(ctx, "reopen"); err != nil {
		return fmt.Errorf("failed to reopen invoice: %w", err)
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// TransitionTo moves the invoice to the target status, picking the matching
// event. A no-op when the invoice is already in the target status.
func (i *InvoiceFSM) TransitionTo(ctx context.Context, target string) error {
	if i.invoice.Status == target {
		return nil
	}
	switch target {
	case models.InvoiceStatusPaid:
		return i.MarkPaid(ctx)
	case models.InvoiceStatusCancelled:
		return i.Cancel(ctx)
	case models.InvoiceStatusGenerated:
		return i.Reopen(ctx)
	default:
		return fmt.Errorf("unknown invoice status: %s", target)
	}
}

// Current returns the current state
func (i *InvoiceFSM) Current() string {
	return i.fsm.Current()
}

// Can checks if a transition is possible
func (i *InvoiceFSM) Can(event string) bool {
	return i.fsm.Can(event)
}
