// Package fiscal drives the shift-aware fiscalization flows: one receipt
// per order with a single open-shift-and-retry cycle, and the end-of-day
// shift-closing sweep.
package fiscal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"checkbox-fiscalizer/internal/checkbox"
	"checkbox-fiscalizer/internal/config"
	"checkbox-fiscalizer/internal/orders"
	"checkbox-fiscalizer/internal/receipt"

	"go.uber.org/zap"
)

// Past this UTC hour a shift is not left open after a successful receipt.
// Chosen so the shift closes by end of day in the operator's timezone
// regardless of daylight saving.
const nightlyCloseHour = 20

var ErrMissingCredentials = errors.New("checkbox cashier pin or license key is not configured")

// API is the slice of the Checkbox client the orchestrator needs.
// *checkbox.Client satisfies it.
type API interface {
	SignIn(ctx context.Context, pin string) (checkbox.Session, error)
	CurrentShift(ctx context.Context, session checkbox.Session) (*checkbox.Shift, error)
	OpenShift(ctx context.Context, session checkbox.Session) (*checkbox.Shift, error)
	CloseShift(ctx context.Context, session checkbox.Session) error
	CreateReceipt(ctx context.Context, session checkbox.Session, payload checkbox.ReceiptPayload, kind checkbox.ReceiptKind) (checkbox.Receipt, error)
}

type SweepResult struct {
	Closed  bool   `json:"closed"`
	Message string `json:"message"`
}

type Orchestrator struct {
	api    API
	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time
}

func NewOrchestrator(cfg config.Config, client *checkbox.Client, logger *zap.Logger) *Orchestrator {
	return newOrchestrator(cfg, client, logger, time.Now)
}

func newOrchestrator(cfg config.Config, api API, logger *zap.Logger, now func() time.Time) *Orchestrator {
	return &Orchestrator{
		api:    api,
		cfg:    cfg,
		logger: logger.Named("fiscal"),
		now:    now,
	}
}

// Fiscalize signs the cashier in, submits a receipt for the order and, past
// the nightly cutoff, closes the shift best-effort. The first fatal error
// aborts the remaining steps.
func (o *Orchestrator) Fiscalize(ctx context.Context, order orders.Order) (checkbox.Receipt, error) {
	if !o.cfg.HasCredentials() {
		return checkbox.Receipt{}, ErrMissingCredentials
	}

	session, err := o.api.SignIn(ctx, o.cfg.CashierPIN)
	if err != nil {
		return checkbox.Receipt{}, fmt.Errorf("cashier sign-in: %w", err)
	}

	payload := receipt.Build(order)
	kind := receipt.Kind(order)
	o.logger.Info("fiscalizing order",
		zap.String("order_number", order.Number.String()),
		zap.String("kind", string(kind)),
	)

	rcpt, err := o.submit(ctx, session, payload, kind)
	if err != nil {
		return checkbox.Receipt{}, err
	}

	if shouldForceClose(o.now()) {
		// Best-effort: the receipt is already fiscalized, a close
		// failure must not fail the invocation.
		if closeErr := o.closeShift(ctx, session); closeErr != nil {
			o.logger.Warn("nightly shift close failed", zap.Error(closeErr))
		} else {
			o.logger.Info("shift closed after nightly cutoff")
		}
	}

	return rcpt, nil
}

// submit sends the receipt and, when the upstream reports a closed shift,
// opens one and resubmits the identical payload exactly once. No third
// attempt is ever made.
func (o *Orchestrator) submit(ctx context.Context, session checkbox.Session, payload checkbox.ReceiptPayload, kind checkbox.ReceiptKind) (checkbox.Receipt, error) {
	rcpt, err := o.api.CreateReceipt(ctx, session, payload, kind)
	if err == nil {
		return rcpt, nil
	}
	if !isShiftNotOpened(err) {
		return checkbox.Receipt{}, fmt.Errorf("submitting receipt: %w", err)
	}

	o.logger.Info("shift not opened, opening and retrying once")
	if openErr := o.openShift(ctx, session); openErr != nil {
		return checkbox.Receipt{}, fmt.Errorf("opening shift for retry: %w", openErr)
	}

	rcpt, err = o.api.CreateReceipt(ctx, session, payload, kind)
	if err != nil {
		return checkbox.Receipt{}, fmt.Errorf("resubmitting receipt: %w", err)
	}
	return rcpt, nil
}

// ShiftSweep closes the current shift if one is open. Run from the cron
// entry point so no shift survives overnight.
func (o *Orchestrator) ShiftSweep(ctx context.Context) (SweepResult, error) {
	if !o.cfg.HasCredentials() {
		return SweepResult{}, ErrMissingCredentials
	}

	session, err := o.api.SignIn(ctx, o.cfg.CashierPIN)
	if err != nil {
		return SweepResult{}, fmt.Errorf("cashier sign-in: %w", err)
	}

	shift, err := o.api.CurrentShift(ctx, session)
	if err != nil {
		// The close below is idempotent, so a failed status read does
		// not stop the sweep.
		o.logger.Warn("shift status check failed, attempting close anyway", zap.Error(err))
	} else {
		if shift == nil {
			return SweepResult{Message: "no active shift"}, nil
		}
		if shift.Status == checkbox.ShiftStatusClosed {
			return SweepResult{Message: "shift already closed"}, nil
		}
		o.logger.Info("closing open shift", zap.String("shift_id", shift.ID))
	}

	if err := o.closeShift(ctx, session); err != nil {
		return SweepResult{}, fmt.Errorf("closing shift: %w", err)
	}
	return SweepResult{Closed: true, Message: "shift closed"}, nil
}

// openShift treats "already opened" as success: a concurrent invocation or
// a manual cashier action may have won the race.
func (o *Orchestrator) openShift(ctx context.Context, session checkbox.Session) error {
	_, err := o.api.OpenShift(ctx, session)
	if err != nil && checkbox.IsCode(err, checkbox.CodeShiftAlreadyOpened) {
		o.logger.Info("shift already opened elsewhere")
		return nil
	}
	return err
}

// closeShift treats "shift not opened" as success: there was nothing to
// close.
func (o *Orchestrator) closeShift(ctx context.Context, session checkbox.Session) error {
	err := o.api.CloseShift(ctx, session)
	if err != nil && checkbox.IsCode(err, checkbox.CodeShiftNotOpened) {
		return nil
	}
	return err
}

func isShiftNotOpened(err error) bool {
	status := checkbox.StatusOf(err)
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError &&
		checkbox.IsCode(err, checkbox.CodeShiftNotOpened)
}

func shouldForceClose(now time.Time) bool {
	return now.UTC().Hour() >= nightlyCloseHour
}
