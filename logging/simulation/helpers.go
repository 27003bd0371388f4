// Package simulation carries the host-side timing events published around the
// tick loop.
package simulation

import (
	"context"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/logging"
)

const (
	// EventTickBudgetOverrun is emitted when a tick exceeds the loop budget.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
	// EventTickAborted is emitted when a hook failure aborts a tick.
	EventTickAborted logging.EventType = "simulation.tick_aborted"
)

// TickBudgetOverrunPayload captures timing details for a budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
}

// TickBudgetOverrun publishes a warning when a tick exceeds the loop budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}

// TickAbortedPayload names the failure that rolled a tick back.
type TickAbortedPayload struct {
	Reason string `json:"reason"`
}

// TickAborted publishes an error when a pre- or resolve-phase hook failure
// aborts a tick before commit.
func TickAborted(ctx context.Context, pub logging.Publisher, tick uint64, payload TickAbortedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTickAborted,
		Tick:     tick,
		Severity: logging.SeverityError,
		Category: logging.CategorySimulation,
		Payload:  payload,
	})
}
