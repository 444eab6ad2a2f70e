package services

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

// allowedTransitions is the order state machine: the forward happy path
// placed -> confirmed -> in_preparation -> ready -> served -> closed, with
// canceled reachable from every non-terminal state. closed and canceled are
// terminal.
var allowedTransitions = map[string][]string{
	models.StatusDraft:         {models.StatusPlaced, models.StatusCanceled},
	models.StatusPlaced:        {models.StatusConfirmed, models.StatusCanceled},
	models.StatusConfirmed:     {models.StatusInPreparation, models.StatusCanceled},
	models.StatusInPreparation: {models.StatusReady, models.StatusCanceled},
	models.StatusReady:         {models.StatusServed, models.StatusCanceled},
	models.StatusServed:        {models.StatusClosed, models.StatusCanceled},
	models.StatusClosed:        {},
	models.StatusCanceled:      {},
}

func IsValidStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func IsTerminal(status string) bool {
	return status == models.StatusClosed || status == models.StatusCanceled
}

func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates the requested status change against the current
// order state and returns the partial update to persist. A nil partial with
// a nil error means the request is an idempotent re-entry into a terminal
// state and nothing must be written; in particular closed_at is set exactly
// once and never overwritten.
func Transition(order *models.Order, to string, now time.Time) (bson.M, error) {
	if !IsValidStatus(to) {
		return nil, apperrors.Validation("unknown order status %q", to)
	}

	if order.Status == to && IsTerminal(to) {
		return nil, nil
	}

	if !CanTransition(order.Status, to) {
		return nil, apperrors.Conflict("cannot move order from %s to %s", order.Status, to)
	}

	partial := bson.M{
		"status":     to,
		"updated_at": now,
	}
	if IsTerminal(to) && order.Closed_at == nil {
		partial["closed_at"] = now
	}
	return partial, nil
}
