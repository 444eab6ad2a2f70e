package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/restrolabs/Restro_Ordering_Backend/repository"
)

// DocumentStore is the slice of the generic document repository the engine
// consumes. It matches repository.Collection; tests substitute an in-memory
// implementation. Note there is no offset/skip operation and no free-text
// search: both are emulated above this contract.
type DocumentStore interface {
	Create(ctx context.Context, doc interface{}) (string, error)
	FindByID(ctx context.Context, restaurantID, id string, out interface{}) error
	Update(ctx context.Context, restaurantID, id string, partial bson.M) error
	Delete(ctx context.Context, restaurantID, id string) error
	FindWhere(ctx context.Context, restaurantID string, filters []repository.Filter, sort *repository.Sort, limit int64, out interface{}) error
	Count(ctx context.Context, restaurantID string, filters []repository.Filter) (int64, error)
	BatchUpdate(ctx context.Context, restaurantID string, updates []repository.BatchItem) error
	Push(ctx context.Context, restaurantID, id, field string, value interface{}, set bson.M) error
	Toggle(ctx context.Context, restaurantID, id, field string) error
}

// EventPublisher pushes order lifecycle events to interested consumers.
// Publishing is best-effort; delivery guarantees are out of scope.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}
