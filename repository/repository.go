package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

// ErrNotFound is returned when a document lookup matches nothing.
var ErrNotFound = errors.New("document not found")

// Filter is one conjunctive store predicate. Supported operators are the
// ones in models (=, <, <=, >, >=, in, not-in); there is no OR and no
// nested grouping, matching what the store evaluates natively.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

type Sort struct {
	Field      string
	Descending bool
}

type BatchItem struct {
	ID   string
	Data bson.M
}

// Collection wraps one mongo collection behind the generic document
// repository contract. Every operation is scoped by the restaurant
// partition key; idField names the business identifier ("order_id",
// "coupon_id", ...) that callers address documents by.
type Collection struct {
	coll    *mongo.Collection
	idField string
}

func New(coll *mongo.Collection, idField string) *Collection {
	return &Collection{coll: coll, idField: idField}
}

// BuildFilter translates conjunctive filters into a store predicate.
// Multiple range operators on the same field merge into one clause.
func BuildFilter(restaurantID string, filters []Filter) (bson.M, error) {
	query := bson.M{"restaurant_id": restaurantID}
	for _, f := range filters {
		switch f.Op {
		case models.OpEqual:
			query[f.Field] = f.Value
		case models.OpLess, models.OpLessEqual, models.OpGreater, models.OpGreaterEqual, models.OpIn, models.OpNotIn:
			op := map[string]string{
				models.OpLess:         "$lt",
				models.OpLessEqual:    "$lte",
				models.OpGreater:      "$gt",
				models.OpGreaterEqual: "$gte",
				models.OpIn:           "$in",
				models.OpNotIn:        "$nin",
			}[f.Op]
			clause, ok := query[f.Field].(bson.M)
			if !ok {
				clause = bson.M{}
				query[f.Field] = clause
			}
			clause[op] = f.Value
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	return query, nil
}

func (c *Collection) Create(ctx context.Context, doc interface{}) (string, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

func (c *Collection) FindByID(ctx context.Context, restaurantID, id string, out interface{}) error {
	filter := bson.M{"restaurant_id": restaurantID, c.idField: id}
	err := c.coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *Collection) Update(ctx context.Context, restaurantID, id string, partial bson.M) error {
	filter := bson.M{"restaurant_id": restaurantID, c.idField: id}
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": partial})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, restaurantID, id string) error {
	filter := bson.M{"restaurant_id": restaurantID, c.idField: id}
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindWhere runs a filtered, optionally sorted, limited forward query and
// decodes the full result into out. There is deliberately no skip
// parameter: offset access is emulated above this layer.
func (c *Collection) FindWhere(ctx context.Context, restaurantID string, filters []Filter, sort *Sort, limit int64, out interface{}) error {
	query, err := BuildFilter(restaurantID, filters)
	if err != nil {
		return err
	}

	opts := options.Find()
	if sort != nil {
		dir := 1
		if sort.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: sort.Field, Value: dir}, {Key: "_id", Value: dir}})
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := c.coll.Find(ctx, query, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (c *Collection) Count(ctx context.Context, restaurantID string, filters []Filter) (int64, error) {
	query, err := BuildFilter(restaurantID, filters)
	if err != nil {
		return 0, err
	}
	return c.coll.CountDocuments(ctx, query)
}

// BatchUpdate applies all updates as a single ordered bulk write, atomic as
// a unit per the store's batch guarantee.
func (c *Collection) BatchUpdate(ctx context.Context, restaurantID string, updates []BatchItem) error {
	if len(updates) == 0 {
		return nil
	}
	ops := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		ops = append(ops, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"restaurant_id": restaurantID, c.idField: u.ID}).
			SetUpdate(bson.M{"$set": u.Data}))
	}
	_, err := c.coll.BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(true))
	return err
}

// Push appends value to an array field atomically, avoiding the lost-update
// race a read-modify-write sequence would have. set carries additional
// plain-field writes (timestamps) applied in the same operation; it may be
// nil.
func (c *Collection) Push(ctx context.Context, restaurantID, id, field string, value interface{}, set bson.M) error {
	filter := bson.M{"restaurant_id": restaurantID, c.idField: id}
	update := bson.M{"$push": bson.M{field: value}}
	if len(set) > 0 {
		update["$set"] = set
	}
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle flips a boolean field server-side with a pipeline update, so two
// concurrent toggles land as two flips instead of last-writer-wins.
func (c *Collection) Toggle(ctx context.Context, restaurantID, id, field string) error {
	filter := bson.M{"restaurant_id": restaurantID, c.idField: id}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{field: bson.M{"$not": "$" + field}}}},
	}
	res, err := c.coll.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
