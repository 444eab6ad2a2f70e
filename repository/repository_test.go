package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/restrolabs/Restro_Ordering_Backend/models"
)

func TestBuildFilterAlwaysScopesToRestaurant(t *testing.T) {
	query, err := BuildFilter("r1", nil)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"restaurant_id": "r1"}, query)
}

func TestBuildFilterOperators(t *testing.T) {
	query, err := BuildFilter("r1", []Filter{
		{Field: "status", Op: models.OpEqual, Value: "placed"},
		{Field: "channel", Op: models.OpIn, Value: []string{"dine_in", "takeaway"}},
		{Field: "table_id", Op: models.OpNotIn, Value: []string{"t9"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "placed", query["status"])
	assert.Equal(t, bson.M{"$in": []string{"dine_in", "takeaway"}}, query["channel"])
	assert.Equal(t, bson.M{"$nin": []string{"t9"}}, query["table_id"])
}

func TestBuildFilterMergesRangeClauses(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	query, err := BuildFilter("r1", []Filter{
		{Field: "created_at", Op: models.OpGreaterEqual, Value: from},
		{Field: "created_at", Op: models.OpLessEqual, Value: to},
	})
	require.NoError(t, err)

	// Both bounds land in one clause on the field.
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, query["created_at"])
}

func TestBuildFilterRejectsUnknownOperator(t *testing.T) {
	_, err := BuildFilter("r1", []Filter{
		{Field: "status", Op: "contains", Value: "placed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains")
}
