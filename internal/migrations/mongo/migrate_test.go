package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollections(t *testing.T) {
	defs := Collections()

	assert.ElementsMatch(t,
		[]string{UsersCollection, BookingsCollection, BookingLocksCollection},
		keys(defs))

	for name, def := range defs {
		assert.NotEmpty(t, def.Indexes, name)
		require.Contains(t, def.Validator, "$jsonSchema", name)
	}
}

func TestBookingLocks_ExpireByTTL(t *testing.T) {
	idx := Collections()[BookingLocksCollection].Indexes
	require.Len(t, idx, 1)

	assert.Equal(t, bson.D{{Key: "expires_at", Value: 1}}, idx[0].Keys)
	require.NotNil(t, idx[0].Options)
	require.NotNil(t, idx[0].Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx[0].Options.ExpireAfterSeconds)
}

func TestBookings_OverlapIndexLeadsWithHost(t *testing.T) {
	idx := Collections()[BookingsCollection].Indexes
	keys := idx[0].Keys.(bson.D)

	assert.Equal(t, "host_id", keys[0].Key)
	assert.Equal(t, "start_at", keys[1].Key)
}

func keys(m map[string]CollectionDefinition) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
