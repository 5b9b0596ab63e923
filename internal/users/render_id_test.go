package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRenderID(t *testing.T) {
	oid := bson.NewObjectID()
	cases := map[string]struct {
		value any
		want  string
	}{
		"object id": {value: oid, want: oid.Hex()},
		"string":    {value: "legacy-1", want: "legacy-1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			data, err := bson.Marshal(bson.D{{Key: "_id", Value: tc.value}})
			require.NoError(t, err)
			assert.Equal(t, tc.want, RenderID(bson.Raw(data).Lookup("_id")))
		})
	}

	data, err := bson.Marshal(bson.D{{Key: "_id", Value: int32(42)}})
	require.NoError(t, err)
	assert.Contains(t, RenderID(bson.Raw(data).Lookup("_id")), "42")
}
