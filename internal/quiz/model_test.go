package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerUnmarshal(t *testing.T) {
	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`"b"`), &a))
	assert.False(t, a.Multi)
	assert.Equal(t, "b", a.Single())

	require.NoError(t, json.Unmarshal([]byte(`["a","c"]`), &a))
	assert.True(t, a.Multi)
	assert.Equal(t, []string{"a", "c"}, a.Values)

	require.NoError(t, json.Unmarshal([]byte(`true`), &a))
	assert.False(t, a.Multi)
	assert.Equal(t, "true", a.Single())

	assert.Error(t, json.Unmarshal([]byte(`42`), &a))
}

func TestAnswerMarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(Answer{Values: []string{"b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `"b"`, string(data))

	data, err = json.Marshal(Answer{Values: []string{"a", "b"}, Multi: true})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))
}
