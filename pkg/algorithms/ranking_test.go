package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopN(t *testing.T) {
	scores := map[string]float64{
		"a": 0.1, "b": 0.9, "c": 0.5, "d": 0.5, "e": 0.7,
	}

	top := TopN(scores, 3)
	assert.Equal(t, []RankedNode{
		{NodeID: "b", Score: 0.9},
		{NodeID: "e", Score: 0.7},
		{NodeID: "c", Score: 0.5},
	}, top, "ties resolve to the lower id")

	assert.Len(t, TopN(scores, 10), 5)
	assert.Empty(t, TopN(scores, 0))
	assert.Empty(t, TopN(nil, 5))
}

func TestTopN_AllEqual(t *testing.T) {
	scores := map[string]float64{"z": 1, "y": 1, "x": 1, "w": 1}
	top := TopN(scores, 2)
	assert.Equal(t, "w", top[0].NodeID)
	assert.Equal(t, "x", top[1].NodeID)
}
