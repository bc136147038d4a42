package segments

import (
	"testing"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overlapRoute() models.Route {
	return models.Route{
		ID:          1,
		Origin:      "A",
		Stops:       []string{"B", "C"},
		Destination: "D",
	}
}

func seg(o, d string) models.Segment {
	return models.Segment{Origin: o, Destination: d}
}

func TestOverlapsTouchingSegmentsDoNotOverlap(t *testing.T) {
	route := overlapRoute()

	// [A,B) and [B,D) meet at B but share no travelled distance.
	got, err := Overlaps(route, seg("A", "B"), seg("B", "D"))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestOverlapsSharedStretch(t *testing.T) {
	route := overlapRoute()

	// Both contain the physical stretch B–C.
	got, err := Overlaps(route, seg("A", "C"), seg("B", "D"))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestOverlapsContainment(t *testing.T) {
	route := overlapRoute()

	got, err := Overlaps(route, seg("A", "D"), seg("B", "C"))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestOverlapsIsSymmetric(t *testing.T) {
	route := overlapRoute()
	pairs := [][2]models.Segment{
		{seg("A", "B"), seg("B", "D")},
		{seg("A", "C"), seg("B", "D")},
		{seg("A", "D"), seg("B", "C")},
		{seg("A", "B"), seg("C", "D")},
	}

	for _, p := range pairs {
		ab, err := Overlaps(route, p[0], p[1])
		require.NoError(t, err)
		ba, err := Overlaps(route, p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba, "overlaps(%v,%v) must equal overlaps(%v,%v)", p[0], p[1], p[1], p[0])
	}
}

func TestOverlapsIsReflexive(t *testing.T) {
	route := overlapRoute()

	got, err := Overlaps(route, seg("B", "C"), seg("B", "C"))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestOverlapsNormalizesReversedSegment(t *testing.T) {
	route := overlapRoute()

	// Malformed row with destination before origin still resolves.
	got, err := Overlaps(route, seg("C", "A"), seg("B", "D"))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestOverlapsUnknownWaypointIsInvalidSegment(t *testing.T) {
	route := overlapRoute()

	_, err := Overlaps(route, seg("A", "X"), seg("B", "D"))
	require.Error(t, err)
	assert.True(t, domain.IsInvalidSegment(err))
}

func TestResolveOrdersIndices(t *testing.T) {
	route := overlapRoute()

	sp, err := resolve(route, seg("D", "B"))
	require.NoError(t, err)
	assert.Equal(t, 1, sp.Start)
	assert.Equal(t, 3, sp.End)
}
