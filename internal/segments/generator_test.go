package segments

import (
	"strings"
	"testing"

	"backend/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEmitsEveryOrderedPair(t *testing.T) {
	route := models.Route{
		ID:          1,
		Origin:      "Acapulco",
		Stops:       []string{"Chilpancingo", "Cuernavaca"},
		Destination: "CDMX",
	}

	got := Generator{}.Generate(route)

	// 4 waypoints, no same-city pairs: 4*3/2 segments, each i<j pair once.
	require.Len(t, got, 6)
	assert.Equal(t, []models.Segment{
		{Origin: "Acapulco", Destination: "Chilpancingo"},
		{Origin: "Acapulco", Destination: "Cuernavaca"},
		{Origin: "Acapulco", Destination: "CDMX"},
		{Origin: "Chilpancingo", Destination: "Cuernavaca"},
		{Origin: "Chilpancingo", Destination: "CDMX"},
		{Origin: "Cuernavaca", Destination: "CDMX"},
	}, got)
}

func TestGenerateSkipsSameCityPairs(t *testing.T) {
	route := models.Route{
		ID:          2,
		Origin:      "Acapulco - Centro",
		Stops:       []string{"Acapulco - Terminal"},
		Destination: "CDMX - Norte",
	}

	got := Generator{}.Generate(route)

	assert.Equal(t, []models.Segment{
		{Origin: "Acapulco - Centro", Destination: "CDMX - Norte"},
		{Origin: "Acapulco - Terminal", Destination: "CDMX - Norte"},
	}, got)
}

func TestGenerateDegenerateRouteFallsBackToDirectSegment(t *testing.T) {
	route := models.Route{
		ID:          3,
		Origin:      "CDMX - Norte",
		Stops:       []string{"CDMX - Centro"},
		Destination: "CDMX - Sur",
	}

	got := Generator{}.Generate(route)

	// Every pair shares the city; exactly the direct run must survive so the
	// route is still sellable.
	assert.Equal(t, []models.Segment{
		{Origin: "CDMX - Norte", Destination: "CDMX - Sur"},
	}, got)
}

func TestGenerateWithCustomCityFunc(t *testing.T) {
	route := models.Route{
		ID:          4,
		Origin:      "A/1",
		Stops:       []string{"A/2"},
		Destination: "B/1",
	}

	gen := Generator{City: func(name string) string {
		return strings.SplitN(name, "/", 2)[0]
	}}
	got := gen.Generate(route)

	assert.Equal(t, []models.Segment{
		{Origin: "A/1", Destination: "B/1"},
		{Origin: "A/2", Destination: "B/1"},
	}, got)
}

func TestCityOf(t *testing.T) {
	assert.Equal(t, "Acapulco", CityOf("Acapulco - Centro"))
	assert.Equal(t, "Pekanbaru", CityOf("Pekanbaru"))
	assert.Equal(t, "A", CityOf("A - B - C"))
}

func TestContains(t *testing.T) {
	route := models.Route{
		ID:          5,
		Origin:      "A",
		Stops:       []string{"B"},
		Destination: "C",
	}
	gen := Generator{}

	assert.True(t, gen.Contains(route, models.Segment{Origin: "A", Destination: "B"}))
	assert.True(t, gen.Contains(route, models.Segment{Origin: "B", Destination: "C"}))
	// Reversed order is not a generated segment.
	assert.False(t, gen.Contains(route, models.Segment{Origin: "C", Destination: "A"}))
	assert.False(t, gen.Contains(route, models.Segment{Origin: "A", Destination: "X"}))
}
