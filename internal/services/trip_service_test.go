package services

import (
	"context"
	"testing"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectRouteReads(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT id, origin, destination`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination"}).AddRow(7, "A", "D"))
	mock.ExpectQuery(`FROM route_stops`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("B").AddRow("C"))
}

func publishInput() PublishTripInput {
	return PublishTripInput{
		RouteID:       7,
		DepartureDate: "2025-06-01",
		DepartureTime: "08:00",
		ArrivalTime:   "12:30",
		Capacity:      10,
		Segments: []models.Segment{
			{Origin: "A", Destination: "C"},
			{Origin: "B", Destination: "D"},
		},
	}
}

func TestPublishTripCreatesHierarchyInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectRouteReads(mock)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO trips`).
		WithArgs(int64(7), "2025-06-01", "08:00", "12:30", 10, 10, false, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO trips`).
		WithArgs(int64(7), "2025-06-01", "08:00", "12:30", 10, 10, true, int64(1), "A", "C").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`INSERT INTO trips`).
		WithArgs(int64(7), "2025-06-01", "08:00", "12:30", 10, 10, true, int64(1), "B", "D").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	svc := TripService{DB: db}
	hier, err := svc.PublishTrip(context.Background(), publishInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), hier.Main.ID)
	assert.Equal(t, 10, hier.Main.AvailableSeats)
	require.Len(t, hier.SubTrips, 2)
	for _, sub := range hier.SubTrips {
		assert.True(t, sub.IsSubTrip)
		require.NotNil(t, sub.ParentTripID)
		assert.Equal(t, int64(1), *sub.ParentTripID)
		assert.Equal(t, 10, sub.AvailableSeats)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishTripRejectsFullRunSegment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectRouteReads(mock)

	in := publishInput()
	in.Segments = []models.Segment{{Origin: "A", Destination: "D"}}

	svc := TripService{DB: db}
	_, err = svc.PublishTrip(context.Background(), in)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishTripRejectsDuplicateSegment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectRouteReads(mock)

	in := publishInput()
	in.Segments = []models.Segment{
		{Origin: "A", Destination: "C"},
		{Origin: "A", Destination: "C"},
	}

	svc := TripService{DB: db}
	_, err = svc.PublishTrip(context.Background(), in)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishTripRejectsSegmentOutsideRoute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectRouteReads(mock)

	in := publishInput()
	// Reversed direction is not a sellable segment.
	in.Segments = []models.Segment{{Origin: "C", Destination: "A"}}

	svc := TripService{DB: db}
	_, err = svc.PublishTrip(context.Background(), in)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishTripValidatesSchedule(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PublishTripInput)
	}{
		{"bad date", func(in *PublishTripInput) { in.DepartureDate = "01-06-2025" }},
		{"bad time", func(in *PublishTripInput) { in.DepartureTime = "8 pagi" }},
		{"bad arrival", func(in *PublishTripInput) { in.ArrivalTime = "25:00" }},
		{"zero capacity", func(in *PublishTripInput) { in.Capacity = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			expectRouteReads(mock)

			in := publishInput()
			tc.mutate(&in)

			svc := TripService{DB: db}
			_, err = svc.PublishTrip(context.Background(), in)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPublishTripUnknownRoute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, origin, destination`).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination"}))

	svc := TripService{DB: db}
	_, err = svc.PublishTrip(context.Background(), publishInput())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripDetailResolvesParentHierarchy(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	booked := addTripRow(sqlmock.NewRows(tripRowColumns()), 3, 10, true, 1, "B", "D")
	mock.ExpectQuery(`FROM trips WHERE id = \? LIMIT 1`).WithArgs(int64(3)).WillReturnRows(booked)

	hier := sqlmock.NewRows(tripRowColumns())
	addTripRow(hier, 1, 10, false, 0, "", "")
	addTripRow(hier, 3, 10, true, 1, "B", "D")
	mock.ExpectQuery(`WHERE id = \? OR parent_trip_id = \?`).WithArgs(int64(1), int64(1)).WillReturnRows(hier)

	expectRouteReads(mock)

	svc := TripService{DB: db}
	trip, route, h, err := svc.GetTripDetail(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), trip.ID)
	assert.Equal(t, int64(7), route.ID)
	assert.Equal(t, int64(1), h.Main.ID)
	require.Len(t, h.SubTrips, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
