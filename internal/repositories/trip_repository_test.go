package repositories

import (
	"context"
	"testing"

	"backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripCols() []string {
	return []string{
		"id", "route_id", "departure_date", "departure_time", "arrival_time",
		"capacity", "available_seats", "is_sub_trip",
		"parent_trip_id", "segment_origin", "segment_destination",
	}
}

func TestGetTripMapsParentAndSegment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(tripCols()).
		AddRow(3, 7, "2025-06-01", "08:00", "12:30", 10, 6, true, 1, "B", "D")
	mock.ExpectQuery(`FROM trips WHERE id = \? LIMIT 1`).WithArgs(int64(3)).WillReturnRows(rows)

	repo := TripRepository{DB: db}
	trip, err := repo.GetTrip(3)
	require.NoError(t, err)

	assert.True(t, trip.IsSubTrip)
	require.NotNil(t, trip.ParentTripID)
	assert.Equal(t, int64(1), *trip.ParentTripID)
	assert.Equal(t, "B", trip.SegmentOrigin)
	assert.Equal(t, "D", trip.SegmentDestination)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripMainHasNoParent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(tripCols()).
		AddRow(1, 7, "2025-06-01", "08:00", "", 10, 10, false, 0, "", "")
	mock.ExpectQuery(`FROM trips WHERE id = \? LIMIT 1`).WithArgs(int64(1)).WillReturnRows(rows)

	repo := TripRepository{DB: db}
	trip, err := repo.GetTrip(1)
	require.NoError(t, err)
	assert.Nil(t, trip.ParentTripID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM trips WHERE id = \? LIMIT 1`).WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(tripCols()))

	repo := TripRepository{DB: db}
	_, err = repo.GetTrip(99)
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHierarchySplitsMainAndSubs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(tripCols()).
		AddRow(1, 7, "2025-06-01", "08:00", "", 10, 10, false, 0, "", "").
		AddRow(2, 7, "2025-06-01", "08:00", "", 10, 8, true, 1, "A", "C").
		AddRow(3, 7, "2025-06-01", "08:00", "", 10, 9, true, 1, "B", "D")
	mock.ExpectQuery(`WHERE id = \? OR parent_trip_id = \?`).
		WithArgs(int64(1), int64(1)).WillReturnRows(rows)

	repo := TripRepository{DB: db}
	hier, err := repo.GetHierarchy(1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), hier.Main.ID)
	require.Len(t, hier.SubTrips, 2)
	assert.Equal(t, int64(2), hier.SubTrips[0].ID)
	assert.Equal(t, int64(3), hier.SubTrips[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHierarchyMissingMainIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Orphan sub-trip rows without their main.
	rows := sqlmock.NewRows(tripCols()).
		AddRow(2, 7, "2025-06-01", "08:00", "", 10, 8, true, 1, "A", "C")
	mock.ExpectQuery(`WHERE id = \? OR parent_trip_id = \?`).
		WithArgs(int64(1), int64(1)).WillReturnRows(rows)

	repo := TripRepository{DB: db}
	_, err = repo.GetHierarchy(1)
	assert.True(t, domain.IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDeltaTxRefusesBelowZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE trips`).WithArgs(-5, int64(3), -5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	repo := TripRepository{DB: db}
	ok, err := repo.ApplyDeltaTx(context.Background(), tx, 3, -5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyDeltaTxAppliesRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE trips`).WithArgs(2, int64(3), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := TripRepository{DB: db}
	ok, err := repo.ApplyDeltaTx(context.Background(), tx, 3, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTripsBuildsFilterArgs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM trips`).
		WithArgs(int64(7), "2025-06-01", 2).
		WillReturnRows(sqlmock.NewRows(tripCols()).
			AddRow(1, 7, "2025-06-01", "08:00", "", 10, 5, false, 0, "", ""))

	repo := TripRepository{DB: db}
	trips, err := repo.ListTrips(TripFilter{RouteID: 7, Date: "2025-06-01", MinSeats: 2})
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, int64(1), trips[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTripsNoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM trips`).WillReturnRows(sqlmock.NewRows(tripCols()))

	repo := TripRepository{DB: db}
	trips, err := repo.ListTrips(TripFilter{})
	require.NoError(t, err)
	assert.Empty(t, trips)
	require.NoError(t, mock.ExpectationsWereMet())
}
