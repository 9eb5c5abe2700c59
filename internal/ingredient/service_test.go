package ingredient

import (
	"context"
	"sync"
	"testing"
	"time"

	"mealplanner/internal/database/dbtest"
	"mealplanner/internal/shared"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveDeduplicatesByCase(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(NewRepository(db.SQL), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "CARROT")
	require.NoError(t, err)
	assert.Equal(t, "Carrot", first.Name)

	for _, raw := range []string{"carrot", " Carrot ", "cArRoT"} {
		got, err := svc.Resolve(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID, "raw %q should resolve to the existing row", raw)
		assert.Equal(t, "Carrot", got.Name)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestResolveConcurrentCreatesOneRow(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(NewRepository(db.SQL), zap.NewNop())
	ctx := context.Background()

	const workers = 8
	ids := make([]uuid.UUID, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ing, err := svc.Resolve(ctx, "Basil")
			errs[i] = err
			if ing != nil {
				ids[i] = ing.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var n int
	require.NoError(t, db.SQL.Get(&n, "SELECT COUNT(*) FROM ingredients"))
	assert.Equal(t, 1, n)
}

func TestResolveBlankTouchesNoStorage(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	svc := NewService(NewRepository(sqlx.NewDb(mockDB, "postgres")), zap.NewNop())
	_, err = svc.Resolve(context.Background(), "   ")
	assert.True(t, shared.IsKind(err, shared.KindValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRereadsAfterUniqueViolation(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	winner := uuid.New()
	mock.ExpectQuery(`SELECT id, name, name_key, created_at FROM ingredients WHERE name_key = \$1`).
		WithArgs("tomato").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_key", "created_at"}))
	mock.ExpectExec(`INSERT INTO ingredients`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectQuery(`SELECT id, name, name_key, created_at FROM ingredients WHERE name_key = \$1`).
		WithArgs("tomato").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "name_key", "created_at"}).
			AddRow(winner.String(), "Tomato", "tomato", time.Now().UTC()))

	svc := NewService(NewRepository(sqlx.NewDb(mockDB, "postgres")), zap.NewNop())
	ing, err := svc.Resolve(context.Background(), "TOMATO")
	require.NoError(t, err)
	assert.Equal(t, winner, ing.ID)
	assert.Equal(t, "Tomato", ing.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByIDsSkipsUnknown(t *testing.T) {
	db := dbtest.New(t)
	repo := NewRepository(db.SQL)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	leek, err := svc.Resolve(ctx, "leek")
	require.NoError(t, err)
	rice, err := svc.Resolve(ctx, "rice")
	require.NoError(t, err)

	got, err := repo.ListByIDs(ctx, []uuid.UUID{rice.ID, uuid.New(), leek.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Leek", got[0].Name)
	assert.Equal(t, "Rice", got[1].Name)

	empty, err := repo.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
