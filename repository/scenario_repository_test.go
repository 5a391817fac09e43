package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roicalc/models"
	"roicalc/repository/testutil"
)

func TestScenarioRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewScenarioRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing scenario", func(t *testing.T) {
		scenario, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, scenario)
	})

	t.Run("round trip", func(t *testing.T) {
		original := testutil.CreateTestScenario("Q3 baseline")

		created, err := repo.Create(ctx, original.Name, original.Inputs, original.Results)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Positive(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		fetched, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)

		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, "Q3 baseline", fetched.Name)
		assert.Equal(t, original.Inputs, fetched.Inputs)
		assert.Equal(t, original.Results, fetched.Results)
		assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))
	})

	t.Run("unbounded roi survives storage", func(t *testing.T) {
		results := testutil.CreateTestResults()
		results.ROIPercentage = models.ROIUnbounded

		created, err := repo.Create(ctx, "no implementation cost", testutil.CreateTestInputs(), results)
		require.NoError(t, err)

		fetched, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, fetched.Results.HasUnboundedROI())
	})

	t.Run("names need not be unique", func(t *testing.T) {
		first, err := repo.Create(ctx, "duplicate", testutil.CreateTestInputs(), testutil.CreateTestResults())
		require.NoError(t, err)
		second, err := repo.Create(ctx, "duplicate", testutil.CreateTestInputs(), testutil.CreateTestResults())
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestScenarioRepository_ReadsUnversionedRows(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewScenarioRepository(testDB.DB)
	ctx := context.Background()

	var id int64
	err := testDB.DB.QueryRow(ctx, `
		INSERT INTO scenarios (name, inputs, results)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "legacy",
		[]byte(`{"monthlyInvoiceVolume":2000,"apStaffCount":3,"avgHoursPerInvoice":0.17,"hourlyWage":30,"manualErrorRatePercent":0.5,"errorCost":100,"timeHorizonMonths":36,"oneTimeImplementationCost":50000}`),
		[]byte(`{"monthlySavings":"34100.00","cumulativeSavings":"1227600.00","netSavings":"1177600.00","paybackMonths":"1.5","roiPercentage":"2355.20"}`),
	).Scan(&id)
	require.NoError(t, err)

	scenario, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, scenario)
	assert.Equal(t, testutil.CreateTestInputs(), scenario.Inputs)
	assert.Equal(t, testutil.CreateTestResults(), scenario.Results)
}

func TestScenarioRepository_List(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewScenarioRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		summaries, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, summaries)
		assert.Empty(t, summaries)
	})

	t.Run("newest first", func(t *testing.T) {
		var ids []int64
		for _, name := range []string{"first", "second", "third"} {
			s := testutil.CreateTestScenarioWithCost(name, 1000)
			created, err := repo.Create(ctx, s.Name, s.Inputs, s.Results)
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}

		summaries, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 3)

		assert.Equal(t, &models.ScenarioSummary{ID: ids[2], Name: "third"}, summaries[0])
		assert.Equal(t, &models.ScenarioSummary{ID: ids[1], Name: "second"}, summaries[1])
		assert.Equal(t, &models.ScenarioSummary{ID: ids[0], Name: "first"}, summaries[2])
	})
}

func TestScenarioRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewScenarioRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, "to delete", testutil.CreateTestInputs(), testutil.CreateTestResults())
	require.NoError(t, err)

	changes, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	changes, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changes)
}
