//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/leanlens/leanlens/internal/iocache"
	"github.com/leanlens/leanlens/schema"
)

// TestReportStoreWithMySQL exercises the run store against a real MySQL server.
func TestReportStoreWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "leanlens",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/leanlens?parseTime=true", host, port.Port())
	exerciseStore(t, schema.MySQLBackend, connStr)
}

// TestReportStoreWithPostgres exercises the run store against a real PostgreSQL server.
func TestReportStoreWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
	exerciseStore(t, schema.PostgreSQLBackend, connStr)
}

// exerciseStore runs a begin/end/read/clear cycle against one backend.
func exerciseStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()

	// Start from a clean slate; clearing a fresh database is a no-op.
	require.NoError(t, iocache.ClearRuns(backend, "unused", connStr))

	store, err := iocache.NewReportStore(backend, connStr)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Now().UTC().Truncate(time.Second)
	runID, err := store.BeginRun(start, map[string]any{"data_dir": "./data"})
	require.NoError(t, err)
	require.Greater(t, runID, int64(0))

	report := &schema.AnalysisReport{
		Losses: []schema.DetectedLoss{{
			LossID:          "LOSS-001",
			Title:           "Frequent micro-stops on CNC-01",
			Severity:        schema.HighSeverity,
			Frequency:       45,
			TotalHours:      2.25,
			ConfidenceScore: 0.75,
		}},
		Analyses: []schema.Analysis{{
			LossID:           "LOSS-001",
			Category:         schema.Waiting,
			RootCause:        "Plan de maintenance préventive inexistant",
			EstimatedCostEUR: 337.5,
		}},
		Summary: schema.Summary{
			TotalLosses:  1,
			TotalCostEUR: 337.5,
		},
		StageModes: map[schema.StageName]schema.StageMode{
			schema.DetectStage:    schema.HeuristicMode,
			schema.ClassifyStage:  schema.HeuristicMode,
			schema.RecommendStage: schema.HeuristicMode,
		},
	}
	require.NoError(t, store.EndRun(runID, start.Add(2*time.Second), report))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 1, runs[0].LossCount)

	losses, err := store.GetAllLossRecords()
	require.NoError(t, err)
	require.Len(t, losses, 1)
	assert.Equal(t, schema.Waiting, losses[0].Category)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)

	require.NoError(t, store.Close())
	require.NoError(t, iocache.ClearRuns(backend, "unused", connStr))
}
