package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KasumiMercury/primind-dose-core/internal/infra/repository"
)

const postgresImage = "postgres:16"

// TestDB is a throwaway Postgres with the dose core schema applied.
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
	tables    []string
}

func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("dosecore"),
		postgres.WithUsername("dosecore"),
		postgres.WithPassword("dosecore"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	tables, err := migrate(db)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{
		Container: pgContainer,
		DB:        db,
		DSN:       dsn,
		tables:    tables,
	}
}

func (tdb *TestDB) TeardownTestDB(t *testing.T) {
	t.Helper()

	if err := tdb.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// CleanTables truncates every migrated table in one statement so foreign keys never block it.
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()

	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tdb.tables, ", "))
	if err := tdb.DB.Exec(stmt).Error; err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

func migrate(db *gorm.DB) ([]string, error) {
	models := repository.AllModels()

	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}

	tables := make([]string, 0, len(models))

	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", m, err)
		}

		tables = append(tables, stmt.Schema.Table)
	}

	return tables, nil
}
