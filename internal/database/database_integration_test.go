package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"oshalog/config"
	"oshalog/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) DB {
	t.Helper()
	db, err := New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_Success(t *testing.T) {
	db := newTestDB(t)

	assert.NotNil(t, db.SQL)
	assert.Nil(t, db.Cache.Reports, "cache stays disabled without an address")

	for _, table := range []string{
		"establishments", "locations", "incidents", "attachments", "annual_stats", "corrective_actions",
		"rca_sessions", "five_whys_steps", "fishbone_categories", "fishbone_causes",
	} {
		assert.True(t, db.SQL.Migrator().HasTable(table), table)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(config.Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database path is empty")
}

func TestInitializeSQLiteDB_Success(t *testing.T) {
	db := &DB{log: logger.New("test"), lock: &sync.Mutex{}}

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	err := db.initializeSQLiteDB(&gorm.Config{}, config.Config{DatabaseDbPath: dbPath})
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)

	sqlDB, err := db.SQL.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestInitializeSQLiteDB_ForeignKeysEnabled(t *testing.T) {
	db := newTestDB(t)

	var enabled int
	require.NoError(t, db.SQL.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	err := db.SQL.Exec(
		"INSERT INTO locations (establishment_id, name, is_active, created_at, updated_at) VALUES (?, ?, 1, datetime('now'), datetime('now'))",
		999, "Orphan",
	).Error
	assert.Error(t, err, "location without establishment must be rejected")
}

func TestUnicodeLower(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"Jane", "jane"},
		{"Émile Zola", "émile zola"},
		{"JOSÉ ÁLVAREZ", "josé álvarez"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var lowered string
			require.NoError(t, db.SQL.Raw("SELECT unicode_lower(?)", tt.input).Scan(&lowered).Error)
			assert.Equal(t, tt.expected, lowered)
		})
	}
}

func TestMigrations_DownAndUp(t *testing.T) {
	db := newTestDB(t)

	rolledBack, err := db.MigrateDown(0)
	require.NoError(t, err)
	assert.Equal(t, 2, rolledBack)
	assert.False(t, db.SQL.Migrator().HasTable("incidents"))

	applied, err := db.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.True(t, db.SQL.Migrator().HasTable("incidents"))

	applied, err = db.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestMigrations_RootCauseStepDown(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.SQL.Exec(
		"INSERT INTO establishments (name, created_at, updated_at) VALUES (?, ?, ?)", "Acme Plant", now, now).Error)
	require.NoError(t, db.SQL.Exec(
		`INSERT INTO incidents (establishment_id, case_number, employee_name, incident_date, description,
			outcome_severity, injury_illness_type, created_at, updated_at)
		 VALUES (1, 1, 'Jane Doe', '2024-01-10', 'Slipped', 'other_recordable', 'injury', ?, ?)`, now, now).Error)
	require.NoError(t, db.SQL.Exec(
		"INSERT INTO rca_sessions (incident_id, method, created_at, updated_at) VALUES (1, 'five_whys', ?, ?)", now, now).Error)
	require.NoError(t, db.SQL.Exec(
		`INSERT INTO corrective_actions (incident_id, description, rca_session_id, created_at, updated_at)
		 VALUES (1, 'Add mats', 1, ?, ?)`, now, now).Error)

	rolledBack, err := db.MigrateDown(1)
	require.NoError(t, err)
	assert.Equal(t, 1, rolledBack)
	assert.False(t, db.SQL.Migrator().HasTable("rca_sessions"))
	assert.False(t, db.SQL.Migrator().HasColumn("corrective_actions", "rca_session_id"))

	var descriptions []string
	require.NoError(t, db.SQL.Raw("SELECT description FROM corrective_actions").Scan(&descriptions).Error)
	assert.Equal(t, []string{"Add mats"}, descriptions)

	applied, err := db.MigrateUp()
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.True(t, db.SQL.Migrator().HasColumn("corrective_actions", "rca_session_id"))
}

func TestClose_WithNilSQL(t *testing.T) {
	db := &DB{log: logger.New("test")}
	assert.NoError(t, db.Close())
}

func TestSQLWithContext(t *testing.T) {
	db := newTestDB(t)

	gormDB := db.SQLWithContext(context.Background())

	assert.NotNil(t, gormDB)
	assert.NotSame(t, db.SQL, gormDB)
}

func TestLock_SharedAcrossCopies(t *testing.T) {
	db := newTestDB(t)
	copied := db

	db.Lock()
	acquired := make(chan struct{})
	go func() {
		copied.Lock()
		close(acquired)
		copied.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("copy acquired the lock while the original held it")
	default:
	}

	db.Unlock()
	<-acquired
}

func TestCacheBuilder_NilClient(t *testing.T) {
	builder := NewCacheBuilder(nil, "osha:summary:1").WithHashField("2024")

	var value map[string]int
	found, err := builder.Get(&value)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, builder.Set(map[string]int{"totalCases": 3}))
	assert.NoError(t, builder.Delete())
}

func TestFlushAllCaches_Disabled(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.FlushAllCaches(context.Background()))
}
