package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection would get its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(GormModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormStore(t *testing.T) {
	exerciseStore(t, NewGormStore(openSQLite(t)))
}

func TestGormEnsureIndexesIsIdempotent(t *testing.T) {
	db := openSQLite(t)
	repo := &GormUserRepository{DB: db}
	for i := 0; i < 2; i++ {
		if err := repo.EnsureIndexes(t.Context()); err != nil {
			t.Fatalf("EnsureIndexes() call %d error = %v", i+1, err)
		}
	}
	if !db.Migrator().HasIndex(&userRow{}, "idx_users_email_address") {
		t.Error("unique email index is missing")
	}
}
