package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"loftmanager/internal/logs"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

func openMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error: %v", err)
	}
	return gdb, mock
}

// expectSchema queues the probe and the full ordered statement sequence.
func expectSchema(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta(`SELECT 1`)).WillReturnResult(sqlmock.NewResult(0, 0))
	for _, stmt := range schemaStatements {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func expectUserCount(mock sqlmock.Sqlmock, n int64) {
	mock.ExpectQuery(regexp.QuoteMeta(countUsersSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func TestEnsureRunsStatementsOncePerProcess(t *testing.T) {
	gdb, mock := openMock(t)
	p := NewProvisioner(gdb, "password123")

	expectSchema(mock)
	expectUserCount(mock, 3) // already seeded, no insert

	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	// Second call hits the latch; no further SQL is expected.
	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() second call error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestEnsureSeedsWhenUsersTableEmpty(t *testing.T) {
	gdb, mock := openMock(t)
	p := NewProvisioner(gdb, "password123")

	expectSchema(mock)
	expectUserCount(mock, 0)
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 3))

	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestEnsureRetriesFromScratchAfterFailure(t *testing.T) {
	gdb, mock := openMock(t)
	p := NewProvisioner(gdb, "password123")

	// First attempt dies on the first schema statement; the latch must stay
	// unset so the next call reruns the whole sequence.
	mock.ExpectExec(regexp.QuoteMeta(`SELECT 1`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(schemaStatements[0])).
		WillReturnError(errors.New("relation is locked"))

	if err := p.Ensure(context.Background()); err == nil {
		t.Fatal("Ensure() expected error on failed statement")
	}

	expectSchema(mock)
	expectUserCount(mock, 3)

	if err := p.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() retry error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestEnsureFailsWhenConnectionProbeFails(t *testing.T) {
	gdb, mock := openMock(t)
	p := NewProvisioner(gdb, "password123")

	mock.ExpectExec(regexp.QuoteMeta(`SELECT 1`)).WillReturnError(sql.ErrConnDone)

	err := p.Ensure(context.Background())
	if err == nil {
		t.Fatal("Ensure() expected probe error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestEnsureRejectsNonPostgres(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer sqlDB.Close()

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error: %v", err)
	}

	p := NewProvisioner(gdb, "password123")
	if err := p.Ensure(context.Background()); err == nil {
		t.Fatal("Ensure() must refuse a non-postgres dialect")
	}
}
