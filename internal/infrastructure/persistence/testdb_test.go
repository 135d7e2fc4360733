package persistence

import (
	"testing"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/catalog"
	"github.com/Mandoobi/jaber-backend/internal/domain/identity"
	"github.com/Mandoobi/jaber-backend/internal/domain/partner"
	"github.com/Mandoobi/jaber-backend/internal/domain/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database alive across queries.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, (&Database{DB: db}).AutoMigrate())
	return db
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID, name, code string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(tenantID, name, code, "", "Ramallah")
	require.NoError(t, err)
	return c
}

func newTestProduct(t *testing.T, tenantID uuid.UUID, name string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, name, catalog.UnitBox)
	require.NoError(t, err)
	return p
}

func newTestUser(t *testing.T, tenantID uuid.UUID, name string, role shared.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(tenantID, name, role)
	require.NoError(t, err)
	return u
}

func newTestReport(t *testing.T, tenantID, repID uuid.UUID, date string, customers ...uuid.UUID) *report.DailyReport {
	t.Helper()
	d, err := report.ParseReportDate(date)
	require.NoError(t, err)
	r, err := report.NewDailyReport(tenantID, repID, d)
	require.NoError(t, err)

	visits := make([]report.Visit, len(customers))
	planned := map[uuid.UUID]struct{}{}
	for i, c := range customers {
		visits[i] = report.Visit{CustomerID: c, Status: report.VisitStatusVisited}
		if i == 0 {
			planned[c] = struct{}{}
		}
	}
	if len(visits) > 0 {
		require.NoError(t, r.Revise("", nil, visits, planned))
	}
	return r
}

var testEpoch = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
