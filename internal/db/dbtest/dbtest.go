// Package dbtest opens throwaway in-memory databases for package tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	"github.com/BruksfildServices01/service-scheduler/internal/db"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// New returns a migrated, isolated SQLite database closed at test cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(&config.Config{
		DBDriver: config.DriverSQLite,
		DBUrl:    ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Fixture is a business with one active staff member offering one
// 60-minute service.
type Fixture struct {
	Business     models.Business
	Staff        models.User
	Service      models.ServiceDefinition
	StaffService models.StaffService
}

func Seed(t testing.TB, gdb *gorm.DB, slug string) Fixture {
	t.Helper()

	var f Fixture

	f.Business = models.Business{Name: "Studio " + slug, Slug: slug}
	require.NoError(t, gdb.Create(&f.Business).Error)

	f.Staff = models.User{
		BusinessID:   f.Business.ID,
		Name:         "Alex",
		Email:        slug + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleOwner,
		Active:       true,
	}
	require.NoError(t, gdb.Create(&f.Staff).Error)

	f.Service = models.ServiceDefinition{
		BusinessID:   f.Business.ID,
		Name:         "Haircut",
		BaseDuration: 60,
		BasePrice:    50,
		Active:       true,
	}
	require.NoError(t, gdb.Create(&f.Service).Error)

	f.StaffService = models.StaffService{
		BusinessID:          f.Business.ID,
		EmployeeID:          f.Staff.ID,
		ServiceDefinitionID: f.Service.ID,
	}
	require.NoError(t, gdb.Omit("Employee", "ServiceDefinition").Create(&f.StaffService).Error)

	return f
}

// Slot inserts one availability row directly.
func Slot(t testing.TB, gdb *gorm.DB, f Fixture, day int, start, end string, overnight bool) {
	t.Helper()

	row := models.WeeklyAvailability{
		EmployeeID:  f.Staff.ID,
		BusinessID:  f.Business.ID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsOvernight: overnight,
	}
	require.NoError(t, gdb.Create(&row).Error)
}

// At builds a UTC wall-clock instant.
func At(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}
