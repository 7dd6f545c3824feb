package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// newDryRunDB opens a GORM session that builds SQL without touching a
// database and captures every generated query statement.
func newDryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var captured string
	err = db.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	require.NoError(t, err)

	return db, &captured
}

func TestBookingRepository_FindByCustomer_OrdersByBookingDateDesc(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewBookingRepository(db)

	_, err := repo.FindByCustomer(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Contains(t, *captured, "ORDER BY booking_date DESC")
	assert.Contains(t, *captured, "user_id = ")
}

func TestBookingRepository_FindByProvider_OrdersByBookingDateDesc(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewBookingRepository(db)

	_, err := repo.FindByProvider(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Contains(t, *captured, "ORDER BY booking_date DESC")
	assert.Contains(t, *captured, "service_provider_id = ")
}
