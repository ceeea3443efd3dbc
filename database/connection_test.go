package database

import (
	"testing"
	"time"

	"github.com/arenashop/storefront/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSNCarriesSchemaAndTimeZone(t *testing.T) {
	base := "host=localhost port=5432 user=postgres password= dbname=storefront sslmode=disable TimeZone=UTC"

	testCases := []struct {
		name     string
		schema   string
		expected string
	}{
		{name: "No schema", schema: "", expected: base},
		{name: "Default schema", schema: "public", expected: base + ` search_path='"public"'`},
		{name: "Custom schema", schema: "storefront", expected: base + ` search_path='"storefront"'`},
		{
			name:     "Quotes are escaped",
			schema:   `shop"; DROP TABLE x; --'`,
			expected: base + ` search_path='"shop""; DROP TABLE x; --\'"'`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default().Database
			cfg.Schema = tc.schema
			assert.Equal(t, tc.expected, DSN(&cfg))
		})
	}
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), 100*time.Millisecond)
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(t.Context(), time.Now(), query, nil)
	assert.Equal(t, 0, logs.Len(), "fast queries are not logged at warn level")

	l.Trace(t.Context(), time.Now().Add(-time.Second), query, nil)
	assert.Equal(t, 1, logs.FilterMessage("slow query").Len())

	l.Trace(t.Context(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.FilterMessage("query failed").Len(), "not found is not an error")

	l.Trace(t.Context(), time.Now(), query, assert.AnError)
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())

	verbose := l.LogMode(logger.Info)
	verbose.Trace(t.Context(), time.Now(), query, nil)
	assert.Equal(t, 1, logs.FilterMessage("query").Len())

	silent := l.LogMode(logger.Silent)
	silent.Trace(t.Context(), time.Now(), query, assert.AnError)
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())
}
