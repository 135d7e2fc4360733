package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// RegisterDBTracing adds otelgorm spans to every statement. Query arguments
// are left out unless logFullSQL is set.
func RegisterDBTracing(db *gorm.DB, dbName string, logFullSQL bool) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(dbName)}
	if !logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}
	return nil
}
