package repo

import (
	"context"
	"fmt"

	"campusconnect/internal/infra"
	"campusconnect/internal/sqlinline"
)

// EnsureSchema creates the service tables when they are missing.
func EnsureSchema(ctx context.Context, sql infra.SQLExecutor) error {
	if _, err := sql.Exec(ctx, sqlinline.QSchema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
