package service

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RemoveVariants deletes every given key best-effort. A failed delete
// doesn't stop the remaining ones, the failed keys are returned so the
// caller can report them. The error aggregates every per-key failure.
func RemoveVariants(ctx context.Context, store ObjectStore, keys []string) (failed []string, err error) {
	for _, k := range keys {
		if k == "" {
			continue
		}

		if delErr := store.Delete(ctx, k); delErr != nil {
			zap.L().Error("Failed to delete object",
				zap.String("key", k),
				zap.Error(delErr))

			failed = append(failed, k)
			err = multierr.Append(err, fmt.Errorf("delete %s, %w", k, delErr))
		}
	}

	return failed, err
}
