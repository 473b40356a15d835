package utils

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// DeferredClose closes an `io.Closer` resource and logs an error if it fails.
func DeferredClose(ctx context.Context, closer io.Closer, errMsg string) {
	if err := closer.Close(); err != nil {
		logrus.WithContext(ctx).WithError(err).Error(errMsg)
	}
}

// PointOf returns a pointer to the value.
func PointOf[T any](value T) *T {
	return &value
}
