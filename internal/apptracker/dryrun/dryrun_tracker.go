// Package dryrun provides an AppTracker that only logs locally. It is used
// when no error-tracking DSN is configured.
package dryrun

import "github.com/sirupsen/logrus"

type DryRunTracker struct{}

func (d *DryRunTracker) CaptureMessage(message string) {
	logrus.Info(message)
}

func (d *DryRunTracker) CaptureException(exception error) {
	logrus.Error(exception)
}
