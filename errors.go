package govsync

import (
	"errors"
	"fmt"

	"github.com/govkit/govsync/types"
)

// ErrSuperseded is returned by a refresh whose result was discarded because a
// newer refresh was requested while it ran.
var ErrSuperseded = errors.New("synchronization pass superseded by a newer request")

// SyncError is returned when a pass cannot produce a snapshot at all.
type SyncError struct {
	Target types.Target
	PassID string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s (pass %s): %v", e.Target, e.PassID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func newSyncError(target types.Target, passID string, err error) *SyncError {
	return &SyncError{Target: target, PassID: passID, Err: err}
}
