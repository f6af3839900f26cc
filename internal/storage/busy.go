package storage

import (
	"errors"
	"fmt"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/mattn/go-sqlite3"
)

// wrapBusy marks lock contention errors with common.ErrBusy. The busy
// timeout has already elapsed when one surfaces.
func wrapBusy(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %w", common.ErrBusy, err)
	}
	return err
}
