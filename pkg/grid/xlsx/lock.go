package xlsx

import (
	"context"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/askiada/go-transposer/pkg/grid"
)

// LockPath returns the lock file used to claim the workbook at path.
func LockPath(path string) string {
	return path + ".lock"
}

// Claim takes an OS lock on a file next to the workbook. The lock is per
// workbook, sheet is only used to check it exists. The operating system
// drops the lock when the process dies, so a lock file left behind by a
// crashed run does not block later runs.
func (s *Store) Claim(ctx context.Context, sheet string) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasSheet(sheet) {
		return nil, grid.MissingSheet(sheet)
	}

	if s.lock != nil {
		return nil, errors.Wrapf(grid.ErrSheetBusy, "workbook %s already claimed by this store", s.path)
	}

	lock := flock.New(LockPath(s.path))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to lock %s", lock.Path())
	}

	if !locked {
		return nil, errors.Wrapf(grid.ErrSheetBusy, "lock %s held by another run", lock.Path())
	}

	s.lock = lock

	var once sync.Once

	return func() error {
		var err error
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if s.lock != lock {
				return
			}

			s.lock = nil
			err = errors.Wrapf(lock.Unlock(), "unable to unlock %s", lock.Path())
		})

		return err
	}, nil
}

var _ grid.Claimer = (*Store)(nil)
