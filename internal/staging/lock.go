package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StaleLockThreshold is the maximum age of a run lock before it is
// considered abandoned. Artifact downloads are slow, so this is
// generous.
const StaleLockThreshold = 30 * time.Minute

// ErrLocked is returned when another preparation run holds the staging
// tree.
var ErrLocked = errors.New("staging tree is locked: another run may be in progress")

// Lock is an exclusive lock on a staging tree. Two concurrent runs
// against the same tree would race on the artifact and the generated
// spec file.
type Lock struct {
	path string
	file *os.File
}

// AcquireLock takes the run lock for the staging tree rooted at dir.
// Creation is atomic via O_CREATE|O_EXCL; a lock older than
// StaleLockThreshold is treated as abandoned and replaced.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lockPath := filepath.Join(dir, "prep.lock")

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if !isLockStale(lockPath) {
			return nil, ErrLocked
		}
		os.Remove(lockPath)
		file, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
		if err != nil {
			return nil, ErrLocked
		}
	}

	meta := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(meta); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock metadata: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// Release removes the lock. Safe to call more than once.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path != "" {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
		l.path = ""
	}
	return nil
}

func isLockStale(lockPath string) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > StaleLockThreshold
}
