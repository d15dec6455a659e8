// Package lockfile guards the sqlite database against concurrent writers.
// A lock is a small file next to the database holding the owning process
// ID; a lock whose process is gone (or is not a tally executable) is stale
// and silently reclaimed.
package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/tallyhq/tally/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Acquire takes the lock for the database at dbPath, reclaiming stale
// locks. It fails when another live tally process holds the lock.
func Acquire(dbPath string) error {
	lockPath := dbPath + constants.LockFileSuffix

	data, err := os.ReadFile(lockPath)
	if err == nil {
		pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if convErr == nil && pid != getpidFunc() && isLiveTallyProcess(pid) {
			return fmt.Errorf("database is locked by another tally process (pid %d)", pid)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(getpidFunc())), 0600); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

// Release drops the lock if this process owns it. A missing or foreign
// lock is left alone.
func Release(dbPath string) error {
	lockPath := dbPath + constants.LockFileSuffix

	data, err := os.ReadFile(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid != getpidFunc() {
		return nil
	}
	return os.Remove(lockPath)
}

func isLiveTallyProcess(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName)
}
