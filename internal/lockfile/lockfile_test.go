package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/tallyhq/tally/internal/constants"
)

type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 0 }
func (p fakeProcess) Executable() string { return p.executable }

func setupLock(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	orig := findProcessFunc
	origPid := getpidFunc
	t.Cleanup(func() {
		findProcessFunc = orig
		getpidFunc = origPid
	})
	return dbPath
}

func TestAcquireAndRelease(t *testing.T) {
	dbPath := setupLock(t)

	if err := Acquire(dbPath); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	lockPath := dbPath + constants.LockFileSuffix
	data, err := os.ReadFile(lockPath)
	if err != nil {
		t.Fatalf("failed to read lock file: %v", err)
	}
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Errorf("lock file contains %q, want own pid", string(data))
	}

	if err := Release(dbPath); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock file should be removed after release")
	}
}

func TestAcquireReentrant(t *testing.T) {
	dbPath := setupLock(t)

	if err := Acquire(dbPath); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	if err := Acquire(dbPath); err != nil {
		t.Errorf("re-acquire by the same process should succeed, got %v", err)
	}
}

func TestAcquireRejectsLiveHolder(t *testing.T) {
	dbPath := setupLock(t)

	lockPath := dbPath + constants.LockFileSuffix
	if err := os.WriteFile(lockPath, []byte("4242"), 0600); err != nil {
		t.Fatal(err)
	}
	findProcessFunc = func(pid int) (ps.Process, error) {
		return fakeProcess{pid: pid, executable: "tally"}, nil
	}

	if err := Acquire(dbPath); err == nil {
		t.Error("Acquire() should fail when a live tally process holds the lock")
	}
}

func TestAcquireReclaimsStaleLock(t *testing.T) {
	tests := []struct {
		name string
		fn   func(pid int) (ps.Process, error)
	}{
		{"process gone", func(pid int) (ps.Process, error) { return nil, nil }},
		{"lookup error", func(pid int) (ps.Process, error) { return nil, errors.New("no such process") }},
		{"pid reused by other executable", func(pid int) (ps.Process, error) {
			return fakeProcess{pid: pid, executable: "chrome"}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := setupLock(t)
			lockPath := dbPath + constants.LockFileSuffix
			if err := os.WriteFile(lockPath, []byte("4242"), 0600); err != nil {
				t.Fatal(err)
			}
			findProcessFunc = tt.fn

			if err := Acquire(dbPath); err != nil {
				t.Fatalf("Acquire() should reclaim a stale lock, got %v", err)
			}
			data, err := os.ReadFile(lockPath)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != strconv.Itoa(os.Getpid()) {
				t.Errorf("lock file contains %q, want own pid", string(data))
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	dbPath := setupLock(t)

	lockPath := dbPath + constants.LockFileSuffix
	if err := os.WriteFile(lockPath, []byte("4242"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := Release(dbPath); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Error("foreign lock file should be left in place")
	}
}
