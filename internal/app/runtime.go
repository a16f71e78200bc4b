package app

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// TestModeEnv disables network side effects in the binaries when set to "1".
const TestModeEnv = "UNITFLOW_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	v := strings.TrimSpace(os.Getenv(TestModeEnv))
	testModeFlag.Store(v == "1" || strings.EqualFold(v, "true"))
}

// InTestMode reports whether binaries should skip connecting to Postgres,
// Redis and the job queue.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode re-reads the environment flag.
func RefreshTestMode() {
	testModeOnce.Do(func() {})
	detectTestMode()
}
