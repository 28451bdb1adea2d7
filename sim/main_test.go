package sim

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

//go:generate mockgen -destination mock_replacement_test.go -package sim -self_package github.com/pagesim/pagesim/sim -write_package_comment=false github.com/pagesim/pagesim/sim ReplacementPolicy,MemoryCosts

func TestMain(m *testing.M) {
	// Process creation/retirement logs at Info; keep test output readable.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./sim/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}
