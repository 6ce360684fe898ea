package machine_test

import (
	"testing"

	"github.com/mna/scratchrt/internal/rtlog"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *rtlog.Logger {
	return rtlog.New(nil)
}
