package message

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// glog (an indirect dependency of badger v3) starts a flushDaemon
	// goroutine in its package init; it is not a leak in this package.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/golang/glog.(*loggingT).flushDaemon"))
}
