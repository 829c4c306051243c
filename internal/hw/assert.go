package hw

import "runtime"

var assertHandler func(file string, line int)

// SetAssertHandler installs the sink vendor parameter checks report to.
func SetAssertHandler(h func(file string, line int)) { assertHandler = h }

// AssertParam reports a failed parameter check when the build enables them.
func AssertParam(ok bool) {
	if !AssertEnabled || ok {
		return
	}
	_, file, line, _ := runtime.Caller(1)
	ReportAssert(file, line)
}

// Fail reports the caller as a failed check regardless of build mode.
func Fail() {
	_, file, line, _ := runtime.Caller(1)
	ReportAssert(file, line)
}

// ReportAssert forwards to the installed handler regardless of build mode.
func ReportAssert(file string, line int) {
	if h := assertHandler; h != nil {
		h(file, line)
	}
}
