package common

import (
	"runtime"

	"github.com/devlights/gomy/output"
)

func SH_Assert(condition bool, msg string) {
	if !condition {
		if IsLogKindActive(DEBUG_INFO) {
			RuntimeStack()
		}
		panic(msg)
	}
}

// REFERENCES
//   - https://pkg.go.dev/runtime#Stack
func RuntimeStack() error {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	output.Stdoutl("=== stack-all   ", string(buf))
	return nil
}
