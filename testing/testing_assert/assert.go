package testing_assert

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pingcap/errors"
)

// Assert fails the test if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	tb.Helper()
	if !condition {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: "+msg+"\n", append([]interface{}{filepath.Base(file), line}, v...)...)
	}
}

func SimpleAssert(tb testing.TB, condition bool) {
	tb.Helper()
	if !condition {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: assertion failed\n", filepath.Base(file), line)
	}
}

// Ok fails the test if an err is not nil.
func Ok(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: unexpected error: %s\n", filepath.Base(file), line, err.Error())
	}
}

// Nok fails the test if err is nil or is not of the class
func Nok(tb testing.TB, err error, class error) {
	tb.Helper()
	_, file, line, _ := runtime.Caller(1)
	if err == nil {
		tb.Fatalf("%s:%d: expected error but got nil\n", filepath.Base(file), line)
	}
	if class != nil && errors.Cause(err) != class {
		tb.Fatalf("%s:%d: expected %v but got %v\n", filepath.Base(file), line, class, err)
	}
}

// Equals fails the test if exp is not equal to act.
func Equals(tb testing.TB, exp, act interface{}, opts ...cmp.Option) {
	tb.Helper()
	if diff := cmp.Diff(exp, act, opts...); diff != "" {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: (-exp +got)\n%s", filepath.Base(file), line, diff)
	}
}
