package common

import (
	"go.uber.org/zap"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO        LogLevel = 2
	OPTIMIZER_TRACE   LogLevel = 4
	EXECUTOR_TRACE    LogLevel = 8
	INFO              LogLevel = 16
	WARN              LogLevel = 32
	ERROR             LogLevel = 64
	FATAL             LogLevel = 128
)

var logger = newDefaultLogger()

var logKindSetting = LogLevel(ActiveLogKindSetting)

func newDefaultLogger() *zap.SugaredLogger {
	l, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func Logger() *zap.SugaredLogger {
	return logger
}

// SetLogger replaces the output of ShPrintf. nil installs a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// SetLogKindSetting changes which ShPrintf kinds are emitted and returns the previous setting.
func SetLogKindSetting(kinds LogLevel) LogLevel {
	prev := logKindSetting
	logKindSetting = kinds
	return prev
}

func IsLogKindActive(logLevel LogLevel) bool {
	return logLevel&logKindSetting > 0
}

func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if !IsLogKindActive(logLevel) {
		return
	}
	switch {
	case logLevel >= ERROR:
		logger.Errorf(fmtStl, a...)
	case logLevel >= WARN:
		logger.Warnf(fmtStl, a...)
	case logLevel >= INFO:
		logger.Infof(fmtStl, a...)
	default:
		logger.Debugf(fmtStl, a...)
	}
}
