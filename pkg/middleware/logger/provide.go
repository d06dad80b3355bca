package logger

import (
	"os"
	"strconv"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DebugFromEnv reads the DEBUG flag: any value strconv.ParseBool accepts
// as true, or a non-empty value that is not a boolean.
func DebugFromEnv() bool {
	v := os.Getenv("DEBUG")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

func ProvideLogger() *zap.Logger {
	return NewLog("system.log", Options{Debug: DebugFromEnv()})
}

func ProvideLoggerMiddleware() *Middleware {
	debug := DebugFromEnv()
	return NewMiddleware(NewLog("http-access.log", Options{Debug: debug}), debug)
}

var Module = fx.Options(
	fx.Provide(ProvideLoggerMiddleware),
	fx.Provide(ProvideLogger),
)
