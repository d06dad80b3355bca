// bundlefx/bundlefx.go
package bundlefx

import (
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/auth"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/logger"
	"github.com/Tyler-Murphy/smartthings-smartapp-test/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the HTTP middleware stack: loggers, signature
// verification and the named "metrics" handler.
var Module = fx.Options(
	logger.Module,
	auth.Module,
	metrics.Module,
)
