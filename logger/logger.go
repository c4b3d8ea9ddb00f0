// Package logger provides adapters for popular logger libraries to work with rangecover's Logger interface.
//
// The adapters allow you to use your existing logger with rangecover without writing boilerplate.
// Note that the standard library's slog.Logger already implements rangecover.Logger directly.
//
// Example with zap:
//
//	import (
//	    "github.com/alexhholmes/rangecover"
//	    "github.com/alexhholmes/rangecover/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    tree := rangecover.NewCoverTree[string, float64](
//	        rangecover.WithLogger(logger.NewZap(zapLogger)),
//	    )
//	    _ = tree
//	}
package logger
