// Package logger provides the structured logging interface used across xwscraper.
//
// It wraps zerolog with a small interface so components can take a Logger
// and tests can substitute a TestLogger or the no-op logger.
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("component", "batch")
//	log.InfoWithFields("Window completed", map[string]interface{}{
//	    "start":   "2023-01-01",
//	    "records": 31,
//	})
//
// When LoggingConfig.File is set, JSON lines are appended to that file in
// addition to the colored console output.
package logger
