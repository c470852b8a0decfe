// Package logging provides structured logging for groupsense.
//
// It wraps Go's log/slog to write JSON lines, one per event, so that a
// session's group transitions can be reconstructed after the fact: every
// applied dispatch rule is logged at DEBUG with the line kind, the rule that
// fired, and the resulting member count.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	trackerLog := logger.WithSession("Oreh").WithComponent("tracker")
//	trackerLog.Info("probe sent", "command", "group")
//
// # Rotation
//
// Long-running follow and connect sessions use size-based rotation:
//
//	logger, err := logging.NewLoggerWithRotation(dir, "DEBUG", logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	})
//
// Rotated files are named groupsense.log.1 (newest) through .N, with a .gz
// suffix when compression is enabled.
//
// # Testing
//
// Use [NopLogger] to discard output, or [NewWriterLogger] with a
// bytes.Buffer to assert on what was logged.
package logging
