package application

import "log/slog"

const ModuleName = "creative-generation/variation-service"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
