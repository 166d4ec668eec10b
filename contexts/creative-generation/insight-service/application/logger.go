package application

import "log/slog"

const ModuleName = "creative-generation/insight-service"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
