package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// NewFile returns a logger appending to the given file. Interactive surfaces
// use it because the terminal is taken over by the UI.
func NewFile(path string) (*slog.Logger, func() error, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}

	fileLogger := slog.New(slog.NewTextHandler(file, nil))
	return fileLogger, file.Close, nil
}
