package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/leanlens/leanlens/schema"
)

// Severity label constants.
const (
	CriticalValue = "Critical"
	HighValue     = "High"
	MediumValue   = "Medium"
	LowValue      = "Low"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // standard danger
	HighColor     = color.New(color.FgMagenta, color.Bold) // strong, distinct warning
	MediumColor   = color.New(color.FgYellow)              // standard caution, not bold
	LowColor      = color.New(color.FgCyan)                // informational signal
)

// GetPlainLabel returns a plain text label for a severity tier. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(s schema.Severity) string {
	switch s {
	case schema.CriticalSeverity:
		return CriticalValue
	case schema.HighSeverity:
		return HighValue
	case schema.MediumSeverity:
		return MediumValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored severity label for console output.
func GetColorLabel(s schema.Severity) string {
	text := GetPlainLabel(s)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based
// on the provided file path. It falls back to os.Stdout when empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for run storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".leanlens_runs.db"
	}
	return filepath.Join(homeDir, ".leanlens_runs.db")
}
