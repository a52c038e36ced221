package status

import (
	"fmt"
)

// FileFormatter turns records and progress into log messages
type FileFormatter interface {
	// FormatRecord formats one file result
	FormatRecord(rec *FileRecord) string
	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatRecord formats a file result with emojis
func (f *DefaultFileFormatter) FormatRecord(rec *FileRecord) string {
	switch rec.Status {
	case StatusChanged:
		if !rec.Written {
			return fmt.Sprintf("📝 Would migrate %s (%d replacements)", rec.Path, rec.Replacements)
		}
		return fmt.Sprintf("📝 Migrated %s (%d replacements)", rec.Path, rec.Replacements)
	case StatusMissing:
		return fmt.Sprintf("🔍 Missing %s", rec.Path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s at %s", rec.Path, rec.Stage)
	default:
		return fmt.Sprintf("👍 Unchanged %s", rec.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
