// internal/notify/notice.go
package notify

import "time"

// Notice levels
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// Notice is a short user-facing message.
type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at,omitempty"`
}

func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Level: LevelError, Message: msg} }
func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func Warning(msg string) Notice { return Notice{Level: LevelWarning, Message: msg} }
