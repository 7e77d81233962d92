package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DebugLogger logs TUI state, keystrokes, and protocol events to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "quorum-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": DebugLogPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		debugLog.file.Close()
	}
}

func (d *DebugLogger) log(event string, fields map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"event": event,
	}
	for k, v := range fields {
		entry[k] = v
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	d.file.Write(line)
	d.file.Write([]byte("\n"))
}

// Log satisfies the realtime channel's logger, so protocol drops and
// reconnects land in the same file as keystrokes.
func (d *DebugLogger) Log(event string, fields map[string]any) {
	d.log(event, fields)
}

// LogKeyPress logs a keystroke.
func LogKeyPress(msg tea.KeyMsg) {
	debugLog.log("KEY", map[string]any{"key": msg.String()})
}

// LogMouse logs a mouse event.
func LogMouse(msg tea.MouseMsg) {
	debugLog.log("MOUSE", map[string]any{
		"x": msg.X, "y": msg.Y,
		"action": int(msg.Action),
		"button": int(msg.Button),
	})
}

// LogEvent logs a named event with fields.
func LogEvent(event string, fields map[string]any) {
	debugLog.log(event, fields)
}
