// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level classifies a diagnostic message emitted through [Logger.Emit].
type Level int

const (
	// LevelInfo is used for progress messages such as the connection target.
	LevelInfo Level = iota
	// LevelHeader is used for section headings such as a certificate label.
	LevelHeader
	// LevelSuccess is used for positive outcomes such as a valid chain.
	LevelSuccess
	// LevelDetail is used for secondary facts such as serial numbers.
	LevelDetail
	// LevelError is used for failures and invalid chains.
	LevelError
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelHeader:
		return "header"
	case LevelSuccess:
		return "success"
	case LevelDetail:
		return "detail"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Logger defines the interface for logging operations.
// It provides methods for plain formatted output and for leveled diagnostics.
//
// This interface supports both CLI and [MCP] server modes, allowing seamless
// switching between human-readable output and structured logging.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
	// Emit writes a single diagnostic line at the given level.
	Emit(level Level, text string)
}

// CLILogger implements Logger using the standard log package.
// Diagnostics are colored per level with [color]; colors are dropped automatically
// when the output is not a terminal.
type CLILogger struct {
	logger  *log.Logger
	palette map[Level]*color.Color
}

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	return &CLILogger{
		logger: log.New(os.Stdout, "", 0),
		palette: map[Level]*color.Color{
			LevelInfo:    color.New(color.FgBlue),
			LevelHeader:  color.New(color.Bold),
			LevelSuccess: color.New(color.FgGreen),
			LevelDetail:  color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed),
		},
	}
}

// WithColor forces colored output on or off regardless of the terminal
// detection done by [color]. It returns the receiver for chaining.
func (c *CLILogger) WithColor(enabled bool) *CLILogger {
	for _, p := range c.palette {
		if enabled {
			p.EnableColor()
		} else {
			p.DisableColor()
		}
	}
	return c
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// Emit prints text in the color assigned to level.
func (c *CLILogger) Emit(level Level, text string) {
	p, ok := c.palette[level]
	if !ok {
		c.logger.Println(text)
		return
	}
	c.logger.Println(p.Sprint(text))
}

// MCPLogger implements Logger for [MCP] server mode.
// It suppresses output by default since MCP communication happens over stdio,
// but can be configured to write structured logs to a separate destination.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
}

// NewMCPLogger creates a new [MCP] logger.
// By default, it's silent (output suppressed) to avoid interfering with [MCP] stdio protocol.
// Set silent=false and provide a writer to enable structured logging to a file or stderr.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		writer: writer,
		silent: silent,
	}
}

// Printf formats and logs a structured info message in JSON format.
func (m *MCPLogger) Printf(format string, v ...any) {
	m.Emit(LevelInfo, fmt.Sprintf(format, v...))
}

// Println logs a structured info message in JSON format.
func (m *MCPLogger) Println(v ...any) {
	m.Emit(LevelInfo, fmt.Sprint(v...))
}

// Emit logs text as a JSON line carrying the level name. Surrounding
// whitespace, such as the blank-line spacing used by terminal output, is
// trimmed. Output is suppressed if silent mode is enabled.
func (m *MCPLogger) Emit(level Level, text string) {
	if m.silent {
		return
	}

	data, _ := json.Marshal(map[string]any{
		"level":   level.String(),
		"message": strings.TrimSpace(text),
	})

	m.mu.Lock()
	fmt.Fprintln(m.writer, string(data))
	m.mu.Unlock()
}

// SetOutput sets the output destination for the MCP logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}

// Discard is a Logger that drops everything written to it.
var Discard Logger = discard{}

type discard struct{}

func (discard) Printf(string, ...any) {}
func (discard) Println(...any)        {}
func (discard) SetOutput(io.Writer)   {}
func (discard) Emit(Level, string)    {}
