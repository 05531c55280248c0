package logger

import (
	"go.uber.org/zap/zapcore"
)

// ActivityCore is a custom Zap Core that copies entries to the activity writer
type ActivityCore struct {
	zapcore.Core
	writer  *ActivityWriter
	session string
	screen  string
}

// NewActivityCore wraps an existing core (like console logger) and adds activity logging
func NewActivityCore(baseCore zapcore.Core, writer *ActivityWriter) zapcore.Core {
	return &ActivityCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the tee when fields are attached with logger.With.
func (c *ActivityCore) With(fields []zapcore.Field) zapcore.Core {
	session, screen := c.session, c.screen
	for _, f := range fields {
		switch f.Key {
		case "session":
			session = f.String
		case "screen":
			screen = f.String
		}
	}
	return &ActivityCore{
		Core:    c.Core.With(fields),
		writer:  c.writer,
		session: session,
		screen:  screen,
	}
}

// Write is called for every log entry
func (c *ActivityCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	session, screen := c.session, c.screen
	for _, f := range fields {
		switch f.Key {
		case "session":
			session = f.String
		case "screen":
			screen = f.String
		}
	}

	// Zap must be configured with AddCaller() for Function to be set
	c.writer.AddLog(LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Session: session,
		Screen:  screen,
		Caller:  entry.Caller.Function,
	})

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *ActivityCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
