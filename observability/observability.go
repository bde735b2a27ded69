// Package observability provides the structured logging hooks the
// redaction engine emits its diagnostics through. Hosts plug in their
// own Logger; NopLogger is the default.
package observability

// Logger is the minimal structured logging surface used by the engine.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is one structured key/value pair attached to a log event.
type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

// NopLogger discards all events.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Event is one captured log record.
type Event struct {
	Level  string
	Msg    string
	Fields []Field
}

// Capture records events in memory. Intended for tests and for hosts
// that collect engine diagnostics alongside a save operation. Loggers
// derived via With share the root capture's event list.
type Capture struct {
	Events []Event

	parent *Capture
	bound  []Field
}

func (c *Capture) root() *Capture {
	if c.parent != nil {
		return c.parent.root()
	}
	return c
}

func (c *Capture) log(level, msg string, fields []Field) {
	all := append(append([]Field{}, c.bound...), fields...)
	r := c.root()
	r.Events = append(r.Events, Event{Level: level, Msg: msg, Fields: all})
}

func (c *Capture) Debug(msg string, fields ...Field) { c.log("debug", msg, fields) }
func (c *Capture) Info(msg string, fields ...Field)  { c.log("info", msg, fields) }
func (c *Capture) Warn(msg string, fields ...Field)  { c.log("warn", msg, fields) }
func (c *Capture) Error(msg string, fields ...Field) { c.log("error", msg, fields) }

// With returns a logger with extra bound fields.
func (c *Capture) With(fields ...Field) Logger {
	return &Capture{
		parent: c.root(),
		bound:  append(append([]Field{}, c.bound...), fields...),
	}
}

// Has reports whether a captured event at the given level contains the
// message.
func (c *Capture) Has(level, msg string) bool {
	for _, e := range c.root().Events {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}
