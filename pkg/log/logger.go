package log

import "time"

// Logger is the sink for progress and failure messages of a download run.
// Messages are short and fixed; everything variable goes into fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one key/value pair attached to a message. Build fields with the
// typed constructors below so adapters can map them onto native types.
type Field struct {
	Key   string
	Value interface{}
}

// Typed field constructors.
func String(key, value string) Field                 { return Field{key, value} }
func Int(key string, value int) Field                { return Field{key, value} }
func Int64(key string, value int64) Field            { return Field{key, value} }
func Float64(key string, value float64) Field        { return Field{key, value} }
func Bool(key string, value bool) Field              { return Field{key, value} }
func Duration(key string, value time.Duration) Field { return Field{key, value} }

// Err attaches err under the "error" key.
func Err(err error) Field { return Field{"error", err} }

// Progress creates a "progress" field rendered as "n/total".
func Progress(n, total int) Field {
	return Field{Key: "progress", Value: progress{n: n, total: total}}
}

// Any creates a field with any value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type progress struct{ n, total int }
