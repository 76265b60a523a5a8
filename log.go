package godispatch

import "fmt"

// Log is the pluggable logging surface for middlewares and handlers.
type Log interface {
	Info(a interface{})
	Error(a interface{})
}

// Logger is the default Log, writing through the engine's stdout and
// stderr loggers.
type Logger struct {
	Name string
}

func (l Logger) Info(a interface{}) {
	outlog.Println(fmt.Sprintf("[%s] %v", l.Name, a))
}
func (l Logger) Error(a interface{}) {
	errlog.Println(fmt.Sprintf("[%s] %v", l.Name, a))
}
