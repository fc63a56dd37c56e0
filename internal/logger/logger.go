package logger

import (
	"io"
	"log"
	"os"
)

type Logger struct {
	out    io.Writer
	errOut io.Writer
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	error  *log.Logger
}

func New() *Logger {
	return build(os.Stdout, os.Stderr, "")
}

func NewWithWriter(writer io.Writer) *Logger {
	return build(writer, writer, "")
}

// Named returns a logger whose lines carry a component name, e.g.
// "INFO [cache]:".
func (l *Logger) Named(name string) *Logger {
	return build(l.out, l.errOut, "["+name+"] ")
}

func build(out, errOut io.Writer, name string) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		out:    out,
		errOut: errOut,
		debug:  log.New(out, "DEBUG "+name, flags),
		info:   log.New(out, "INFO "+name, flags),
		warn:   log.New(errOut, "WARN "+name, flags),
		error:  log.New(errOut, "ERROR "+name, flags),
	}
}

func (l *Logger) Debug(v ...interface{}) {
	l.debug.Println(v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.debug.Printf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.info.Println(v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.info.Printf(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.warn.Println(v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.warn.Printf(format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.error.Println(v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.error.Printf(format, v...)
}
