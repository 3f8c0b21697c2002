package log

import (
	"io"
	"log"
)

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func Fatal(v ...any) {
	logWithLevel("[FATAL]", v)
}

func Error(v ...any) {
	logWithLevel("[ERROR]", v)
}

func Warn(v ...any) {
	logWithLevel("[WARN]", v)
}

func Info(v ...any) {
	logWithLevel("[INFO]", v)
}

func logWithLevel(level string, v []any) {
	args := make([]any, 0, len(v)+1)
	args = append(args, level)
	args = append(args, v...)
	log.Println(args...)
}
