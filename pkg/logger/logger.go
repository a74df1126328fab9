package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel разбирает уровень из строки конфигурации. Неизвестные значения дают info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options параметры логгера
type Options struct {
	File       string // путь к файлу логов, пусто = только stdout
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Stdout     bool // дублировать вывод в stdout при записи в файл
}

// Logger printf-style логгер с уровнями
type Logger struct {
	mu     sync.Mutex
	level  Level
	out    *log.Logger
	closer io.Closer
	exit   func(code int)
}

// New создает логгер, пишущий в файл (с ротацией) и stdout
func New(file, level string) (*Logger, error) {
	return NewWithOptions(Options{
		File:   file,
		Level:  level,
		Stdout: true,
	})
}

// NewWithOptions создает логгер по расширенным параметрам
func NewWithOptions(opts Options) (*Logger, error) {
	var (
		writers []io.Writer
		closer  io.Closer
	)

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    defaultInt(opts.MaxSizeMB, 100),
			MaxBackups: defaultInt(opts.MaxBackups, 5),
			MaxAge:     defaultInt(opts.MaxAgeDays, 30),
			Compress:   opts.Compress,
		}
		if _, err := rotator.Write(nil); err != nil {
			return nil, fmt.Errorf("logger: open file %s: %w", opts.File, err)
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	if opts.Stdout || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	return &Logger{
		level:  ParseLevel(opts.Level),
		out:    log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.Lmicroseconds),
		closer: closer,
		exit:   os.Exit,
	}, nil
}

// NewWriter создает логгер поверх произвольного writer (используется в тестах)
func NewWriter(w io.Writer, level string) *Logger {
	return &Logger{
		level: ParseLevel(level),
		out:   log.New(w, "", 0),
		exit:  os.Exit,
	}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
	_ = l.Close()
	l.exit(1)
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
