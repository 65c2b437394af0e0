package logger

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init настраивает глобальный логгер сервиса с выводом в stdout
func Init(serviceName string, level string) {
	InitWithWriter(serviceName, level, os.Stdout)
}

// InitWithWriter настраивает логгер с произвольным writer (используется в тестах)
func InitWithWriter(serviceName string, level string, w io.Writer) {
	log = newLogger(serviceName, level, w)
}

// InitLogstash дублирует вывод логов в Logstash по TCP
func InitLogstash(addr string, serviceName string, level string) error {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return err
	}

	log = newLogger(serviceName, level, zerolog.MultiLevelWriter(os.Stdout, conn))
	return nil
}

func newLogger(serviceName string, level string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

func With() zerolog.Context {
	return log.With()
}

// Printf реализует интерфейс логгера для сторонних библиотек (cron, kafka)
func Printf(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

// Errorf - то же самое для ошибок сторонних библиотек
func Errorf(format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}

// PrintfFunc адаптирует функцию к интерфейсу с методом Printf (cron.PrintfLogger)
type PrintfFunc func(format string, args ...interface{})

func (f PrintfFunc) Printf(format string, args ...interface{}) {
	f(format, args...)
}
