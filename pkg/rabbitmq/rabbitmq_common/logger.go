package rabbitmq_common

// Logger - минимальный логгер пакетов rabbitmq. Ключи и значения передаются парами.
// Сервис подставляет сюда мост к своему логгеру.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Debug(string, ...interface{})        {}
func (noopLogger) Info(string, ...interface{})         {}
func (noopLogger) Warn(string, ...interface{})         {}
func (noopLogger) Error(error, string, ...interface{}) {}

// NewNoopLogger используется, когда в конфигурации логгер не задан
func NewNoopLogger() Logger {
	return noopLogger{}
}
