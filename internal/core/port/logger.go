package port

// Fields - структурированные поля записи лога. Логгер не изменяет переданную карту.
type Fields map[string]interface{}

// LoggerPort - логгер ядра и адаптеров. Конкретная реализация (stdout, файл,
// Fluent Bit) выбирается при сборке приложения.
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields возвращает дочерний логгер, поля которого добавляются к каждой записи
	WithFields(fields Fields) LoggerPort
}
