package estatyfetcher

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var monthYearRe = regexp.MustCompile(`^\d{1,2}/\d{4}$`)

// parseDeliveryDate разбирает срок сдачи: "MM/YYYY" - первое число месяца 00:00
// по локальному времени, иначе произвольный формат даты. Неразборчивое значение - nil.
func parseDeliveryDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if monthYearRe.MatchString(raw) {
		t, err := time.ParseInLocation("1/2006", raw, time.Local)
		if err != nil {
			return nil
		}
		return &t
	}
	return parseTimestamp(raw)
}

// parseTimestamp разбирает метку времени: сначала RFC 3339, затем произвольный формат
func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t
	}
	t, err := dateparse.ParseIn(raw, time.Local)
	if err != nil {
		return nil
	}
	return &t
}

func orDefault(s flexString, def string) string {
	v := strings.TrimSpace(s.Value)
	if !s.Valid || v == "" {
		return def
	}
	return v
}
