package constants

import "time"

// Эндпоинты Estaty по умолчанию
const (
	EstatyListingURL  = "https://panel.estaty.app/api/v1/getProperties"
	EstatyPropertyURL = "https://panel.estaty.app/api/v1/getProperty"
	EstatyFiltersURL  = "https://panel.estaty.app/api/v1/getFilters"
)

const EstatyDetailTimeout = 10 * time.Second
