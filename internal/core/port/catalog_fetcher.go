package port

import (
	"context"
	"offplan-service/internal/core/domain"
)

// CatalogFetcherPort - клиент внешнего каталога недвижимости.
// Сетевые ошибки и не-200 ответы не пробрасываются: адаптер логирует их и
// возвращает пустой результат.
type CatalogFetcherPort interface {
	// FetchPage возвращает элементы страницы листинга; пустой срез - конец листинга
	FetchPage(ctx context.Context, page int) []domain.PropertySummary
	// FetchProperty возвращает нормализованную детальную запись или nil
	FetchProperty(ctx context.Context, id int64) *domain.PropertyRecord
	// FetchFilters возвращает справочники каталога или nil
	FetchFilters(ctx context.Context) *domain.FilterCatalog
}
