package domain

// FilterCatalog - полный набор справочников внешнего каталога (getFilters)
type FilterCatalog struct {
	Cities             []Lookup
	Districts          []District
	DeveloperCompanies []Lookup
	PropertyTypes      []Lookup
	PropertyStatuses   []Lookup
	SalesStatuses      []Lookup
	Facilities         []Lookup
}

// CatalogSaveStats - сколько записей каждого справочника было записано
type CatalogSaveStats struct {
	Saved map[LookupKind]int `json:"saved"`
}

// Total возвращает общее количество записанных строк
func (s *CatalogSaveStats) Total() int {
	total := 0
	for _, n := range s.Saved {
		total += n
	}
	return total
}
