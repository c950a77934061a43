package domain

import "time"

// PropertiesPageSize - размер страницы публичного листинга
const PropertiesPageSize = 12

// Статусы, по которым считаются счетчики главной страницы
const (
	ReadyStatusID   int64 = 1
	OffPlanStatusID int64 = 2
)

// PropertyFilter - фильтры публичного поиска. Пустые поля не применяются.
type PropertyFilter struct {
	City           string
	Area           string // подстрока названия района
	PropertyType   string
	PropertyStatus string
	MinPrice       *int64
	MaxPrice       *int64
	MinArea        *int64
	MaxArea        *int64
}

// DistrictView - район с городом для карточки листинга
type DistrictView struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	City *Lookup `json:"city"`
}

// PropertyListItem - карточка объекта в листинге
type PropertyListItem struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Cover          string        `json:"cover"`
	Address        string        `json:"address"`
	AddressText    string        `json:"address_text"`
	DeliveryDate   *time.Time    `json:"delivery_date"`
	MinArea        int64         `json:"min_area"`
	LowPrice       int64         `json:"low_price"`
	PropertyType   *int64        `json:"property_type"`
	PropertyStatus *int64        `json:"property_status"`
	SalesStatus    *int64        `json:"sales_status"`
	UpdatedAt      *time.Time    `json:"updated_at"`
	City           *Lookup       `json:"city"`
	District       *DistrictView `json:"district"`
	Developer      *Lookup       `json:"developer"`
}

// PropertyPage - одна страница листинга
type PropertyPage struct {
	Items       []PropertyListItem
	TotalCount  int64
	CurrentPage int
	PageSize    int
}

// HasNext сообщает, есть ли следующая страница
func (p *PropertyPage) HasNext() bool {
	return int64(p.CurrentPage*p.PageSize) < p.TotalCount
}

// PropertyDetails - полная карточка объекта со справочниками и коллекциями
type PropertyDetails struct {
	Property
	City              *Lookup
	District          *Lookup
	Developer         *Lookup
	PropertyType      *Lookup
	PropertyStatus    *Lookup
	SalesStatus       *Lookup
	Images            []PropertyImage
	GroupedApartments []GroupedApartment
	Units             []PropertyUnit
	PaymentPlans      []PaymentPlan
	Facilities        []Lookup
}

// StatusCounts - количество готовых и строящихся объектов
type StatusCounts struct {
	Ready   int64 `json:"ready"`
	OffPlan int64 `json:"offplan"`
}

// CityCount - количество объектов в городе для выбранного статуса
type CityCount struct {
	CityID        *int64  `json:"city_id"`
	CityName      *string `json:"city_name"`
	PropertyCount int64   `json:"property_count"`
	FilterStatus  string  `json:"filter_status"`
}

// TotalStatus - псевдостатус "все объекты" для группировки по городам
const TotalStatus = "Total"
