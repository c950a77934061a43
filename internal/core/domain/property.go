package domain

import "time"

// LookupKind - справочники, на которые ссылается объект недвижимости
type LookupKind string

const (
	LookupCity           LookupKind = "city"
	LookupDistrict       LookupKind = "district"
	LookupDeveloper      LookupKind = "developer_company"
	LookupPropertyType   LookupKind = "property_type"
	LookupPropertyStatus LookupKind = "property_status"
	LookupSalesStatus    LookupKind = "sales_status"
	LookupFacility       LookupKind = "facility"
)

var unnamedLookup = map[LookupKind]string{
	LookupCity:           "Unnamed City",
	LookupDistrict:       "Unnamed District",
	LookupDeveloper:      "Unnamed DeveloperCompany",
	LookupPropertyType:   "Unnamed PropertyType",
	LookupPropertyStatus: "Unnamed PropertyStatus",
	LookupSalesStatus:    "Unnamed SalesStatus",
	LookupFacility:       "Unnamed Facility",
}

// NameOrDefault возвращает name или имя-заглушку справочника, если name пустое
func (k LookupKind) NameOrDefault(name string) string {
	if name != "" {
		return name
	}
	return unnamedLookup[k]
}

// Lookup - запись справочника. ID совпадает с id во внешнем каталоге.
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// District - район, опционально привязанный к городу
type District struct {
	Lookup
	CityID *int64 `json:"city_id"`
}

// LookupRef - ссылка на справочник из внешней записи.
// Detailed=false означает, что пришел "голый" id без объекта: такая ссылка
// разрешается только поиском, без создания строки справочника.
type LookupRef struct {
	ID       int64
	Name     string
	Detailed bool
}

// PropertyFields - скалярные поля объекта, участвующие в сравнении
type PropertyFields struct {
	Title        string
	Description  string
	Cover        string
	Address      string
	AddressText  string
	DeliveryDate *time.Time

	CompletionRate   *int
	ResidentialUnits *int
	CommercialUnits  *int
	PaymentPlan      *int

	// Поля ниже нормализуются в ноль, если во внешнем каталоге null
	PostDelivery                  bool
	PaymentMinimumDownPayment     int64
	GuaranteeRentalGuarantee      bool
	GuaranteeRentalGuaranteeValue int64
	DownPayment                   int64
	LowPrice                      int64
	MinArea                       int64
}

// PropertyLinks - внешние ключи объекта на справочники
type PropertyLinks struct {
	CityID           *int64
	DistrictID       *int64
	DeveloperID      *int64
	PropertyTypeID   *int64
	PropertyStatusID *int64
	SalesStatusID    *int64
}

// Property - локальная запись объекта (корень агрегата)
type Property struct {
	ID int64
	PropertyFields
	PropertyLinks
	UpdatedAt *time.Time
}

// PropertyImage - изображение объекта
type PropertyImage struct {
	Image     string     `json:"image"`
	Type      int        `json:"type"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// GroupedApartment - агрегированная строка "тип юнита / комнаты"
type GroupedApartment struct {
	UnitType string   `json:"unit_type"`
	Rooms    string   `json:"rooms"`
	MinPrice *float64 `json:"min_price"`
	MinArea  *float64 `json:"min_area"`
}

// PaymentPlanValue - шаг плана оплаты
type PaymentPlanValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentPlan - план оплаты с шагами
type PaymentPlan struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Values      []PaymentPlanValue `json:"values"`
}

// PropertyUnit - отдельный юнит (квартира, офис) в объекте
type PropertyUnit struct {
	ExternalID      *int64     `json:"id"`
	ApartmentTypeID *int64     `json:"apartment_type_id"`
	NoOfBaths       *int       `json:"no_of_baths"`
	Status          string     `json:"status"`
	Area            *float64   `json:"area"`
	AreaType        string     `json:"area_type"`
	StartArea       *float64   `json:"start_area"`
	EndArea         *float64   `json:"end_area"`
	Price           *float64   `json:"price"`
	PriceType       string     `json:"price_type"`
	StartPrice      *float64   `json:"start_price"`
	EndPrice        *float64   `json:"end_price"`
	FloorNo         string     `json:"floor_no"`
	AptNo           string     `json:"apt_no"`
	FloorPlanImage  string     `json:"floor_plan_image"`
	UnitImage       string     `json:"unit_image"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	UnitCount       int        `json:"unit_count"`
	IsDemand        bool       `json:"is_demand"`
}

// PropertyRecord - нормализованная внешняя запись, готовая к сравнению и записи
type PropertyRecord struct {
	Property

	City           *LookupRef
	District       *LookupRef
	DistrictCityID *int64 // город района, если пришел в объекте района
	Developer      *LookupRef
	PropertyType   *LookupRef
	PropertyStatus *LookupRef
	SalesStatus    *LookupRef

	Images            []PropertyImage
	GroupedApartments []GroupedApartment
	Units             []PropertyUnit
	PaymentPlans      []PaymentPlan
	Facilities        []Lookup
}

// PropertySummary - элемент страницы листинга внешнего каталога.
// ID == nil, если внешний элемент пришел без id.
type PropertySummary struct {
	ID        *int64
	Title     string
	UpdatedAt *time.Time
}

// refID возвращает id ссылки или nil
func refID(ref *LookupRef) *int64 {
	if ref == nil {
		return nil
	}
	id := ref.ID
	return &id
}

// Links собирает внешние ключи из ссылок записи
func (r *PropertyRecord) Links() PropertyLinks {
	return PropertyLinks{
		CityID:           refID(r.City),
		DistrictID:       refID(r.District),
		DeveloperID:      refID(r.Developer),
		PropertyTypeID:   refID(r.PropertyType),
		PropertyStatusID: refID(r.PropertyStatus),
		SalesStatusID:    refID(r.SalesStatus),
	}
}
