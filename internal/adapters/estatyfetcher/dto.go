package estatyfetcher

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Внешний каталог непоследовательен в типах: числа приходят строками,
// булевы значения числами, ссылки на справочники то объектом, то голым id.
// Flex-типы принимают все варианты и никогда не возвращают ошибку разбора.

var jsonNull = []byte("null")

// flexInt - целое из числа, строки или bool
type flexInt struct {
	Value int64
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	*f = flexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		f.Value, f.Valid = int64(v), true
	case bool:
		if v {
			f.Value = 1
		}
		f.Valid = true
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			f.Value, f.Valid = n, true
		} else if fl, err := strconv.ParseFloat(s, 64); err == nil {
			f.Value, f.Valid = int64(fl), true
		}
	}
	return nil
}

// IntPtr возвращает значение как *int или nil
func (f flexInt) IntPtr() *int {
	if !f.Valid {
		return nil
	}
	v := int(f.Value)
	return &v
}

func (f flexInt) Int64Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// flexFloat - дробное число из числа или строки
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	*f = flexFloat{}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		f.Value, f.Valid = v, true
	case string:
		if fl, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			f.Value, f.Valid = fl, true
		}
	}
	return nil
}

func (f flexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// flexBool - bool из true/false, 0/1 или строк "true"/"1"
type flexBool struct {
	Value bool
	Valid bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	*f = flexBool{}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case bool:
		f.Value, f.Valid = v, true
	case float64:
		f.Value, f.Valid = v != 0, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			f.Value, f.Valid = parsed, true
		}
	}
	return nil
}

// flexString - строка; числа переводятся в десятичную запись
type flexString struct {
	Value string
	Valid bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = flexString{}
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		f.Value, f.Valid = v, true
	case float64:
		f.Value, f.Valid = strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		f.Value, f.Valid = strconv.FormatBool(v), true
	}
	return nil
}

// lookupRef - ссылка на справочник: объект {id, name, ...} или голый id
type lookupRef struct {
	ID       int64
	Name     string
	Detailed bool
	// только для районов
	CityID *int64
	City   *lookupRef
}

func (r *lookupRef) UnmarshalJSON(b []byte) error {
	*r = lookupRef{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID     flexInt    `json:"id"`
			Name   flexString `json:"name"`
			CityID flexInt    `json:"city_id"`
			City   *lookupRef `json:"city"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil
		}
		r.ID = obj.ID.Value
		r.Name = strings.TrimSpace(obj.Name.Value)
		r.Detailed = obj.ID.Valid
		r.CityID = obj.CityID.Int64Ptr()
		if obj.City != nil && obj.City.Valid() {
			r.City = obj.City
		}
		return nil
	}

	var id flexInt
	_ = id.UnmarshalJSON(b)
	r.ID = id.Value
	r.Detailed = false
	if !id.Valid {
		r.ID = 0
	}
	return nil
}

// Valid - ссылка содержит id
func (r *lookupRef) Valid() bool {
	return r != nil && r.ID != 0
}

type estatyListingResponse struct {
	Properties *struct {
		Data []estatySummary `json:"data"`
	} `json:"properties"`
	// иногда вместо страницы приходит одиночный объект
	Property *estatySummary `json:"property"`
}

type estatySummary struct {
	ID        flexInt    `json:"id"`
	Title     flexString `json:"title"`
	UpdatedAt flexString `json:"updated_at"`
}

type estatyPropertyResponse struct {
	Property json.RawMessage `json:"property"`
}

type estatyProperty struct {
	ID                            flexInt    `json:"id"`
	Title                         flexString `json:"title"`
	Description                   flexString `json:"description"`
	Cover                         flexString `json:"cover"`
	Address                       flexString `json:"address"`
	AddressText                   flexString `json:"address_text"`
	DeliveryDate                  flexString `json:"delivery_date"`
	CompletionRate                flexInt    `json:"completion_rate"`
	ResidentialUnits              flexInt    `json:"residential_units"`
	CommercialUnits               flexInt    `json:"commercial_units"`
	PaymentPlan                   flexInt    `json:"payment_plan"`
	PostDelivery                  flexBool   `json:"post_delivery"`
	PaymentMinimumDownPayment     flexInt    `json:"payment_minimum_down_payment"`
	GuaranteeRentalGuarantee      flexBool   `json:"guarantee_rental_guarantee"`
	GuaranteeRentalGuaranteeValue flexInt    `json:"guarantee_rental_guarantee_value"`
	DownPayment                   flexInt    `json:"downPayment"`
	LowPrice                      flexInt    `json:"low_price"`
	MinArea                       flexInt    `json:"min_area"`
	UpdatedAt                     flexString `json:"updated_at"`

	City             *lookupRef `json:"city"`
	District         *lookupRef `json:"district"`
	DeveloperCompany *lookupRef `json:"developer_company"`
	PropertyType     *lookupRef `json:"property_type"`
	PropertyStatus   *lookupRef `json:"property_status"`
	SalesStatus      *lookupRef `json:"sales_status"`

	PropertyImages     []estatyImage                `json:"property_images"`
	GroupedApartments  []map[string]json.RawMessage `json:"grouped_apartments"`
	PropertyUnits      []estatyUnit                 `json:"property_units"`
	PaymentPlans       []estatyPaymentPlan          `json:"payment_plans"`
	PropertyFacilities []estatyFacility             `json:"property_facilities"`
}

type estatyImage struct {
	Image     flexString `json:"image"`
	Type      flexInt    `json:"type"`
	CreatedAt flexString `json:"created_at"`
	UpdatedAt flexString `json:"updated_at"`
}

type estatyUnit struct {
	ID              flexInt    `json:"id"`
	ApartmentTypeID flexInt    `json:"apartment_type_id"`
	NoOfBaths       flexInt    `json:"no_of_baths"`
	Status          flexString `json:"status"`
	Area            flexFloat  `json:"area"`
	AreaType        flexString `json:"area_type"`
	StartArea       flexFloat  `json:"start_area"`
	EndArea         flexFloat  `json:"end_area"`
	Price           flexFloat  `json:"price"`
	PriceType       flexString `json:"price_type"`
	StartPrice      flexFloat  `json:"start_price"`
	EndPrice        flexFloat  `json:"end_price"`
	FloorNo         flexString `json:"floor_no"`
	AptNo           flexString `json:"apt_no"`
	FloorPlanImage  flexString `json:"floor_plan_image"`
	UnitImage       flexString `json:"unit_image"`
	CreatedAt       flexString `json:"created_at"`
	UpdatedAt       flexString `json:"updated_at"`
	UnitCount       flexInt    `json:"unit_count"`
	IsDemand        flexBool   `json:"is_demand"`
}

type estatyPaymentPlan struct {
	Name        flexString `json:"name"`
	Description flexString `json:"description"`
	Values      []struct {
		Name  flexString `json:"name"`
		Value flexString `json:"value"`
	} `json:"values"`
}

// estatyFacility - либо {"facility": {...}}, либо сам объект удобства
type estatyFacility struct {
	Ref *lookupRef
}

func (f *estatyFacility) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		Facility *lookupRef `json:"facility"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Facility.Valid() {
		f.Ref = wrapped.Facility
		return nil
	}
	var ref lookupRef
	_ = ref.UnmarshalJSON(b)
	if ref.Valid() {
		f.Ref = &ref
	}
	return nil
}

type estatyFilters struct {
	Cities             []lookupRef `json:"cities"`
	Districts          []lookupRef `json:"districts"`
	DeveloperCompanies []lookupRef `json:"developer_companies"`
	PropertyTypes      []lookupRef `json:"property_types"`
	PropertyStatuses   []lookupRef `json:"property_statuses"`
	SalesStatuses      []lookupRef `json:"sales_statuses"`
	Facilities         []lookupRef `json:"facilities"`
}
