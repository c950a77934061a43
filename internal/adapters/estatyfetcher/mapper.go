package estatyfetcher

import (
	"encoding/json"
	"strings"

	"offplan-service/internal/core/domain"
)

const (
	unknownValue    = "Unknown"
	unnamedPlanName = "Unnamed Plan"
)

// toDomainRecord нормализует детальную запись каталога: null в
// числовых и булевых полях становится нулем, даты разбираются, ссылки на
// справочники превращаются в LookupRef.
func toDomainRecord(p *estatyProperty) *domain.PropertyRecord {
	rec := &domain.PropertyRecord{
		Property: domain.Property{
			ID: p.ID.Value,
			PropertyFields: domain.PropertyFields{
				Title:        p.Title.Value,
				Description:  p.Description.Value,
				Cover:        p.Cover.Value,
				Address:      p.Address.Value,
				AddressText:  p.AddressText.Value,
				DeliveryDate: parseDeliveryDate(p.DeliveryDate.Value),

				CompletionRate:   p.CompletionRate.IntPtr(),
				ResidentialUnits: p.ResidentialUnits.IntPtr(),
				CommercialUnits:  p.CommercialUnits.IntPtr(),
				PaymentPlan:      p.PaymentPlan.IntPtr(),

				PostDelivery:                  p.PostDelivery.Value,
				PaymentMinimumDownPayment:     p.PaymentMinimumDownPayment.Value,
				GuaranteeRentalGuarantee:      p.GuaranteeRentalGuarantee.Value,
				GuaranteeRentalGuaranteeValue: p.GuaranteeRentalGuaranteeValue.Value,
				DownPayment:                   p.DownPayment.Value,
				LowPrice:                      p.LowPrice.Value,
				MinArea:                       p.MinArea.Value,
			},
			UpdatedAt: parseTimestamp(p.UpdatedAt.Value),
		},
		City:           toLookupRef(p.City),
		District:       toLookupRef(p.District),
		Developer:      toLookupRef(p.DeveloperCompany),
		PropertyType:   toLookupRef(p.PropertyType),
		PropertyStatus: toLookupRef(p.PropertyStatus),
		SalesStatus:    toLookupRef(p.SalesStatus),
	}
	if p.District.Valid() {
		rec.DistrictCityID = districtCityID(p.District)
	}
	rec.PropertyLinks = rec.Links()

	rec.Images = make([]domain.PropertyImage, 0, len(p.PropertyImages))
	for _, img := range p.PropertyImages {
		rec.Images = append(rec.Images, domain.PropertyImage{
			Image:     img.Image.Value,
			Type:      int(img.Type.Value),
			CreatedAt: parseTimestamp(img.CreatedAt.Value),
			UpdatedAt: parseTimestamp(img.UpdatedAt.Value),
		})
	}

	rec.GroupedApartments = make([]domain.GroupedApartment, 0, len(p.GroupedApartments))
	for _, raw := range p.GroupedApartments {
		rec.GroupedApartments = append(rec.GroupedApartments, toGroupedApartment(raw))
	}

	rec.Units = make([]domain.PropertyUnit, 0, len(p.PropertyUnits))
	for _, u := range p.PropertyUnits {
		unitCount := 1
		if u.UnitCount.Valid {
			unitCount = int(u.UnitCount.Value)
		}
		rec.Units = append(rec.Units, domain.PropertyUnit{
			ExternalID:      u.ID.Int64Ptr(),
			ApartmentTypeID: u.ApartmentTypeID.Int64Ptr(),
			NoOfBaths:       u.NoOfBaths.IntPtr(),
			Status:          u.Status.Value,
			Area:            u.Area.Ptr(),
			AreaType:        u.AreaType.Value,
			StartArea:       u.StartArea.Ptr(),
			EndArea:         u.EndArea.Ptr(),
			Price:           u.Price.Ptr(),
			PriceType:       u.PriceType.Value,
			StartPrice:      u.StartPrice.Ptr(),
			EndPrice:        u.EndPrice.Ptr(),
			FloorNo:         u.FloorNo.Value,
			AptNo:           u.AptNo.Value,
			FloorPlanImage:  u.FloorPlanImage.Value,
			UnitImage:       u.UnitImage.Value,
			CreatedAt:       parseTimestamp(u.CreatedAt.Value),
			UpdatedAt:       parseTimestamp(u.UpdatedAt.Value),
			UnitCount:       unitCount,
			IsDemand:        u.IsDemand.Value,
		})
	}

	rec.PaymentPlans = make([]domain.PaymentPlan, 0, len(p.PaymentPlans))
	for _, plan := range p.PaymentPlans {
		dp := domain.PaymentPlan{
			Name:        orDefault(plan.Name, unnamedPlanName),
			Description: plan.Description.Value,
			Values:      make([]domain.PaymentPlanValue, 0, len(plan.Values)),
		}
		for _, v := range plan.Values {
			dp.Values = append(dp.Values, domain.PaymentPlanValue{Name: v.Name.Value, Value: v.Value.Value})
		}
		rec.PaymentPlans = append(rec.PaymentPlans, dp)
	}

	rec.Facilities = make([]domain.Lookup, 0, len(p.PropertyFacilities))
	for _, f := range p.PropertyFacilities {
		if f.Ref == nil {
			continue
		}
		rec.Facilities = append(rec.Facilities, domain.Lookup{
			ID:   f.Ref.ID,
			Name: domain.LookupFacility.NameOrDefault(f.Ref.Name),
		})
	}

	return rec
}

func toLookupRef(r *lookupRef) *domain.LookupRef {
	if !r.Valid() {
		return nil
	}
	return &domain.LookupRef{ID: r.ID, Name: r.Name, Detailed: r.Detailed}
}

func districtCityID(r *lookupRef) *int64 {
	if r.CityID != nil {
		return r.CityID
	}
	if r.City.Valid() {
		id := r.City.ID
		return &id
	}
	return nil
}

// toGroupedApartment читает строку с ключами в любом регистре
func toGroupedApartment(raw map[string]json.RawMessage) domain.GroupedApartment {
	normalized := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		normalized[strings.ToLower(k)] = v
	}

	apt := domain.GroupedApartment{UnitType: unknownValue, Rooms: unknownValue}

	var s flexString
	if v, ok := normalized["unit_type"]; ok {
		_ = json.Unmarshal(v, &s)
		apt.UnitType = orDefault(s, unknownValue)
	}
	if v, ok := normalized["rooms"]; ok {
		_ = json.Unmarshal(v, &s)
		apt.Rooms = orDefault(s, unknownValue)
	}

	apt.MinPrice = floatOrZero(normalized, "min_price")
	apt.MinArea = floatOrZero(normalized, "min_area")
	return apt
}

// floatOrZero: отсутствующий ключ - 0, явный null - nil
func floatOrZero(m map[string]json.RawMessage, key string) *float64 {
	v, ok := m[key]
	if !ok {
		zero := 0.0
		return &zero
	}
	var f flexFloat
	_ = json.Unmarshal(v, &f)
	return f.Ptr()
}

func toSummary(s estatySummary) domain.PropertySummary {
	return domain.PropertySummary{
		ID:        positiveID(s.ID),
		Title:     s.Title.Value,
		UpdatedAt: parseTimestamp(s.UpdatedAt.Value),
	}
}

func positiveID(f flexInt) *int64 {
	if !f.Valid || f.Value <= 0 {
		return nil
	}
	return f.Int64Ptr()
}

// toFilterCatalog нормализует ответ getFilters. Районы, у которых город пришел
// вложенным объектом, добавляют этот город в справочник городов.
func toFilterCatalog(f *estatyFilters) *domain.FilterCatalog {
	catalog := &domain.FilterCatalog{
		Cities:             toLookups(f.Cities, domain.LookupCity),
		DeveloperCompanies: toLookups(f.DeveloperCompanies, domain.LookupDeveloper),
		PropertyTypes:      toLookups(f.PropertyTypes, domain.LookupPropertyType),
		PropertyStatuses:   toLookups(f.PropertyStatuses, domain.LookupPropertyStatus),
		SalesStatuses:      toLookups(f.SalesStatuses, domain.LookupSalesStatus),
		Facilities:         toLookups(f.Facilities, domain.LookupFacility),
	}

	knownCities := make(map[int64]bool, len(catalog.Cities))
	for _, c := range catalog.Cities {
		knownCities[c.ID] = true
	}

	for i := range f.Districts {
		d := &f.Districts[i]
		if !d.Valid() {
			continue
		}
		if d.CityID == nil && d.City.Valid() && !knownCities[d.City.ID] {
			catalog.Cities = append(catalog.Cities, domain.Lookup{
				ID:   d.City.ID,
				Name: domain.LookupCity.NameOrDefault(d.City.Name),
			})
			knownCities[d.City.ID] = true
		}
		catalog.Districts = append(catalog.Districts, domain.District{
			Lookup: domain.Lookup{ID: d.ID, Name: domain.LookupDistrict.NameOrDefault(d.Name)},
			CityID: districtCityID(d),
		})
	}
	return catalog
}

func toLookups(refs []lookupRef, kind domain.LookupKind) []domain.Lookup {
	out := make([]domain.Lookup, 0, len(refs))
	for _, r := range refs {
		if !r.Valid() {
			continue
		}
		out = append(out, domain.Lookup{ID: r.ID, Name: kind.NameOrDefault(r.Name)})
	}
	return out
}
