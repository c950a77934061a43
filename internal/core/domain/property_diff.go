package domain

import "time"

// FirstDifference сравнивает локальный объект с нормализованной внешней записью
// и возвращает имя первого отличающегося поля или "" если отличий нет.
// Сначала сравниваются скалярные поля, затем внешние ключи.
func (p *Property) FirstDifference(ext *PropertyRecord) string {
	l, e := p.PropertyFields, ext.PropertyFields

	switch {
	case l.Title != e.Title:
		return "title"
	case l.Description != e.Description:
		return "description"
	case l.Cover != e.Cover:
		return "cover"
	case l.Address != e.Address:
		return "address"
	case l.AddressText != e.AddressText:
		return "address_text"
	case !equalTime(l.DeliveryDate, e.DeliveryDate):
		return "delivery_date"
	case !equalInt(l.CompletionRate, e.CompletionRate):
		return "completion_rate"
	case !equalInt(l.ResidentialUnits, e.ResidentialUnits):
		return "residential_units"
	case !equalInt(l.CommercialUnits, e.CommercialUnits):
		return "commercial_units"
	case !equalInt(l.PaymentPlan, e.PaymentPlan):
		return "payment_plan"
	case l.PostDelivery != e.PostDelivery:
		return "post_delivery"
	case l.PaymentMinimumDownPayment != e.PaymentMinimumDownPayment:
		return "payment_minimum_down_payment"
	case l.GuaranteeRentalGuarantee != e.GuaranteeRentalGuarantee:
		return "guarantee_rental_guarantee"
	case l.GuaranteeRentalGuaranteeValue != e.GuaranteeRentalGuaranteeValue:
		return "guarantee_rental_guarantee_value"
	case l.DownPayment != e.DownPayment:
		return "downPayment"
	case l.LowPrice != e.LowPrice:
		return "low_price"
	case l.MinArea != e.MinArea:
		return "min_area"
	}

	ll, el := p.PropertyLinks, ext.Links()
	switch {
	case !equalID(ll.CityID, el.CityID):
		return "city"
	case !equalID(ll.DistrictID, el.DistrictID):
		return "district"
	case !equalID(ll.DeveloperID, el.DeveloperID):
		return "developer"
	case !equalID(ll.PropertyTypeID, el.PropertyTypeID):
		return "property_type"
	case !equalID(ll.PropertyStatusID, el.PropertyStatusID):
		return "property_status"
	case !equalID(ll.SalesStatusID, el.SalesStatusID):
		return "sales_status"
	}
	return ""
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
