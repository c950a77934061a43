package rest

import (
	"net/http"
	"time"

	"offplan-service/internal/core/domain"
)

// PropertyFilterRequest - тело POST /properties/filter
type PropertyFilterRequest struct {
	City           string `json:"city"`
	Area           string `json:"area"`
	PropertyType   string `json:"property_type"`
	PropertyStatus string `json:"property_status"`
	MinPrice       *int64 `json:"min_price"`
	MaxPrice       *int64 `json:"max_price"`
	MinArea        *int64 `json:"min_area"`
	MaxArea        *int64 `json:"max_area"`
}

// toDomain: нулевые границы не применяются
func (req PropertyFilterRequest) toDomain() domain.PropertyFilter {
	return domain.PropertyFilter{
		City:           req.City,
		Area:           req.Area,
		PropertyType:   req.PropertyType,
		PropertyStatus: req.PropertyStatus,
		MinPrice:       positive(req.MinPrice),
		MaxPrice:       positive(req.MaxPrice),
		MinArea:        positive(req.MinArea),
		MaxArea:        positive(req.MaxArea),
	}
}

func positive(v *int64) *int64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

// PropertyPageResponse - страница листинга
type PropertyPageResponse struct {
	Count           int64                     `json:"count"`
	CurrentPage     int                       `json:"current_page"`
	NextPageURL     *string                   `json:"next_page_url"`
	PreviousPageURL *string                   `json:"previous_page_url"`
	Results         []domain.PropertyListItem `json:"results"`
}

func toPageResponse(r *http.Request, page *domain.PropertyPage) PropertyPageResponse {
	resp := PropertyPageResponse{
		Count:       page.TotalCount,
		CurrentPage: page.CurrentPage,
		Results:     page.Items,
	}
	if page.HasNext() {
		next := pageURL(r, page.CurrentPage+1)
		resp.NextPageURL = &next
	}
	if page.CurrentPage > 1 {
		prev := pageURL(r, page.CurrentPage-1)
		resp.PreviousPageURL = &prev
	}
	return resp
}

// PropertyDetailsResponse - полная карточка объекта
type PropertyDetailsResponse struct {
	ID                            int64                     `json:"id"`
	Title                         string                    `json:"title"`
	Description                   string                    `json:"description"`
	Cover                         string                    `json:"cover"`
	Address                       string                    `json:"address"`
	AddressText                   string                    `json:"address_text"`
	DeliveryDate                  *time.Time                `json:"delivery_date"`
	CompletionRate                *int                      `json:"completion_rate"`
	ResidentialUnits              *int                      `json:"residential_units"`
	CommercialUnits               *int                      `json:"commercial_units"`
	PaymentPlan                   *int                      `json:"payment_plan"`
	PostDelivery                  bool                      `json:"post_delivery"`
	PaymentMinimumDownPayment     int64                     `json:"payment_minimum_down_payment"`
	GuaranteeRentalGuarantee      bool                      `json:"guarantee_rental_guarantee"`
	GuaranteeRentalGuaranteeValue int64                     `json:"guarantee_rental_guarantee_value"`
	DownPayment                   int64                     `json:"downPayment"`
	LowPrice                      int64                     `json:"low_price"`
	MinArea                       int64                     `json:"min_area"`
	UpdatedAt                     *time.Time                `json:"updated_at"`
	City                          *domain.Lookup            `json:"city"`
	District                      *domain.Lookup            `json:"district"`
	DeveloperCompany              *domain.Lookup            `json:"developer_company"`
	PropertyType                  *domain.Lookup            `json:"property_type"`
	PropertyStatus                *domain.Lookup            `json:"property_status"`
	SalesStatus                   *domain.Lookup            `json:"sales_status"`
	GroupedApartments             []domain.GroupedApartment `json:"grouped_apartments"`
	PropertyImages                []domain.PropertyImage    `json:"property_images"`
	PropertyUnits                 []domain.PropertyUnit     `json:"property_units"`
	PaymentPlans                  []domain.PaymentPlan      `json:"payment_plans"`
	Facilities                    []domain.Lookup           `json:"facilities"`
}

func toDetailsResponse(d *domain.PropertyDetails) PropertyDetailsResponse {
	f := d.PropertyFields
	return PropertyDetailsResponse{
		ID:                            d.ID,
		Title:                         f.Title,
		Description:                   f.Description,
		Cover:                         f.Cover,
		Address:                       f.Address,
		AddressText:                   f.AddressText,
		DeliveryDate:                  f.DeliveryDate,
		CompletionRate:                f.CompletionRate,
		ResidentialUnits:              f.ResidentialUnits,
		CommercialUnits:               f.CommercialUnits,
		PaymentPlan:                   f.PaymentPlan,
		PostDelivery:                  f.PostDelivery,
		PaymentMinimumDownPayment:     f.PaymentMinimumDownPayment,
		GuaranteeRentalGuarantee:      f.GuaranteeRentalGuarantee,
		GuaranteeRentalGuaranteeValue: f.GuaranteeRentalGuaranteeValue,
		DownPayment:                   f.DownPayment,
		LowPrice:                      f.LowPrice,
		MinArea:                       f.MinArea,
		UpdatedAt:                     d.UpdatedAt,
		City:                          d.City,
		District:                      d.District,
		DeveloperCompany:              d.Developer,
		PropertyType:                  d.PropertyType,
		PropertyStatus:                d.PropertyStatus,
		SalesStatus:                   d.SalesStatus,
		GroupedApartments:             d.GroupedApartments,
		PropertyImages:                d.Images,
		PropertyUnits:                 d.Units,
		PaymentPlans:                  d.PaymentPlans,
		Facilities:                    d.Facilities,
	}
}

// CreateBlogPostRequest - тело POST /blogs. Переводы заполняет сервис перевода.
type CreateBlogPostRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Image           string `json:"image"`
}

func (req CreateBlogPostRequest) toDomain() domain.BlogPost {
	return domain.BlogPost{
		Slug:            req.Slug,
		Title:           req.Title,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Image:           req.Image,
	}
}
