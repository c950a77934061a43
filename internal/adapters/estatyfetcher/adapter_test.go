package estatyfetcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"offplan-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "secret-key"

type upstream struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	server   *httptest.Server
}

// newUpstream поднимает фейковый API с тремя эндпоинтами
func newUpstream(t *testing.T, listing, property, filters http.HandlerFunc) (*upstream, *EstatyFetcherAdapter) {
	t.Helper()
	u := &upstream{}
	record := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			u.mu.Lock()
			u.requests = append(u.requests, r)
			u.bodies = append(u.bodies, string(body))
			u.mu.Unlock()
			if next == nil {
				http.NotFound(w, r)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/getProperties", record(listing))
	mux.HandleFunc("/api/v1/getProperty", record(property))
	mux.HandleFunc("/api/v1/getFilters", record(filters))
	u.server = httptest.NewServer(mux)
	t.Cleanup(u.server.Close)

	adapter, err := NewEstatyFetcherAdapter(Config{
		APIKey:        testAPIKey,
		ListingURL:    u.server.URL + "/api/v1/getProperties",
		PropertyURL:   u.server.URL + "/api/v1/getProperty",
		FiltersURL:    u.server.URL + "/api/v1/getFilters",
		DetailTimeout: 500 * time.Millisecond,
	})
	require.NoError(t, err)
	return u, adapter
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewEstatyFetcherAdapter_RequiresKey(t *testing.T) {
	_, err := NewEstatyFetcherAdapter(Config{ListingURL: "https://panel.estaty.app/api/v1/getProperties"})
	assert.Error(t, err)

	_, err = NewEstatyFetcherAdapter(Config{APIKey: "k", ListingURL: "::bad", PropertyURL: "x", FiltersURL: "y"})
	assert.Error(t, err)
}

func TestFetchPage(t *testing.T) {
	u, adapter := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			writeJSON(w, http.StatusOK, `{"properties":{"current_page":1,"data":[
				{"id": 10, "title": "Creek Vista", "updated_at": "2025-03-01T10:00:00.000000Z"},
				{"id": "11", "title": "Numeric string id"},
				{"title": "No id"}
			]}}`)
		case "2":
			writeJSON(w, http.StatusOK, `{"properties":{"data":[]}}`)
		default:
			writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
		}
	}, nil, nil)

	ctx := context.Background()
	items := adapter.FetchPage(ctx, 1)
	require.Len(t, items, 3)
	require.NotNil(t, items[0].ID)
	assert.Equal(t, int64(10), *items[0].ID)
	assert.Equal(t, "Creek Vista", items[0].Title)
	require.NotNil(t, items[0].UpdatedAt)
	assert.Equal(t, 2025, items[0].UpdatedAt.Year())
	assert.Equal(t, int64(11), *items[1].ID)
	assert.Nil(t, items[2].ID)

	assert.Empty(t, adapter.FetchPage(ctx, 2))
	assert.Empty(t, adapter.FetchPage(ctx, 3), "non-200 page is treated as empty")

	u.mu.Lock()
	defer u.mu.Unlock()
	require.Len(t, u.requests, 3)
	first := u.requests[0]
	assert.Equal(t, http.MethodPost, first.Method)
	assert.Equal(t, testAPIKey, first.Header.Get("App-key"))
	assert.Equal(t, "application/json", first.Header.Get("Content-Type"))
	assert.NotEmpty(t, first.Header.Get("User-Agent"))
	assert.Equal(t, "", first.URL.RawQuery)
	assert.Equal(t, "page=2", u.requests[1].URL.RawQuery)
	assert.JSONEq(t, `{}`, u.bodies[0])
}

func TestFetchPage_UnexpectedStructure(t *testing.T) {
	_, adapter := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":[{"id":1}]}`)
	}, nil, nil)
	assert.Empty(t, adapter.FetchPage(context.Background(), 1))
}

func TestFetchPage_SinglePropertyResponse(t *testing.T) {
	_, adapter := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"property":{"id":77,"title":"Solo"}}`)
	}, nil, nil)
	items := adapter.FetchPage(context.Background(), 1)
	require.Len(t, items, 1)
	assert.Equal(t, int64(77), *items[0].ID)
}

const fullProperty = `{"property":{
	"id": 501,
	"title": "Sobha Hartland II",
	"description": "Waterfront living",
	"cover": "https://cdn.example/cover.jpg",
	"address": "MBR City",
	"address_text": "Mohammed Bin Rashid City, Dubai",
	"delivery_date": "03/2027",
	"completion_rate": "35",
	"residential_units": 420,
	"commercial_units": null,
	"payment_plan": 1,
	"post_delivery": null,
	"payment_minimum_down_payment": 10,
	"guarantee_rental_guarantee": 1,
	"guarantee_rental_guarantee_value": null,
	"downPayment": "20",
	"low_price": 1450000.0,
	"min_area": null,
	"updated_at": "2025-05-20T08:30:00.000000Z",
	"city": {"id": 1, "name": "Dubai"},
	"district": {"id": 12, "name": "MBR City", "city_id": 1},
	"developer_company": {"id": 7, "name": "Sobha"},
	"property_type": 3,
	"property_status": {"id": 2, "name": "Off Plan"},
	"sales_status": null,
	"property_images": [{"image": "a.jpg", "type": 1, "created_at": "2025-01-01 10:00:00"}],
	"grouped_apartments": [
		{"Unit_Type": "Apartment", "ROOMS": "2BR", "Min_Price": "1450000", "min_area": 1100.5},
		{"unit_type": null, "min_price": null}
	],
	"property_units": [{"id": 9001, "price": "1500000", "status": "available", "is_demand": 0}],
	"payment_plans": [
		{"name": "60/40", "description": null, "values": [{"name": "On booking", "value": "10%"}]},
		{"name": null, "values": []}
	],
	"property_facilities": [
		{"facility": {"id": 4, "name": "Pool"}},
		{"id": 5, "name": "Gym"},
		{"id": 6}
	]
}}`

func TestFetchProperty_Normalizes(t *testing.T) {
	u, adapter := newUpstream(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fullProperty)
	}, nil)

	rec := adapter.FetchProperty(context.Background(), 501)
	require.NotNil(t, rec)

	u.mu.Lock()
	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(u.bodies[0]), &sent))
	u.mu.Unlock()
	assert.Equal(t, float64(501), sent["id"])

	assert.Equal(t, int64(501), rec.ID)
	assert.Equal(t, "Sobha Hartland II", rec.Title)

	require.NotNil(t, rec.DeliveryDate)
	assert.True(t, rec.DeliveryDate.Equal(time.Date(2027, time.March, 1, 0, 0, 0, 0, time.Local)))

	require.NotNil(t, rec.CompletionRate)
	assert.Equal(t, 35, *rec.CompletionRate)
	assert.Nil(t, rec.CommercialUnits)
	assert.False(t, rec.PostDelivery, "null bool is normalized to false")
	assert.True(t, rec.GuaranteeRentalGuarantee)
	assert.Equal(t, int64(0), rec.GuaranteeRentalGuaranteeValue)
	assert.Equal(t, int64(20), rec.DownPayment)
	assert.Equal(t, int64(1450000), rec.LowPrice)
	assert.Equal(t, int64(0), rec.MinArea)
	require.NotNil(t, rec.UpdatedAt)

	require.NotNil(t, rec.City)
	assert.True(t, rec.City.Detailed)
	assert.Equal(t, "Dubai", rec.City.Name)
	require.NotNil(t, rec.District)
	require.NotNil(t, rec.DistrictCityID)
	assert.Equal(t, int64(1), *rec.DistrictCityID)
	require.NotNil(t, rec.PropertyType)
	assert.False(t, rec.PropertyType.Detailed, "bare id is a lookup-only reference")
	assert.Equal(t, int64(3), rec.PropertyType.ID)
	assert.Nil(t, rec.SalesStatus)
	require.NotNil(t, rec.PropertyStatusID)
	assert.Equal(t, int64(2), *rec.PropertyStatusID)

	require.Len(t, rec.Images, 1)
	require.NotNil(t, rec.Images[0].CreatedAt)

	require.Len(t, rec.GroupedApartments, 2)
	assert.Equal(t, "Apartment", rec.GroupedApartments[0].UnitType)
	assert.Equal(t, "2BR", rec.GroupedApartments[0].Rooms)
	require.NotNil(t, rec.GroupedApartments[0].MinPrice)
	assert.Equal(t, 1450000.0, *rec.GroupedApartments[0].MinPrice)
	assert.Equal(t, "Unknown", rec.GroupedApartments[1].UnitType)
	assert.Equal(t, "Unknown", rec.GroupedApartments[1].Rooms)
	assert.Nil(t, rec.GroupedApartments[1].MinPrice)
	require.NotNil(t, rec.GroupedApartments[1].MinArea)
	assert.Equal(t, 0.0, *rec.GroupedApartments[1].MinArea)

	require.Len(t, rec.Units, 1)
	assert.Equal(t, int64(9001), *rec.Units[0].ExternalID)
	assert.Equal(t, 1, rec.Units[0].UnitCount)
	assert.Equal(t, 1500000.0, *rec.Units[0].Price)

	require.Len(t, rec.PaymentPlans, 2)
	assert.Equal(t, "", rec.PaymentPlans[0].Description)
	require.Len(t, rec.PaymentPlans[0].Values, 1)
	assert.Equal(t, "Unnamed Plan", rec.PaymentPlans[1].Name)

	assert.Equal(t, []domain.Lookup{
		{ID: 4, Name: "Pool"},
		{ID: 5, Name: "Gym"},
		{ID: 6, Name: "Unnamed Facility"},
	}, rec.Facilities)
}

func TestFetchProperty_Absent(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"property":null,"error":{"message":"No property found with this ID.","code":"not_found"}}`)
		},
		"null property": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"property":null}`)
		},
		"schema violation": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"property":{"title":"missing id"}}`)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `<html>`)
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			writeJSON(w, http.StatusOK, `{"property":{"id":1}}`)
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			_, adapter := newUpstream(t, nil, handler, nil)
			assert.Nil(t, adapter.FetchProperty(context.Background(), 1))
		})
	}
}

func TestFetchFilters(t *testing.T) {
	_, adapter := newUpstream(t, nil, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"cities": [{"id": 1, "name": "Dubai"}],
			"districts": [
				{"id": 10, "name": "Marina", "city_id": 1},
				{"id": 11, "name": "Saadiyat", "city": {"id": 2, "name": "Abu Dhabi"}},
				{"id": 12}
			],
			"developer_companies": [{"id": 3, "name": "Emaar"}, {"name": "no id"}],
			"property_types": [{"id": 1, "name": "Apartment"}],
			"property_statuses": [{"id": 1, "name": "Ready"}, {"id": 2, "name": "Off Plan"}],
			"sales_statuses": [],
			"facilities": [{"id": 4, "name": "Pool"}]
		}`)
	})

	catalog := adapter.FetchFilters(context.Background())
	require.NotNil(t, catalog)

	assert.Equal(t, []domain.Lookup{{ID: 1, Name: "Dubai"}, {ID: 2, Name: "Abu Dhabi"}}, catalog.Cities)
	require.Len(t, catalog.Districts, 3)
	assert.Equal(t, int64(1), *catalog.Districts[0].CityID)
	assert.Equal(t, int64(2), *catalog.Districts[1].CityID)
	assert.Nil(t, catalog.Districts[2].CityID)
	assert.Equal(t, "Unnamed District", catalog.Districts[2].Name)
	assert.Len(t, catalog.DeveloperCompanies, 1)
	assert.Len(t, catalog.PropertyStatuses, 2)
	assert.Empty(t, catalog.SalesStatuses)
}

func TestFetchFilters_Failure(t *testing.T) {
	_, adapter := newUpstream(t, nil, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"Invalid App-key"}`)
	})
	assert.Nil(t, adapter.FetchFilters(context.Background()))
}
