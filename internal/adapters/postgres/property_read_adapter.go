package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/jackc/pgx/v5"
)

// nullLookup собирает справочник из LEFT JOIN колонок
func nullLookup(id *int64, name *string) *domain.Lookup {
	if id == nil {
		return nil
	}
	l := &domain.Lookup{ID: *id}
	if name != nil {
		l.Name = *name
	}
	return l
}

// FindPage ищет объекты по фильтрам; страница нумеруется с 1
func (a *PostgresStorageAdapter) FindPage(ctx context.Context, filter domain.PropertyFilter, page, pageSize int) (*domain.PropertyPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "FindPage",
		"page":      page,
		"page_size": pageSize,
	})

	whereClause, args := applyFilters(filter)

	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties p %s %s", listingJoins, whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count properties with filters", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count properties with filters: %w", err)
	}

	result := &domain.PropertyPage{
		Items:       []domain.PropertyListItem{},
		TotalCount:  totalCount,
		CurrentPage: page,
		PageSize:    pageSize,
	}
	if totalCount == 0 {
		return result, nil
	}

	var dataQuery strings.Builder
	dataQuery.WriteString(`
		SELECT
			p.id, p.title, p.cover, p.address, p.address_text, p.delivery_date, p.min_area, p.low_price,
			p.property_type_id, p.property_status_id, p.sales_status_id, p.updated_at,
			c.id, c.name, d.id, d.name, dc.id, dc.name, dev.id, dev.name
		FROM properties p`)
	dataQuery.WriteString(listingJoins)
	dataQuery.WriteString(" ")
	dataQuery.WriteString(whereClause)
	dataQuery.WriteString(" ORDER BY p.updated_at DESC, p.id DESC")

	pageArgs := append(args, pageSize, (page-1)*pageSize)
	pageQuery := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", dataQuery.String(), len(args)+1, len(args)+2)

	rows, err := tx.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		repoLogger.Error("Failed to find properties", err, port.Fields{"query": pageQuery})
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item                                    domain.PropertyListItem
			updatedAt                               time.Time
			cityID, districtID, dcID, developerID   *int64
			cityName, districtName, dcName, devName *string
		)
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Cover, &item.Address, &item.AddressText, &item.DeliveryDate,
			&item.MinArea, &item.LowPrice, &item.PropertyType, &item.PropertyStatus, &item.SalesStatus, &updatedAt,
			&cityID, &cityName, &districtID, &districtName, &dcID, &dcName, &developerID, &devName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		item.UpdatedAt = &updatedAt
		item.City = nullLookup(cityID, cityName)
		item.Developer = nullLookup(developerID, devName)
		if district := nullLookup(districtID, districtName); district != nil {
			item.District = &domain.DistrictView{ID: district.ID, Name: district.Name, City: nullLookup(dcID, dcName)}
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during properties iteration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Properties page found", port.Fields{"count": len(result.Items), "total_count": totalCount})
	return result, nil
}

// GetDetails собирает полную карточку объекта: корень, справочники и коллекции
func (a *PostgresStorageAdapter) GetDetails(ctx context.Context, id int64) (*domain.PropertyDetails, error) {
	tx, err := a.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		details domain.PropertyDetails
		ids     [6]*int64
		names   [6]*string
	)
	row := tx.QueryRow(ctx, "SELECT "+propertyColumns+`,
			c.id, c.name, d.id, d.name, dev.id, dev.name,
			pt.id, pt.name, ps.id, ps.name, ss.id, ss.name
		FROM properties p
		LEFT JOIN cities c ON c.id = p.city_id
		LEFT JOIN districts d ON d.id = p.district_id
		LEFT JOIN developer_companies dev ON dev.id = p.developer_id
		LEFT JOIN property_types pt ON pt.id = p.property_type_id
		LEFT JOIN property_statuses ps ON ps.id = p.property_status_id
		LEFT JOIN sales_statuses ss ON ss.id = p.sales_status_id
		WHERE p.id = $1`, id)

	var updatedAt time.Time
	p := &details.Property
	err = row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Cover, &p.Address, &p.AddressText, &p.DeliveryDate,
		&p.CompletionRate, &p.ResidentialUnits, &p.CommercialUnits, &p.PaymentPlan,
		&p.PostDelivery, &p.PaymentMinimumDownPayment, &p.GuaranteeRentalGuarantee,
		&p.GuaranteeRentalGuaranteeValue, &p.DownPayment, &p.LowPrice, &p.MinArea,
		&p.CityID, &p.DistrictID, &p.DeveloperID, &p.PropertyTypeID, &p.PropertyStatusID, &p.SalesStatusID,
		&updatedAt,
		&ids[0], &names[0], &ids[1], &names[1], &ids[2], &names[2],
		&ids[3], &names[3], &ids[4], &names[4], &ids[5], &names[5],
	)
	if err != nil {
		if err = mapError(err, nil); err == domain.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get property %d: %w", id, err)
	}
	p.UpdatedAt = &updatedAt
	details.City = nullLookup(ids[0], names[0])
	details.District = nullLookup(ids[1], names[1])
	details.Developer = nullLookup(ids[2], names[2])
	details.PropertyType = nullLookup(ids[3], names[3])
	details.PropertyStatus = nullLookup(ids[4], names[4])
	details.SalesStatus = nullLookup(ids[5], names[5])

	if err := loadChildren(ctx, tx, &details); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &details, nil
}

func loadChildren(ctx context.Context, tx pgx.Tx, details *domain.PropertyDetails) error {
	id := details.ID

	rows, _ := tx.Query(ctx, `SELECT image, type, created_at, updated_at
		FROM property_images WHERE property_id = $1 ORDER BY id`, id)
	images, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.PropertyImage])
	if err != nil {
		return fmt.Errorf("failed to load images of property %d: %w", id, err)
	}
	details.Images = images

	rows, _ = tx.Query(ctx, `SELECT unit_type, rooms, min_price, min_area
		FROM grouped_apartments WHERE property_id = $1 ORDER BY id`, id)
	apartments, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.GroupedApartment])
	if err != nil {
		return fmt.Errorf("failed to load grouped apartments of property %d: %w", id, err)
	}
	details.GroupedApartments = apartments

	rows, _ = tx.Query(ctx, "SELECT "+strings.Join(unitSelectColumns, ", ")+`
		FROM property_units WHERE property_id = $1 ORDER BY id`, id)
	units, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.PropertyUnit])
	if err != nil {
		return fmt.Errorf("failed to load units of property %d: %w", id, err)
	}
	details.Units = units

	plans, err := loadPaymentPlans(ctx, tx, id)
	if err != nil {
		return err
	}
	details.PaymentPlans = plans

	rows, _ = tx.Query(ctx, `SELECT f.id, f.name FROM property_facilities pf
		JOIN facilities f ON f.id = pf.facility_id
		WHERE pf.property_id = $1 ORDER BY f.name, f.id`, id)
	facilities, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Lookup])
	if err != nil {
		return fmt.Errorf("failed to load facilities of property %d: %w", id, err)
	}
	details.Facilities = facilities
	return nil
}

// unitSelectColumns - колонки юнита в порядке полей domain.PropertyUnit
var unitSelectColumns = []string{
	"external_id", "apartment_type_id", "no_of_baths", "status", "area", "area_type",
	"start_area", "end_area", "price", "price_type", "start_price", "end_price", "floor_no", "apt_no",
	"floor_plan_image", "unit_image", "created_at", "updated_at", "unit_count", "is_demand",
}

func loadPaymentPlans(ctx context.Context, tx pgx.Tx, propertyID int64) ([]domain.PaymentPlan, error) {
	rows, err := tx.Query(ctx, `
		SELECT pp.id, pp.name, pp.description, v.name, v.value
		FROM payment_plans pp
		LEFT JOIN payment_plan_values v ON v.payment_plan_id = pp.id
		WHERE pp.property_id = $1
		ORDER BY pp.id, v.id`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment plans of property %d: %w", propertyID, err)
	}
	defer rows.Close()

	plans := []domain.PaymentPlan{}
	lastID := int64(-1)
	for rows.Next() {
		var (
			planID            int64
			name, description string
			valueName, value  *string
		)
		if err := rows.Scan(&planID, &name, &description, &valueName, &value); err != nil {
			return nil, fmt.Errorf("failed to scan payment plan: %w", err)
		}
		if planID != lastID {
			plans = append(plans, domain.PaymentPlan{Name: name, Description: description, Values: []domain.PaymentPlanValue{}})
			lastID = planID
		}
		if valueName != nil {
			current := &plans[len(plans)-1]
			current.Values = append(current.Values, domain.PaymentPlanValue{Name: *valueName, Value: *value})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during payment plans iteration: %w", err)
	}
	return plans, nil
}

// CountByStatusIDs считает готовые и строящиеся объекты одним запросом
func (a *PostgresStorageAdapter) CountByStatusIDs(ctx context.Context, readyID, offPlanID int64) (*domain.StatusCounts, error) {
	var counts domain.StatusCounts
	err := a.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE property_status_id = $1),
			COUNT(*) FILTER (WHERE property_status_id = $2)
		FROM properties`, readyID, offPlanID).Scan(&counts.Ready, &counts.OffPlan)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties by status: %w", err)
	}
	return &counts, nil
}

// CountByCity группирует объекты по городу. Объекты без города попадают в
// группу с пустым city_id.
func (a *PostgresStorageAdapter) CountByCity(ctx context.Context, statusID *int64) ([]domain.CityCount, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(p.id)
		FROM properties p
		LEFT JOIN cities c ON c.id = p.city_id
		WHERE $1::bigint IS NULL OR p.property_status_id = $1
		GROUP BY c.id, c.name
		ORDER BY COUNT(p.id) DESC, c.name`, statusID)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties by city: %w", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CityCount, error) {
		var cc domain.CityCount
		err := row.Scan(&cc.CityID, &cc.CityName, &cc.PropertyCount)
		return cc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan city counts: %w", err)
	}
	return counts, nil
}
