package postgres

import (
	"context"
	"fmt"
	"time"

	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorageAdapter реализует PropertyStoragePort для PostgreSQL.
type PostgresStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewPostgresStorageAdapter создает новый экземпляр адаптера.
func NewPostgresStorageAdapter(pool *pgxpool.Pool) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStorageAdapter{
		pool: pool,
	}, nil
}

const propertyColumns = `
	p.id, p.title, p.description, p.cover, p.address, p.address_text, p.delivery_date,
	p.completion_rate, p.residential_units, p.commercial_units, p.payment_plan,
	p.post_delivery, p.payment_minimum_down_payment, p.guarantee_rental_guarantee,
	p.guarantee_rental_guarantee_value, p.down_payment, p.low_price, p.min_area,
	p.city_id, p.district_id, p.developer_id, p.property_type_id, p.property_status_id, p.sales_status_id,
	p.updated_at`

func scanProperty(row pgx.Row, p *domain.Property) error {
	var updatedAt time.Time
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Cover, &p.Address, &p.AddressText, &p.DeliveryDate,
		&p.CompletionRate, &p.ResidentialUnits, &p.CommercialUnits, &p.PaymentPlan,
		&p.PostDelivery, &p.PaymentMinimumDownPayment, &p.GuaranteeRentalGuarantee,
		&p.GuaranteeRentalGuaranteeValue, &p.DownPayment, &p.LowPrice, &p.MinArea,
		&p.CityID, &p.DistrictID, &p.DeveloperID, &p.PropertyTypeID, &p.PropertyStatusID, &p.SalesStatusID,
		&updatedAt,
	)
	if err != nil {
		return err
	}
	p.UpdatedAt = &updatedAt
	return nil
}

// GetByID возвращает корень объекта без дочерних коллекций
func (a *PostgresStorageAdapter) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	row := a.pool.QueryRow(ctx, "SELECT "+propertyColumns+" FROM properties p WHERE p.id = $1", id)
	if err := scanProperty(row, &p); err != nil {
		if err = mapError(err, nil); err == domain.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get property %d: %w", id, err)
	}
	return &p, nil
}

// Save создает или обновляет объект в рамках одной транзакции: справочники,
// корневая строка и (для вложенной глубины) замена дочерних коллекций.
func (a *PostgresStorageAdapter) Save(ctx context.Context, record *domain.PropertyRecord, opts domain.SaveOptions) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresStorageAdapter",
		"method":      "Save",
		"property_id": record.ID,
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// --- Шаг 1: Справочники ---
	links, err := a.resolveLinks(ctx, tx, record, opts.LookupPolicy)
	if err != nil {
		repoLogger.Error("Failed to resolve lookups", err, nil)
		return err
	}

	// --- Шаг 2: Корневая запись ---
	f := record.PropertyFields
	_, err = tx.Exec(ctx, `
		INSERT INTO properties (
			id, title, description, cover, address, address_text, delivery_date,
			completion_rate, residential_units, commercial_units, payment_plan,
			post_delivery, payment_minimum_down_payment, guarantee_rental_guarantee,
			guarantee_rental_guarantee_value, down_payment, low_price, min_area,
			city_id, district_id, developer_id, property_type_id, property_status_id, sales_status_id,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, COALESCE($25, NOW())
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			cover = EXCLUDED.cover,
			address = EXCLUDED.address,
			address_text = EXCLUDED.address_text,
			delivery_date = EXCLUDED.delivery_date,
			completion_rate = EXCLUDED.completion_rate,
			residential_units = EXCLUDED.residential_units,
			commercial_units = EXCLUDED.commercial_units,
			payment_plan = EXCLUDED.payment_plan,
			post_delivery = EXCLUDED.post_delivery,
			payment_minimum_down_payment = EXCLUDED.payment_minimum_down_payment,
			guarantee_rental_guarantee = EXCLUDED.guarantee_rental_guarantee,
			guarantee_rental_guarantee_value = EXCLUDED.guarantee_rental_guarantee_value,
			down_payment = EXCLUDED.down_payment,
			low_price = EXCLUDED.low_price,
			min_area = EXCLUDED.min_area,
			city_id = EXCLUDED.city_id,
			district_id = EXCLUDED.district_id,
			developer_id = EXCLUDED.developer_id,
			property_type_id = EXCLUDED.property_type_id,
			property_status_id = EXCLUDED.property_status_id,
			sales_status_id = EXCLUDED.sales_status_id,
			updated_at = EXCLUDED.updated_at`,
		record.ID, f.Title, f.Description, f.Cover, f.Address, f.AddressText, f.DeliveryDate,
		f.CompletionRate, f.ResidentialUnits, f.CommercialUnits, f.PaymentPlan,
		f.PostDelivery, f.PaymentMinimumDownPayment, f.GuaranteeRentalGuarantee,
		f.GuaranteeRentalGuaranteeValue, f.DownPayment, f.LowPrice, f.MinArea,
		links.CityID, links.DistrictID, links.DeveloperID, links.PropertyTypeID, links.PropertyStatusID, links.SalesStatusID,
		record.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to upsert property", err, nil)
		return fmt.Errorf("failed to upsert property %d: %w", record.ID, err)
	}

	// --- Шаг 3: Дочерние коллекции ---
	if opts.Depth == domain.DepthNested {
		if err := replaceChildren(ctx, tx, record, opts.LookupPolicy); err != nil {
			repoLogger.Error("Failed to replace nested collections", err, nil)
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	repoLogger.Debug("Property saved", port.Fields{"depth": string(opts.Depth)})
	return nil
}

// resolveLinks разрешает все внешние ключи объекта и привязывает район к городу,
// если у района города еще нет.
func (a *PostgresStorageAdapter) resolveLinks(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord, policy domain.LookupPolicy) (domain.PropertyLinks, error) {
	var (
		links domain.PropertyLinks
		err   error
	)
	refs := []struct {
		kind domain.LookupKind
		ref  *domain.LookupRef
		dst  **int64
	}{
		{domain.LookupCity, record.City, &links.CityID},
		{domain.LookupDistrict, record.District, &links.DistrictID},
		{domain.LookupDeveloper, record.Developer, &links.DeveloperID},
		{domain.LookupPropertyType, record.PropertyType, &links.PropertyTypeID},
		{domain.LookupPropertyStatus, record.PropertyStatus, &links.PropertyStatusID},
		{domain.LookupSalesStatus, record.SalesStatus, &links.SalesStatusID},
	}
	for _, r := range refs {
		if *r.dst, err = resolveLookup(ctx, tx, r.kind, r.ref, policy); err != nil {
			return links, err
		}
	}

	if links.DistrictID != nil {
		cityID := record.DistrictCityID
		if cityID == nil {
			cityID = links.CityID
		}
		if cityID != nil {
			_, err = tx.Exec(ctx, `
				UPDATE districts d SET city_id = c.id
				FROM cities c
				WHERE d.id = $1 AND d.city_id IS NULL AND c.id = $2`,
				*links.DistrictID, *cityID)
			if err != nil {
				return links, fmt.Errorf("failed to attach district %d to city: %w", *links.DistrictID, err)
			}
		}
	}
	return links, nil
}

// UpdateStatus создает статус при необходимости и проставляет его объекту
func (a *PostgresStorageAdapter) UpdateStatus(ctx context.Context, propertyID int64, status domain.LookupRef) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// статус создается даже из голого id: get-or-create по property_status_id
	if err := upsertLookup(ctx, tx, domain.LookupPropertyStatus, status.ID, status.Name); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "UPDATE properties SET property_status_id = $2 WHERE id = $1", propertyID, status.ID)
	if err != nil {
		return fmt.Errorf("failed to update status of property %d: %w", propertyID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

// ListIDs возвращает id всех локальных объектов
func (a *PostgresStorageAdapter) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := a.pool.Query(ctx, "SELECT id FROM properties ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list property ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan property ids: %w", err)
	}
	return ids, nil
}

var _ port.PropertyStoragePort = (*PostgresStorageAdapter)(nil)
