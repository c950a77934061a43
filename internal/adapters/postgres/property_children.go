package postgres

import (
	"context"
	"fmt"

	"offplan-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// replaceChildren удаляет и заново создает вложенные коллекции объекта
func replaceChildren(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord, policy domain.LookupPolicy) error {
	for _, table := range []string{"property_images", "grouped_apartments", "property_units", "payment_plans", "property_facilities"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE property_id = $1", table), record.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	steps := []func(context.Context, pgx.Tx, *domain.PropertyRecord) error{
		copyImages,
		copyGroupedApartments,
		copyUnits,
		insertPaymentPlans,
	}
	for _, step := range steps {
		if err := step(ctx, tx, record); err != nil {
			return err
		}
	}
	return linkFacilities(ctx, tx, record, policy)
}

func copyImages(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord) error {
	if len(record.Images) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(record.Images))
	for _, img := range record.Images {
		rows = append(rows, []interface{}{record.ID, img.Image, img.Type, img.CreatedAt, img.UpdatedAt})
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"property_images"},
		[]string{"property_id", "image", "type", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy property images: %w", err)
	}
	return nil
}

func copyGroupedApartments(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord) error {
	if len(record.GroupedApartments) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(record.GroupedApartments))
	for _, apt := range record.GroupedApartments {
		rows = append(rows, []interface{}{record.ID, apt.UnitType, apt.Rooms, apt.MinPrice, apt.MinArea})
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"grouped_apartments"},
		[]string{"property_id", "unit_type", "rooms", "min_price", "min_area"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy grouped apartments: %w", err)
	}
	return nil
}

var unitColumns = []string{
	"external_id", "property_id", "apartment_type_id", "no_of_baths", "status", "area", "area_type",
	"start_area", "end_area", "price", "price_type", "start_price", "end_price", "floor_no", "apt_no",
	"floor_plan_image", "unit_image", "created_at", "updated_at", "unit_count", "is_demand",
}

func copyUnits(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord) error {
	if len(record.Units) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(record.Units))
	for _, u := range record.Units {
		rows = append(rows, []interface{}{
			u.ExternalID, record.ID, u.ApartmentTypeID, u.NoOfBaths, u.Status, u.Area, u.AreaType,
			u.StartArea, u.EndArea, u.Price, u.PriceType, u.StartPrice, u.EndPrice, u.FloorNo, u.AptNo,
			u.FloorPlanImage, u.UnitImage, u.CreatedAt, u.UpdatedAt, u.UnitCount, u.IsDemand,
		})
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"property_units"}, unitColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy property units: %w", err)
	}
	return nil
}

// insertPaymentPlans: id плана нужен для его шагов, поэтому планы вставляются по одному
func insertPaymentPlans(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord) error {
	var valueRows [][]interface{}
	for _, plan := range record.PaymentPlans {
		var planID int64
		err := tx.QueryRow(ctx,
			"INSERT INTO payment_plans (property_id, name, description) VALUES ($1, $2, $3) RETURNING id",
			record.ID, plan.Name, plan.Description,
		).Scan(&planID)
		if err != nil {
			return fmt.Errorf("failed to insert payment plan: %w", err)
		}
		for _, v := range plan.Values {
			valueRows = append(valueRows, []interface{}{planID, v.Name, v.Value})
		}
	}
	if len(valueRows) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"payment_plan_values"},
		[]string{"payment_plan_id", "name", "value"},
		pgx.CopyFromRows(valueRows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy payment plan values: %w", err)
	}
	return nil
}

// linkFacilities создает удобства по id (при upsert) и привязывает к объекту
func linkFacilities(ctx context.Context, tx pgx.Tx, record *domain.PropertyRecord, policy domain.LookupPolicy) error {
	for _, f := range record.Facilities {
		if policy == domain.LookupUpsert {
			if err := upsertLookup(ctx, tx, domain.LookupFacility, f.ID, f.Name); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO property_facilities (property_id, facility_id)
			SELECT $1, id FROM facilities WHERE id = $2
			ON CONFLICT DO NOTHING`, record.ID, f.ID)
		if err != nil {
			return fmt.Errorf("failed to link facility %d: %w", f.ID, err)
		}
	}
	return nil
}
