package postgres

import (
	"fmt"
	"strings"

	"offplan-service/internal/core/domain"
)

// listingJoins присоединяет справочники, по которым фильтруется и
// отображается листинг
const listingJoins = `
	LEFT JOIN cities c ON c.id = p.city_id
	LEFT JOIN districts d ON d.id = p.district_id
	LEFT JOIN cities dc ON dc.id = d.city_id
	LEFT JOIN developer_companies dev ON dev.id = p.developer_id
	LEFT JOIN property_types pt ON pt.id = p.property_type_id
	LEFT JOIN property_statuses ps ON ps.id = p.property_status_id`

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// addContains - регистронезависимый поиск подстроки
func (qb *queryBuilder) addContains(fieldName string, value string) {
	if value == "" {
		return
	}
	qb.addCondition("%s ILIKE $%d", fieldName, "%"+escapeLike(value)+"%")
}

func (qb *queryBuilder) addRange(fieldName string, min *int64, max *int64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters разбирает фильтры публичного поиска в WHERE
func applyFilters(filter domain.PropertyFilter) (string, []interface{}) {
	qb := newQueryBuilder()

	qb.addContains("c.name", filter.City)
	qb.addContains("d.name", filter.Area)
	qb.addContains("pt.name", filter.PropertyType)
	qb.addContains("ps.name", filter.PropertyStatus)

	qb.addRange("p.low_price", filter.MinPrice, filter.MaxPrice)
	qb.addRange("p.min_area", filter.MinArea, filter.MaxArea)

	return qb.build()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
