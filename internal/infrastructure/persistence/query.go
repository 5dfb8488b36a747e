package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findError maps a missing row to a NOT_FOUND domain error naming entity
func findError(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFoundError(entity, id)
	}
	return fmt.Errorf("failed to load %s: %w", entity, err)
}

// applyOrder orders by a whitelisted column, falling back to defaultField.
// id breaks ties so pages are stable.
func applyOrder(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	return query.Order(field + " " + dir).Order("id " + dir)
}

// applyPage limits the query to the filter's page
func applyPage(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize <= 0 {
		return query
	}
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

// applyDateRange narrows column to [filter.From, filter.To]
func applyDateRange(query *gorm.DB, column string, filter shared.Filter) *gorm.DB {
	if filter.From != nil {
		query = query.Where(column+" >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where(column+" <= ?", *filter.To)
	}
	return query
}

// applySearch matches the search term case-insensitively against columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// uuidFilter reads a uuid-valued entry of filter.Filters
func uuidFilter(filter shared.Filter, key string) (uuid.UUID, bool) {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	default:
		return uuid.Nil, false
	}
}

// stringFilter reads a non-empty string entry of filter.Filters
func stringFilter(filter shared.Filter, key string) (string, bool) {
	switch v := filter.Filters[key].(type) {
	case string:
		return v, v != ""
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	default:
		return "", false
	}
}

// saveAggregate inserts a first-version aggregate row or updates an existing one.
// Updates are guarded by the version: a row already at the new version or beyond
// means another writer got there first.
func saveAggregate(tx *gorm.DB, model any, version int) error {
	if version <= 1 {
		return tx.Omit(clause.Associations).Create(model).Error
	}
	result := tx.Model(model).
		Where("version < ?", version).
		Select("*").
		Omit("created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// syncDetails soft-deletes the parent's detail rows missing from details,
// updates the rows the parent already owns and inserts the rest.
// Writes are scoped to the parent, so an id owned by another parent fails the
// insert instead of moving that row. payment_id is left to the payment line
// repository.
func syncDetails[M any](tx *gorm.DB, parentColumn string, parentID uuid.UUID, ids []uuid.UUID, details []M) error {
	var zero M
	stale := tx.Where(parentColumn+" = ?", parentID)
	if len(ids) > 0 {
		stale = stale.Where("id NOT IN ?", ids)
	}
	if err := stale.Delete(&zero).Error; err != nil {
		return err
	}

	var owned []uuid.UUID
	if err := tx.Model(&zero).Where(parentColumn+" = ?", parentID).Pluck("id", &owned).Error; err != nil {
		return err
	}
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	for i := range details {
		if _, ok := ownedSet[ids[i]]; !ok {
			if err := tx.Omit("payment_id").Create(&details[i]).Error; err != nil {
				return err
			}
			continue
		}
		result := tx.Model(&details[i]).
			Where(parentColumn+" = ?", parentID).
			Select("*").
			Omit("id", "created_at", "deleted_at", "payment_id").
			Updates(&details[i])
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
	}
	return nil
}

// orderedDetails preloads details oldest first
func orderedDetails(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
