package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/estate-marketplace/internal/model"
)

// `condition` is a reserved word in MySQL, hence the backticks throughout.
const estateColumns = "id, user_id, category, `type`, `condition`, status, rent_period, " +
	"title, description, price, images, video_url, floor_plan_url, " +
	"total_floors, floor_number, bedrooms, bathrooms, area, year_built, " +
	"amenities, price_negotiable, views, open_to_visitors, " +
	"average_rating, reviews_count, " +
	"latitude, longitude, city, state, country, created_at, updated_at"

type EstateRepo struct{ DB *sql.DB }

func NewEstateRepo(db *sql.DB) *EstateRepo { return &EstateRepo{DB: db} }

// EstateFilter is the typed, already-validated search input. Handlers build
// it through parse helpers that reject unknown enum values and malformed
// numbers, so nothing here is passed through to the store unchecked.
// OwnerID restricts results to one owner (get-my-estates).
type EstateFilter struct {
	Search         string
	MinPrice       *float64
	MaxPrice       *float64
	Category       string
	Type           string
	Condition      string
	Status         string
	RentPeriod     string
	Amenities      []string
	OpenToVisitors *bool
	OwnerID        uint64
	Page           int
	Limit          int
	SortBy         string // whitelisted column, see sortColumns
	SortDesc       bool
}

// sortColumns maps API sort keys onto columns. Unknown keys are rejected by
// the handler before a filter is built.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"views":     "views",
	"rating":    "average_rating",
}

// SortColumn resolves an API sort key; ok is false for unknown keys.
func SortColumn(key string) (string, bool) {
	col, ok := sortColumns[key]
	return col, ok
}

// Pagination describes one page of a filtered result set.
type Pagination struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int64 `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagination derives page metadata from the total match count.
// HasNextPage holds exactly when page*limit < total.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Pagination{
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     int64(page)*int64(limit) < total,
		HasPreviousPage: page > 1,
	}
}

// buildEstateWhere translates a filter into WHERE fragments plus args.
func buildEstateWhere(f EstateFilter) ([]string, []any) {
	where := []string{}
	args := []any{}

	if f.OwnerID != 0 {
		where = append(where, "user_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.Search != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+escapeLike(strings.ToLower(f.Search))+"%")
	}
	if f.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Type != "" {
		where = append(where, "`type` = ?")
		args = append(args, f.Type)
	}
	if f.Condition != "" {
		where = append(where, "`condition` = ?")
		args = append(args, f.Condition)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.RentPeriod != "" {
		where = append(where, "rent_period = ?")
		args = append(args, f.RentPeriod)
	}
	if len(f.Amenities) > 0 {
		// Any-match over the JSON array column.
		ors := make([]string, len(f.Amenities))
		for i, a := range f.Amenities {
			ors[i] = "JSON_CONTAINS(amenities, JSON_QUOTE(?))"
			args = append(args, a)
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if f.OpenToVisitors != nil {
		where = append(where, "open_to_visitors = ?")
		args = append(args, *f.OpenToVisitors)
	}
	return where, args
}

// likeEscaper neutralizes LIKE wildcards in user search text so "100%"
// matches the literal string instead of everything.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Search returns one page of estates matching the filter plus the total
// match count for pagination.
func (r *EstateRepo) Search(ctx context.Context, f EstateFilter) ([]*model.Estate, int64, error) {
	where, args := buildEstateWhere(f)
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM estates WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col := f.SortBy
	if col == "" {
		col = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	dataSQL := "SELECT " + estateColumns + " FROM estates WHERE " + cond +
		" ORDER BY " + col + " " + dir + ", id DESC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Estate, 0, f.Limit)
	for rows.Next() {
		e, err := scanEstate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create inserts the estate and reads the row back so callers receive
// store-populated defaults and timestamps. The aggregate columns are not
// part of the insert; they start at their schema defaults.
func (r *EstateRepo) Create(ctx context.Context, e *model.Estate) error {
	// The ENUM columns reject empty strings, so omitted values take their
	// schema defaults here.
	if e.Status == "" {
		e.Status = model.StatusAvailable
	}
	if e.RentPeriod == "" {
		e.RentPeriod = model.RentPeriodMonthly
	}
	images, err := json.Marshal(e.Images)
	if err != nil {
		return err
	}
	amenities, err := json.Marshal(e.Amenities)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO estates (user_id, category, `type`, `condition`, status, rent_period, "+
			"title, description, price, images, video_url, floor_plan_url, "+
			"total_floors, floor_number, bedrooms, bathrooms, area, year_built, "+
			"amenities, price_negotiable, open_to_visitors, "+
			"latitude, longitude, city, state, country) "+
			"VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		e.UserID, e.Category, e.Type, e.Condition, e.Status, e.RentPeriod,
		e.Title, e.Description, e.Price, images, e.VideoURL, e.FloorPlanURL,
		e.TotalFloors, e.FloorNumber, e.Bedrooms, e.Bathrooms, e.Area, e.YearBuilt,
		amenities, e.PriceNegotiable, e.OpenToVisitors,
		e.Location.Latitude, e.Location.Longitude,
		e.Location.City, e.Location.State, e.Location.Country)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*e = *got
	return nil
}

// GetByID fetches one estate.
func (r *EstateRepo) GetByID(ctx context.Context, id uint64) (*model.Estate, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+estateColumns+" FROM estates WHERE id=? LIMIT 1", id)
	e, err := scanEstate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEstateNotFound
		}
		return nil, err
	}
	return e, nil
}

// IncrementViews bumps the view counter. Missing rows are ignored; the
// read that follows will report not-found on its own.
func (r *EstateRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE estates SET views = views + 1 WHERE id=?", id)
	return err
}

// EstateUpdate carries the optional fields accepted by update-estate.
// The derived aggregate columns are deliberately absent: only the review
// recompute writes them.
type EstateUpdate struct {
	Category        *string
	Type            *string
	Condition       *string
	Status          *string
	RentPeriod      *string
	Title           *string
	Description     *string
	Price           *float64
	Images          []string
	VideoURL        *string
	FloorPlanURL    *string
	TotalFloors     *int
	FloorNumber     *int
	Bedrooms        *int
	Bathrooms       *int
	Area            *int
	YearBuilt       *int
	Amenities       []string
	PriceNegotiable *bool
	OpenToVisitors  *bool
	Location        *model.Location
}

// Update applies the non-nil fields to an estate owned by ownerID.
// Returns ErrEstateNotFound when the row is absent and ErrForbidden when it
// belongs to someone else.
func (r *EstateRepo) Update(ctx context.Context, id, ownerID uint64, upd EstateUpdate) (*model.Estate, error) {
	if err := r.checkOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}

	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Type != nil {
		add("`type`", *upd.Type)
	}
	if upd.Condition != nil {
		add("`condition`", *upd.Condition)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.RentPeriod != nil {
		add("rent_period", *upd.RentPeriod)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.Images != nil {
		b, err := json.Marshal(upd.Images)
		if err != nil {
			return nil, err
		}
		add("images", b)
	}
	if upd.VideoURL != nil {
		add("video_url", *upd.VideoURL)
	}
	if upd.FloorPlanURL != nil {
		add("floor_plan_url", *upd.FloorPlanURL)
	}
	if upd.TotalFloors != nil {
		add("total_floors", *upd.TotalFloors)
	}
	if upd.FloorNumber != nil {
		add("floor_number", *upd.FloorNumber)
	}
	if upd.Bedrooms != nil {
		add("bedrooms", *upd.Bedrooms)
	}
	if upd.Bathrooms != nil {
		add("bathrooms", *upd.Bathrooms)
	}
	if upd.Area != nil {
		add("area", *upd.Area)
	}
	if upd.YearBuilt != nil {
		add("year_built", *upd.YearBuilt)
	}
	if upd.Amenities != nil {
		b, err := json.Marshal(upd.Amenities)
		if err != nil {
			return nil, err
		}
		add("amenities", b)
	}
	if upd.PriceNegotiable != nil {
		add("price_negotiable", *upd.PriceNegotiable)
	}
	if upd.OpenToVisitors != nil {
		add("open_to_visitors", *upd.OpenToVisitors)
	}
	if upd.Location != nil {
		add("latitude", upd.Location.Latitude)
		add("longitude", upd.Location.Longitude)
		add("city", upd.Location.City)
		add("state", upd.Location.State)
		add("country", upd.Location.Country)
	}
	if len(sets) > 0 {
		q := "UPDATE estates SET " + strings.Join(sets, ", ") +
			", updated_at=CURRENT_TIMESTAMP WHERE id=? AND user_id=?"
		args = append(args, id, ownerID)
		if _, err := r.DB.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete physically removes an estate owned by ownerID together with its
// reviews, inside one transaction.
func (r *EstateRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var dbOwner uint64
	if err = tx.QueryRowContext(ctx, "SELECT user_id FROM estates WHERE id=?", id).Scan(&dbOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrEstateNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		err = ErrForbidden
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reviews WHERE estate_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM estates WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// GroupCount is one row of the top-viewed grouping.
type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// groupColumns whitelists the fields the top-viewed endpoint may group by.
var groupColumns = map[string]string{
	"category":   "category",
	"type":       "`type`",
	"condition":  "`condition`",
	"status":     "status",
	"rentPeriod": "rent_period",
	"city":       "city",
}

// GroupColumn resolves an API grouping key; ok is false for unknown keys.
func GroupColumn(key string) (string, bool) {
	col, ok := groupColumns[key]
	return col, ok
}

// TopViewedBy groups estates by the given (already whitelisted) column,
// ranks groups by their peak view count and returns the top three with
// their row counts.
func (r *EstateRepo) TopViewedBy(ctx context.Context, column string) ([]GroupCount, error) {
	q := "SELECT " + column + ", COUNT(*) FROM estates GROUP BY " + column +
		" ORDER BY MAX(views) DESC LIMIT 3"
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GroupCount{}
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteAll wipes every estate and review. Only the admin seeder calls it.
func (r *EstateRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM reviews"); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "DELETE FROM estates")
	return err
}

// checkOwner verifies existence and ownership in one round trip.
func (r *EstateRepo) checkOwner(ctx context.Context, id, ownerID uint64) error {
	var dbOwner uint64
	err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM estates WHERE id=?", id).Scan(&dbOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEstateNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanEstate(row rowScanner) (*model.Estate, error) {
	var (
		e         model.Estate
		images    []byte
		amenities []byte
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.Category, &e.Type, &e.Condition, &e.Status, &e.RentPeriod,
		&e.Title, &e.Description, &e.Price, &images, &e.VideoURL, &e.FloorPlanURL,
		&e.TotalFloors, &e.FloorNumber, &e.Bedrooms, &e.Bathrooms, &e.Area, &e.YearBuilt,
		&amenities, &e.PriceNegotiable, &e.Views, &e.OpenToVisitors,
		&e.AverageRating, &e.ReviewsCount,
		&e.Location.Latitude, &e.Location.Longitude,
		&e.Location.City, &e.Location.State, &e.Location.Country,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &e.Images); err != nil {
			return nil, err
		}
	}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &e.Amenities); err != nil {
			return nil, err
		}
	}
	return &e, nil
}
