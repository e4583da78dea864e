package mysql

import (
	"context"
	"database/sql"

	"waypoint/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertListing(ctx context.Context, l domain.Listing) error {
	_, err := r.db.ExecContext(ctx, upsertListingSQL,
		l.ID,
		string(l.Type),
		l.Name,
		l.Slug,
		valStr(l.Description),
		valStr(l.ImageURL),
		valStr(l.Category),
		valF64(l.Rating),
		l.ReviewCount,
		valF64(l.Lat),
		valF64(l.Lng),
		l.Featured,
		l.Verified,
		valStr(l.Phone),
		valStr(l.Email),
		valStr(l.WhatsApp),
		valF64(l.PriceFrom),
		valStr(l.Address),
		valJSON(l.RawJSON),
	)
	return err
}

func (r *Repo) LogSyncMiss(ctx context.Context, t domain.ItemType, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertSyncMissSQL, string(t), status, reason)
	return err
}

func (r *Repo) ListByType(ctx context.Context, t domain.ItemType, limit int) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listByTypeSQL, string(t), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetBySlug(ctx context.Context, t domain.ItemType, slug string) (domain.Listing, error) {
	row := r.db.QueryRowContext(ctx, getBySlugSQL, string(t), slug)
	l, err := scanListing(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Listing{}, domain.ErrNotFound
		}
		return domain.Listing{}, err
	}
	return l, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanListing(row rowScanner) (domain.Listing, error) {
	var l domain.Listing
	var typ string
	var (
		desc, image, category      sql.NullString
		phone, email, wa, address  sql.NullString
		rating, lat, lng, priceFrm sql.NullFloat64
		reviewCount                sql.NullInt64
	)
	if err := row.Scan(
		&l.ID,
		&typ,
		&l.Name,
		&l.Slug,
		&desc,
		&image,
		&category,
		&rating,
		&reviewCount,
		&lat,
		&lng,
		&l.Featured,
		&l.Verified,
		&phone,
		&email,
		&wa,
		&priceFrm,
		&address,
	); err != nil {
		return domain.Listing{}, err
	}

	l.Type = domain.ItemType(typ)
	if reviewCount.Valid {
		l.ReviewCount = int(reviewCount.Int64)
	}
	l.Description = nullStr(desc)
	l.ImageURL = nullStr(image)
	l.Category = nullStr(category)
	l.Phone = nullStr(phone)
	l.Email = nullStr(email)
	l.WhatsApp = nullStr(wa)
	l.Address = nullStr(address)
	l.Rating = nullF64(rating)
	l.PriceFrom = nullF64(priceFrm)
	// Coordinates only count when both halves are present.
	if lat.Valid && lng.Valid {
		l.Lat = &lat.Float64
		l.Lng = &lng.Float64
	}
	return l, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullF64(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
