// Package brands reads the trusted-brand reference set the similarity
// matcher compares hostnames against. The set is owned by the database and
// read in full on every evaluation so updates apply without restarts.
package brands

import (
	"context"

	"phishguard/internal/analyzer"
	"phishguard/internal/db"
)

type Store struct {
	DB *db.Database
}

func NewStore(database *db.Database) *Store {
	return &Store{DB: database}
}

func (s *Store) ListBrands(ctx context.Context) ([]analyzer.TrustedBrand, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT brand_name, official_domain FROM trusted_brands ORDER BY brand_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []analyzer.TrustedBrand{}
	for rows.Next() {
		var b analyzer.TrustedBrand
		if err := rows.Scan(&b.Name, &b.OfficialDomain); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}
