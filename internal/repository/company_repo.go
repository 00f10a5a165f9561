package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"export-readiness/internal/domain"
)

// CompanyRepository expone la vista de lectura de empresas que usa la clasificación.
type CompanyRepository interface {
	GetProfile(ctx context.Context, id string) (domain.CompanyProfile, error)
	Exists(ctx context.Context, id string) (bool, error)
	CountByRegion(ctx context.Context) ([]domain.RegionCount, error)
}

type PgCompanyRepository struct {
	pool *pgxpool.Pool
}

func NewPgCompanyRepository(pool *pgxpool.Pool) *PgCompanyRepository {
	return &PgCompanyRepository{pool: pool}
}

// GetProfile devuelve pgx.ErrNoRows si la empresa no existe o fue dada de baja.
func (r *PgCompanyRepository) GetProfile(ctx context.Context, id string) (domain.CompanyProfile, error) {
	const query = `
		SELECT id, name, kind, COALESCE(region_id, ''),
			COALESCE(export_mode, ''), export_countries, export_years,
			COALESCE(capacity_amount, 0), COALESCE(capacity_unit, ''),
			COALESCE(website, ''), COALESCE(social_networks, '{}'), has_ecommerce, multilingual_material,
			COALESCE(tariff_code, ''), tariff_code_validated,
			has_foreign_trade_manager, has_foreign_trade_area, foreign_trade_staff, has_export_plan,
			COALESCE(export_interest, ''),
			COALESCE(domestic_certifications, '{}'), COALESCE(international_certifications, '{}')
		FROM empresas
		WHERE id = $1 AND deleted_at IS NULL
	`

	var p domain.CompanyProfile
	var kind string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&kind,
		&p.Region,
		&p.ExportMode,
		&p.ExportCountries,
		&p.ExportYears,
		&p.CapacityAmount,
		&p.CapacityUnit,
		&p.Website,
		&p.SocialNetworks,
		&p.HasEcommerce,
		&p.MultilingualMaterial,
		&p.TariffCode,
		&p.TariffCodeValidated,
		&p.HasForeignTradeManager,
		&p.HasForeignTradeArea,
		&p.ForeignTradeStaff,
		&p.HasExportPlan,
		&p.ExportInterest,
		&p.DomesticCertifications,
		&p.InternationalCertifications,
	)
	if err != nil {
		return domain.CompanyProfile{}, err
	}
	p.Kind = domain.CompanyKind(kind)

	activities, err := r.listActivities(ctx, id)
	if err != nil {
		return domain.CompanyProfile{}, err
	}
	p.Activities = activities
	return p, nil
}

func (r *PgCompanyRepository) listActivities(ctx context.Context, companyID string) ([]domain.Activity, error) {
	const query = `
		SELECT activity_type, COALESCE(name, ''), occurred_at
		FROM empresa_actividades
		WHERE company_id = $1
		ORDER BY occurred_at DESC NULLS LAST
	`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.Type, &a.Name, &a.OccurredAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *PgCompanyRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM empresas WHERE id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CountByRegion incluye las regiones sin empresas con conteo 0.
func (r *PgCompanyRepository) CountByRegion(ctx context.Context) ([]domain.RegionCount, error) {
	const query = `
		SELECT r.id, r.name, COUNT(e.id)
		FROM regiones r
		LEFT JOIN empresas e ON e.region_id = r.id AND e.deleted_at IS NULL
		GROUP BY r.id, r.name
		ORDER BY r.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.RegionCount
	for rows.Next() {
		var rc domain.RegionCount
		if err := rows.Scan(&rc.RegionID, &rc.Name, &rc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
