package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/handmade-storefront/internal/domain/product"
)

const (
	productSelect = `SELECT p.id, p.name_en, p.name_ar, p.description_en, p.description_ar,
		p.price, p.category, p.images, COALESCE(p.artisan_id, ''),
		p.materials_en, p.materials_ar, p.care_en, p.care_ar, p.stock, p.featured,
		a.id, a.name_en, a.name_ar, a.bio_en, a.bio_ar, a.image_url
		FROM products p LEFT JOIN artisans a ON a.id = p.artisan_id`

	listProductsSQL = productSelect + `
		WHERE ($1::boolean = false OR p.featured) AND ($2::text = '' OR p.category = $2)
		ORDER BY p.created_at, p.id`

	getProductByIDSQL = productSelect + ` WHERE p.id = $1`

	getProductsByIDsSQL = productSelect + ` WHERE p.id = ANY($1)`

	listArtisansSQL = `SELECT id, name_en, name_ar, bio_en, bio_ar, image_url
		FROM artisans ORDER BY created_at, id`

	getArtisanSQL = `SELECT id, name_en, name_ar, bio_en, bio_ar, image_url
		FROM artisans WHERE id = $1`

	upsertArtisanSQL = `INSERT INTO artisans (id, name_en, name_ar, bio_en, bio_ar, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name_en = EXCLUDED.name_en, name_ar = EXCLUDED.name_ar,
			bio_en = EXCLUDED.bio_en, bio_ar = EXCLUDED.bio_ar,
			image_url = EXCLUDED.image_url`

	upsertProductSQL = `INSERT INTO products (id, name_en, name_ar, description_en, description_ar,
			price, category, images, artisan_id, materials_en, materials_ar, care_en, care_ar,
			stock, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			name_en = EXCLUDED.name_en, name_ar = EXCLUDED.name_ar,
			description_en = EXCLUDED.description_en, description_ar = EXCLUDED.description_ar,
			price = EXCLUDED.price, category = EXCLUDED.category, images = EXCLUDED.images,
			artisan_id = EXCLUDED.artisan_id,
			materials_en = EXCLUDED.materials_en, materials_ar = EXCLUDED.materials_ar,
			care_en = EXCLUDED.care_en, care_ar = EXCLUDED.care_ar,
			stock = EXCLUDED.stock, featured = EXCLUDED.featured`
)

var (
	_ product.Repository        = (*CatalogRepository)(nil)
	_ product.ArtisanRepository = (*CatalogRepository)(nil)
)

// CatalogRepository serves products and artisans.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns products passing filter in catalog order, artisans populated.
func (r *CatalogRepository) List(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL, filter.FeaturedOnly, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

func (r *CatalogRepository) ListArtisans(ctx context.Context) ([]product.Artisan, error) {
	rows, err := r.pool.Query(ctx, listArtisansSQL)
	if err != nil {
		return nil, fmt.Errorf("listing artisans: %w", err)
	}
	return pgx.CollectRows(rows, scanArtisan)
}

func (r *CatalogRepository) GetArtisan(ctx context.Context, id string) (*product.Artisan, error) {
	rows, err := r.pool.Query(ctx, getArtisanSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting artisan %q: %w", id, err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanArtisan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrArtisanNotFound
		}
		return nil, fmt.Errorf("getting artisan %q: %w", id, err)
	}
	return &a, nil
}

// UpsertArtisan inserts or replaces an artisan.
func (r *CatalogRepository) UpsertArtisan(ctx context.Context, a product.Artisan) error {
	_, err := r.pool.Exec(ctx, upsertArtisanSQL,
		a.ID, a.Name.EN, a.Name.AR, a.Bio.EN, a.Bio.AR, a.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("upserting artisan %q: %w", a.ID, err)
	}
	return nil
}

// UpsertProduct inserts or replaces a product. Its artisan must exist.
func (r *CatalogRepository) UpsertProduct(ctx context.Context, p product.Product) error {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name.EN, p.Name.AR, p.Description.EN, p.Description.AR,
		p.Price, p.Category, images, nullString(p.ArtisanID),
		p.Materials.EN, p.Materials.AR, p.Care.EN, p.Care.AR,
		p.Stock, p.Featured,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p                      product.Product
		aID, aNameEN, aNameAR  *string
		aBioEN, aBioAR, aImage *string
	)
	err := row.Scan(
		&p.ID, &p.Name.EN, &p.Name.AR, &p.Description.EN, &p.Description.AR,
		&p.Price, &p.Category, &p.Images, &p.ArtisanID,
		&p.Materials.EN, &p.Materials.AR, &p.Care.EN, &p.Care.AR, &p.Stock, &p.Featured,
		&aID, &aNameEN, &aNameAR, &aBioEN, &aBioAR, &aImage,
	)
	if err != nil {
		return p, err
	}
	if aID != nil {
		p.Artisan = &product.Artisan{ID: *aID, ImageURL: deref(aImage)}
		p.Artisan.Name.EN, p.Artisan.Name.AR = deref(aNameEN), deref(aNameAR)
		p.Artisan.Bio.EN, p.Artisan.Bio.AR = deref(aBioEN), deref(aBioAR)
	}
	return p, nil
}

func scanArtisan(row pgx.CollectableRow) (product.Artisan, error) {
	var a product.Artisan
	err := row.Scan(&a.ID, &a.Name.EN, &a.Name.AR, &a.Bio.EN, &a.Bio.AR, &a.ImageURL)
	return a, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
