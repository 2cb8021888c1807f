// Command seed-db loads the catalog into PostgreSQL and creates the admin user.
package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/handmade-storefront/db"
	"github.com/xenking/handmade-storefront/internal/domain/auth"
	"github.com/xenking/handmade-storefront/internal/storage/postgres"
	"github.com/xenking/handmade-storefront/internal/wire"
)

const parallelUpserts = 8

func main() {
	var (
		databaseURL   string
		catalogFile   string
		adminUsername string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "", "catalog JSON file, optionally .gz (default: embedded catalog)")
	flag.StringVar(&adminUsername, "admin-username", "admin", "admin account username")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or SHOP_SEED_ADMIN_PASSWORD env, default admin123)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("SHOP_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		adminPassword = "admin123"
		slog.Warn("using default admin password, change it before going live")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, adminUsername, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, username, password string) error {
	catalog, err := loadCatalog(catalogFile)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, postgres.NewCatalogRepository(pool), postgres.NewContentRepository(pool), catalog); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedAdmin(ctx, postgres.NewUserRepository(pool), username, password); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	return nil
}

// loadCatalog reads path, gunzipping files ending in .gz. An empty path
// selects the embedded catalog.
func loadCatalog(path string) (*wire.Catalog, error) {
	if path == "" {
		slog.Info("using embedded catalog")
		return wire.DecodeCatalog(db.Catalog)
	}

	slog.Info("reading catalog file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer func() { _ = zr.Close() }()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, errors.Wrap(err, "gunzip catalog")
		}
	}
	return wire.DecodeCatalog(data)
}

func seedCatalog(ctx context.Context, catalog *postgres.CatalogRepository, content *postgres.ContentRepository, c *wire.Catalog) error {
	// Products reference artisans, so artisans go first.
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelUpserts)
	for _, a := range c.Artisans {
		g.Go(func() error {
			if err := catalog.UpsertArtisan(gCtx, a); err != nil {
				return errors.Wrapf(err, "upsert artisan %s", a.ID)
			}
			slog.Info("upserted artisan", slog.String("id", a.ID), slog.String("name", a.Name.EN))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gCtx = errgroup.WithContext(ctx)
	g.SetLimit(parallelUpserts)
	for _, p := range c.Products {
		g.Go(func() error {
			if err := catalog.UpsertProduct(gCtx, p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
			slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name.EN))
			return nil
		})
	}
	for _, p := range c.BlogPosts {
		g.Go(func() error {
			if err := content.UpsertPost(gCtx, p); err != nil {
				return errors.Wrapf(err, "upsert blog post %s", p.ID)
			}
			return nil
		})
	}
	for _, cp := range c.CollectionPoints {
		g.Go(func() error {
			if err := content.UpsertCollectionPoint(gCtx, cp); err != nil {
				return errors.Wrapf(err, "upsert collection point %s", cp.ID)
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := content.SetImpact(gCtx, c.Impact); err != nil {
			return errors.Wrap(err, "set impact metrics")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("catalog seeded",
		slog.Int("artisans", len(c.Artisans)),
		slog.Int("products", len(c.Products)),
		slog.Int("blog_posts", len(c.BlogPosts)),
		slog.Int("collection_points", len(c.CollectionPoints)),
	)
	return nil
}

func seedAdmin(ctx context.Context, users auth.Repository, username, password string) error {
	slog.Info("seeding admin user", slog.String("username", username))

	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return users.UpsertUser(ctx, &auth.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	})
}
