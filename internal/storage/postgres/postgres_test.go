//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/handmade-storefront/db"
	"github.com/xenking/handmade-storefront/internal/domain/auth"
	"github.com/xenking/handmade-storefront/internal/domain/content"
	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
	"github.com/xenking/handmade-storefront/internal/domain/order"
	"github.com/xenking/handmade-storefront/internal/domain/product"
	"github.com/xenking/handmade-storefront/internal/wire"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("handmade"),
		tcpostgres.WithUsername("handmade"),
		tcpostgres.WithPassword("handmade"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	// The schema is idempotent.
	require.NoError(t, RunMigrations(ctx, pool))

	catalog, err := wire.DecodeCatalog(db.Catalog)
	require.NoError(t, err)
	catalogRepo := NewCatalogRepository(pool)
	for _, a := range catalog.Artisans {
		require.NoError(t, catalogRepo.UpsertArtisan(ctx, a))
	}
	for _, p := range catalog.Products {
		require.NoError(t, catalogRepo.UpsertProduct(ctx, p))
	}
	contentRepo := NewContentRepository(pool)
	for _, p := range catalog.BlogPosts {
		require.NoError(t, contentRepo.UpsertPost(ctx, p))
	}
	for _, c := range catalog.CollectionPoints {
		require.NoError(t, contentRepo.UpsertCollectionPoint(ctx, c))
	}
	return pool
}

func TestRepositories(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	t.Run("Catalog", func(t *testing.T) {
		repo := NewCatalogRepository(pool)

		all, err := repo.List(ctx, product.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 6)

		featured, err := repo.List(ctx, product.Filter{FeaturedOnly: true})
		require.NoError(t, err)
		for _, p := range featured {
			assert.True(t, p.Featured)
		}

		decor, err := repo.List(ctx, product.Filter{Category: "Home Décor"})
		require.NoError(t, err)
		assert.Len(t, decor, 3)

		p, err := repo.GetByID(ctx, "tote-bag")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(350).Equal(p.Price))
		require.NotNil(t, p.Artisan)
		assert.Equal(t, "fatma-hassan", p.Artisan.ID)
		assert.NotEmpty(t, p.Name.AR)

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, product.ErrNotFound)

		byIDs, err := repo.GetByIDs(ctx, []string{"tote-bag", "plant-hanger", "missing"})
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)

		artisans, err := repo.ListArtisans(ctx)
		require.NoError(t, err)
		assert.Len(t, artisans, 3)

		_, err = repo.GetArtisan(ctx, "nobody")
		assert.ErrorIs(t, err, product.ErrArtisanNotFound)
	})

	t.Run("Content", func(t *testing.T) {
		repo := NewContentRepository(pool)

		posts, err := repo.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.True(t, posts[0].Date.After(posts[1].Date))

		_, err = repo.GetPost(ctx, "missing")
		assert.ErrorIs(t, err, content.ErrPostNotFound)

		points, err := repo.ListCollectionPoints(ctx)
		require.NoError(t, err)
		assert.Len(t, points, 5)

		m, err := repo.Impact(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(50000).Equal(m.CampaignGoal))
		assert.True(t, m.CampaignRaised.IsZero())
	})

	t.Run("Orders", func(t *testing.T) {
		repo := NewOrderRepository(pool)
		catalog := NewCatalogRepository(pool)

		key := uuid.NewString()
		o := &order.Order{
			ID:             uuid.NewString(),
			IdempotencyKey: key,
			Items: []order.LineItem{
				{ProductID: "cushion-set", Quantity: 3, UnitPrice: decimal.NewFromInt(220)},
			},
			Customer: order.Customer{
				Name: "Mona", Email: "mona@example.com", Phone: "0100", Address: "5 Nile St", City: "Cairo",
			},
			TotalAmount:   decimal.NewFromInt(660),
			PaymentMethod: order.PaymentCashVoucher,
			Status:        order.StatusCompleted,
			CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
		}
		require.NoError(t, repo.Create(ctx, o))

		p, err := catalog.GetByID(ctx, "cushion-set")
		require.NoError(t, err)
		assert.Equal(t, 17, p.Stock)

		dup := *o
		dup.ID = uuid.NewString()
		assert.ErrorIs(t, repo.Create(ctx, &dup), order.ErrDuplicateKey)

		got, err := repo.FindByIdempotencyKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
		assert.Equal(t, o.Items[0].ProductID, got.Items[0].ProductID)
		assert.True(t, o.TotalAmount.Equal(got.TotalAmount))
		assert.Equal(t, order.PaymentCashVoucher, got.PaymentMethod)

		_, err = repo.FindByIdempotencyKey(ctx, "unknown")
		assert.ErrorIs(t, err, order.ErrNotFound)

		keyless := *o
		keyless.ID = uuid.NewString()
		keyless.IdempotencyKey = ""
		keyless.CreatedAt = o.CreatedAt.Add(time.Second)
		require.NoError(t, repo.Create(ctx, &keyless))

		keys, err := repo.ListIdempotencyKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{key}, keys)

		orders, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, keyless.ID, orders[0].ID)
	})

	t.Run("Inquiries", func(t *testing.T) {
		repo := NewInquiryRepository(pool)
		now := time.Now().UTC()

		require.NoError(t, repo.SaveSubmission(ctx, &inquiry.Submission{
			ID: uuid.NewString(), Kind: inquiry.KindNewsletter,
			Form: inquiry.Form{Email: "reader@example.com"}, Status: inquiry.StatusPending, CreatedAt: now,
		}))
		require.NoError(t, repo.SaveSubmission(ctx, &inquiry.Submission{
			ID: uuid.NewString(), Kind: inquiry.KindContact,
			Form:   inquiry.Form{Name: "Mona", Email: "mona@example.com", Message: "Hello"},
			Status: inquiry.StatusPending, CreatedAt: now,
		}))

		news, err := repo.ListSubmissions(ctx, inquiry.KindNewsletter)
		require.NoError(t, err)
		require.Len(t, news, 1)
		assert.Equal(t, "reader@example.com", news[0].Form.Email)

		all, err := repo.ListSubmissions(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		for i := 0; i < 2; i++ {
			require.NoError(t, repo.CreateDonation(ctx, &inquiry.Donation{
				ID: uuid.NewString(), Email: "giver@example.com", Amount: decimal.NewFromInt(250),
				Currency: "EGP", Type: inquiry.DonationOneTime, PaymentMethod: "stripe", CreatedAt: now,
			}))
		}
		donations, err := repo.ListDonations(ctx)
		require.NoError(t, err)
		assert.Len(t, donations, 2)

		m, err := NewContentRepository(pool).Impact(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(500).Equal(m.CampaignRaised), m.CampaignRaised.String())
	})

	t.Run("Users", func(t *testing.T) {
		repo := NewUserRepository(pool)

		_, err := repo.FindByUsername(ctx, "admin")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		u := &auth.User{ID: uuid.NewString(), Username: "admin", PasswordHash: "h1", Role: auth.RoleAdmin}
		require.NoError(t, repo.UpsertUser(ctx, u))
		u.PasswordHash = "h2"
		require.NoError(t, repo.UpsertUser(ctx, u))

		got, err := repo.FindByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, "h2", got.PasswordHash)
		assert.Equal(t, auth.RoleAdmin, got.Role)
	})
}
