// Command storefront is the terminal storefront: browse the catalog, fill the
// cart and check out against the backend or the bundled catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xenking/handmade-storefront/db"
	"github.com/xenking/handmade-storefront/internal/cart"
	"github.com/xenking/handmade-storefront/internal/checkout"
	"github.com/xenking/handmade-storefront/internal/facade"
	"github.com/xenking/handmade-storefront/internal/i18n"
	"github.com/xenking/handmade-storefront/internal/orderclient"
	redisstore "github.com/xenking/handmade-storefront/internal/storage/redis"
	"github.com/xenking/handmade-storefront/internal/storefront"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func newCartStorage(ctx context.Context, cfg *config, lg *zap.Logger) (cart.Storage, func(), error) {
	if cfg.CartBackend == cartRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.Wrap(err, "ping redis")
		}
		lg.Info("Cart stored in Redis", zap.String("addr", cfg.RedisAddr))
		return redisstore.NewCartStorage(client, cfg.CartTTL), func() { _ = client.Close() }, nil
	}
	fs, err := cart.NewFileStorage(cfg.CartDir)
	if err != nil {
		return nil, nil, err
	}
	lg.Info("Cart stored on disk", zap.String("dir", cfg.CartDir))
	return fs, func() {}, nil
}

// newShop builds the catalog facade: the backend when configured, falling
// back to the bundled catalog for reads, behind a TTL cache.
func newShop(cfg *config, lg *zap.Logger) (facade.Facade, error) {
	static, err := facade.NewStatic(db.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "load bundled catalog")
	}
	var shop facade.Facade = static
	if cfg.APIURL != "" {
		shop = facade.NewFallback(facade.NewRemote(cfg.APIURL, cfg.RequestTimeout), static, lg)
	}
	return facade.NewCached(shop, cfg.CacheTTL), nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lang, err := i18n.ParseLang(cfg.Lang)
	if err != nil {
		return err
	}
	lg, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	storage, closeStorage, err := newCartStorage(ctx, cfg, lg)
	if err != nil {
		return errors.Wrap(err, "cart storage")
	}
	defer closeStorage()

	shop, err := newShop(cfg, lg)
	if err != nil {
		return err
	}

	store := cart.NewStore(ctx, storage, cart.WithKey(cfg.CartKey), cart.WithLogger(lg))
	client := orderclient.New(store, shop, lg)
	machine := checkout.NewMachine(store, client)
	ui := storefront.NewTextUI(os.Stdout)
	ctl := storefront.NewController(store, machine, shop, i18n.NewManager(lang), ui, lg)

	return storefront.Run(ctx, os.Stdin, ctl)
}
