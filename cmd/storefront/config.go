package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/handmade-storefront/internal/cart"
)

// Cart storage backends.
const (
	cartFile  = "file"
	cartRedis = "redis"
)

// config is the terminal storefront configuration (STOREFRONT_ prefix).
type config struct {
	APIURL         string        `usage:"Backend API base URL, e.g. http://localhost:8080/api; empty uses the bundled catalog" flag:"api-url"`
	Lang           string        `default:"en" usage:"Interface language: en or ar"`
	CartBackend    string        `default:"file" usage:"Cart storage: file or redis" flag:"cart-backend"`
	CartDir        string        `usage:"Directory for file cart storage (default: user config dir)" flag:"cart-dir"`
	RedisAddr      string        `default:"localhost:6379" usage:"Redis address for redis cart storage" flag:"redis-addr"`
	CartKey        string        `default:"handmade_cart" usage:"Key the cart is stored under" flag:"cart-key"`
	CartTTL        time.Duration `default:"720h" usage:"Redis cart expiry, 0 keeps carts forever" flag:"cart-ttl"`
	CacheTTL       time.Duration `default:"5m" usage:"Catalog cache lifetime" flag:"cache-ttl"`
	RequestTimeout time.Duration `default:"10s" usage:"Backend request timeout" flag:"request-timeout"`
	LogLevel       string        `default:"warn" usage:"Log level written to stderr" flag:"log-level"`
}

func loadConfig() (*config, error) {
	var cfg config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"storefront.yaml", "/etc/handmade/storefront.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	switch cfg.CartBackend {
	case cartFile, cartRedis:
	default:
		return nil, errors.Errorf("unknown cart backend %q", cfg.CartBackend)
	}
	if cfg.CartKey == "" {
		cfg.CartKey = cart.DefaultKey
	}
	if cfg.CartDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.CartDir = filepath.Join(dir, "handmade")
	}
	return &cfg, nil
}
