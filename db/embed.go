// Package db provides the embedded database schema and seed catalog.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// Catalog is the seed dataset: artisans, products, impact metrics, blog posts
// and collection points. It also backs the storefront's offline mode.
//
//go:embed seed/catalog.json
var Catalog []byte
