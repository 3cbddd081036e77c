package storage

import "fmt"

type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

type statements struct {
	lockAggregate   string
	selectForUpdate string
	upsertQuote     string
	recompute       string
	upsertAggregate string
	getAggregate    string
	listAggregates  string
	schema          []string
}

func statementsFor(d Dialect) (statements, error) {
	switch d {
	case DialectMySQL:
		return mysqlStatements, nil
	case DialectPostgres:
		return postgresStatements, nil
	default:
		return statements{}, fmt.Errorf("unsupported dialect %q", d)
	}
}

var mysqlStatements = statements{
	lockAggregate: `
		INSERT INTO average_prices (product_id, average_price, offer_count, updated_at)
		VALUES (?, 0, 0, ?)
		ON DUPLICATE KEY UPDATE product_id = product_id`,
	selectForUpdate: `
		SELECT offer_count FROM average_prices WHERE product_id = ? FOR UPDATE`,
	upsertQuote: `
		INSERT INTO product_prices (product_id, manufacturer_name, price, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE price = VALUES(price), updated_at = VALUES(updated_at)`,
	recompute: `
		SELECT AVG(price), COUNT(*) FROM product_prices WHERE product_id = ?`,
	upsertAggregate: `
		INSERT INTO average_prices (product_id, average_price, offer_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			average_price = VALUES(average_price),
			offer_count = VALUES(offer_count),
			updated_at = VALUES(updated_at)`,
	getAggregate: `
		SELECT product_id, average_price, offer_count, updated_at
		FROM average_prices WHERE product_id = ?`,
	listAggregates: `
		SELECT product_id, average_price, offer_count, updated_at
		FROM average_prices ORDER BY product_id`,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS product_prices (
			product_id BIGINT NOT NULL,
			manufacturer_name VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			PRIMARY KEY (product_id, manufacturer_name)
		)`,
		`CREATE TABLE IF NOT EXISTS average_prices (
			product_id BIGINT NOT NULL PRIMARY KEY,
			average_price DOUBLE NOT NULL,
			offer_count INT NOT NULL,
			updated_at DATETIME(6) NOT NULL
		)`,
	},
}

var postgresStatements = statements{
	lockAggregate: `
		INSERT INTO average_prices (product_id, average_price, offer_count, updated_at)
		VALUES ($1, 0, 0, $2)
		ON CONFLICT (product_id) DO NOTHING`,
	selectForUpdate: `
		SELECT offer_count FROM average_prices WHERE product_id = $1 FOR UPDATE`,
	upsertQuote: `
		INSERT INTO product_prices (product_id, manufacturer_name, price, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, manufacturer_name)
		DO UPDATE SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at`,
	recompute: `
		SELECT AVG(price), COUNT(*) FROM product_prices WHERE product_id = $1`,
	upsertAggregate: `
		INSERT INTO average_prices (product_id, average_price, offer_count, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id)
		DO UPDATE SET
			average_price = EXCLUDED.average_price,
			offer_count = EXCLUDED.offer_count,
			updated_at = EXCLUDED.updated_at`,
	getAggregate: `
		SELECT product_id, average_price, offer_count, updated_at
		FROM average_prices WHERE product_id = $1`,
	listAggregates: `
		SELECT product_id, average_price, offer_count, updated_at
		FROM average_prices ORDER BY product_id`,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS product_prices (
			product_id BIGINT NOT NULL,
			manufacturer_name VARCHAR(255) NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (product_id, manufacturer_name)
		)`,
		`CREATE TABLE IF NOT EXISTS average_prices (
			product_id BIGINT NOT NULL PRIMARY KEY,
			average_price DOUBLE PRECISION NOT NULL,
			offer_count INT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	},
}
