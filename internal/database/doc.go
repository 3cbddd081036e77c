// Package database opens the pooled *sql.DB shared by every store.
//
// Supported drivers:
//   - mysql: github.com/go-sql-driver/mysql
//   - postgres: github.com/jackc/pgx/v5/stdlib (registered as "pgx")
//
// The pool is the only shared mutable resource of the service. Connection
// timeout, idle timeout and max lifetime are pool policy set from config.
package database
