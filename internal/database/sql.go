package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type SQLDB struct {
	DB     *sqlx.DB
	Driver string
}

// NewSQLDB abre la base de datos sin verificar la conexión; la verificación la hace Store.Init
func NewSQLDB(driver, dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration, logger *zap.Logger) (*SQLDB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configurar connection pooling
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	logger.Info("Database handle created",
		zap.String("driver", driver),
		zap.Int("max_open_conns", maxOpenConns),
		zap.Int("max_idle_conns", maxIdleConns),
		zap.Duration("conn_max_lifetime", connMaxLifetime),
	)

	return &SQLDB{DB: db, Driver: driver}, nil
}

// sqliteDSN agrega busy_timeout si el DSN no trae parámetros
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_busy_timeout=5000"
}

func (p *SQLDB) Close() error {
	return p.DB.Close()
}

func (p *SQLDB) Ping() error {
	return p.DB.Ping()
}

// GetStats retorna estadísticas del pool de conexiones
func (p *SQLDB) GetStats() sql.DBStats {
	return p.DB.Stats()
}
