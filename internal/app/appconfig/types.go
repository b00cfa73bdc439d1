package appconfig

import (
	"database/sql/driver"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Dialect string

const (
	DialectUnknown  Dialect = ""
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectOf infers the database dialect from the scheme of dsn.
func DialectOf(dsn string) Dialect {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres
	case strings.HasPrefix(dsn, "sqlite:"), strings.HasPrefix(dsn, "file:"):
		return DialectSQLite
	default:
		return DialectUnknown
	}
}

// SQLitePath strips the sqlite: scheme so the remainder can be handed to the driver.
// file: DSNs are understood by the driver as they are.
func SQLitePath(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		return rest
	}
	return dsn
}

func (c *Config) DatabaseDialect() Dialect {
	return DialectOf(c.DatabaseDSN)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("database_dsn", func(fl validator.FieldLevel) bool {
		dsn := fl.Field().String()
		switch DialectOf(dsn) {
		case DialectPostgres:
			return parsesAsPostgres(dsn)
		case DialectSQLite:
			return true
		default:
			return false
		}
	})
	_ = v.RegisterValidation("redis_url", func(fl validator.FieldLevel) bool {
		_, err := redis.ParseURL(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("listen_address", func(fl validator.FieldLevel) bool {
		_, port, err := net.SplitHostPort(fl.Field().String())
		if err != nil {
			return false
		}
		p, err := strconv.Atoi(port)
		return err == nil && p >= 0 && p <= 65535
	})
	return v
}

// parsesAsPostgres reports whether pgdriver accepts dsn. The connector is only built,
// never dialed; WithDSN panics on a DSN it cannot parse.
func parsesAsPostgres(dsn string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	var c driver.Connector = pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	return c != nil
}
