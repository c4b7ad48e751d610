package app

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/ninety-minute/internal/config"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const maxTracedStatementLength = 512

var (
	statementWhitespace = regexp.MustCompile(`\s+`)
	statementComment    = regexp.MustCompile(`--[^\n]*`)
)

// postgresTarget is DB_URL split into what the driver, tracing and logs need.
type postgresTarget struct {
	dsn  string
	name string
	host string
}

// parsePostgresTarget accepts both URL and key=value connection strings.
// Binary results for prepared statements are turned off unless the URL says
// otherwise.
func parsePostgresTarget(raw string, disableBinaryResults bool) postgresTarget {
	raw = strings.TrimSpace(raw)
	target := postgresTarget{dsn: raw}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		target.name = keywordValue(raw, "dbname")
		target.host = keywordValue(raw, "host")
		return target
	}

	target.name = strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	target.host = parsed.Host
	if disableBinaryResults {
		query := parsed.Query()
		if query.Get("disable_prepared_binary_result") == "" {
			query.Set("disable_prepared_binary_result", "yes")
			parsed.RawQuery = query.Encode()
			target.dsn = parsed.String()
		}
	}
	return target
}

func keywordValue(dsn, key string) string {
	for _, token := range strings.Fields(dsn) {
		value, ok := strings.CutPrefix(token, key+"=")
		if !ok {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return ""
}

// traceStatement flattens a query for span attributes. Line comments are
// dropped and long statements are cut on a rune boundary.
func traceStatement(query string) string {
	query = statementComment.ReplaceAllString(query, " ")
	query = strings.TrimSpace(statementWhitespace.ReplaceAllString(query, " "))
	if len(query) <= maxTracedStatementLength {
		return query
	}

	cut := maxTracedStatementLength
	for cut > 0 && !utf8.RuneStart(query[cut]) {
		cut--
	}
	return query[:cut] + "..."
}

// openDB opens a traced PostgreSQL handle sized by config.
func openDB(cfg config.Config) (*sqlx.DB, postgresTarget, error) {
	target := parsePostgresTarget(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", target.dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(target.name),
		otelsql.WithQueryFormatter(traceStatement),
	)
	if err != nil {
		return nil, target, errors.Wrapf(err, "open postgres %s/%s", target.host, target.name)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(target.name))

	return db, target, nil
}
