package postgres

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
)

// DSN renders the database settings as a lib/pq keyword/value string.
// Empty settings are left out so lib/pq applies its own defaults.
func DSN(cfg *config.DatabaseConfig) string {
	sslmode := lo.Ternary(cfg.SSLMode == "", "disable", cfg.SSLMode)
	port := ""
	if cfg.Port > 0 {
		port = strconv.Itoa(cfg.Port)
	}

	pairs := [][2]string{
		{"host", cfg.Host},
		{"port", port},
		{"user", cfg.User},
		{"password", cfg.Password},
		{"dbname", cfg.Name},
		{"sslmode", sslmode},
	}
	parts := lo.FilterMap(pairs, func(kv [2]string, _ int) (string, bool) {
		return kv[0] + "=" + quote(kv[1]), kv[1] != ""
	})
	return strings.Join(parts, " ")
}

// quote wraps v in single quotes when lib/pq would otherwise split or
// misread it, escaping quotes and backslashes.
func quote(v string) string {
	if !strings.ContainsAny(v, " '\\\t") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
