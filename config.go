package esodbc

import (
	"strconv"
	"strings"
	"time"
)

// Config holds the parsed connection keywords from a DSN string, generalizing
// the teacher's raw "Driver={...};Server=...;UID=..." string into typed
// fields. Keys are case-insensitive and ';'-separated, matching the
// teacher's DriverConnect-string convention; values may be wrapped in
// braces to allow embedded ';' or '='.
type Config struct {
	Endpoint           string
	Username, Password string
	APIKey             string
	Catalog            string
	VarcharLimit       SQLULEN
	ApplyTZ            string
	Packing            Packing
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
	FetchSize          int
}

// defaultFetchSize matches the server's own default page size for `_sql`
// queries when the connection doesn't override it.
const defaultFetchSize = 1000

// ParseDSN parses a connection string into a Config. Unknown keys are
// ignored rather than rejected, since a DSN may carry transport-specific
// keys (TLS options, proxy settings) this driver passes straight through to
// Transport construction without needing to know their names.
func ParseDSN(dsn string) (Config, error) {
	cfg := Config{
		Packing:        PackingJSON,
		RequestTimeout: 30 * time.Second,
		FetchSize:      defaultFetchSize,
	}

	for _, pair := range splitDSN(dsn) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.Trim(strings.TrimSpace(kv[1]), "{}")

		switch key {
		case "server", "endpoint", "host":
			cfg.Endpoint = val
		case "uid", "user", "username":
			cfg.Username = val
		case "pwd", "password":
			cfg.Password = val
		case "apikey", "api_key":
			cfg.APIKey = val
		case "catalog":
			cfg.Catalog = val
		case "varcharlimit", "varchar_limit":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.VarcharLimit = SQLULEN(n)
			}
		case "applytz", "apply_tz", "timezone":
			cfg.ApplyTZ = val
		case "packing":
			if strings.EqualFold(val, "cbor") {
				cfg.Packing = PackingCBOR
			}
		case "insecureskipverify", "trustservercertificate":
			cfg.InsecureSkipVerify = strings.EqualFold(val, "true") || val == "1" || val == "yes"
		case "requesttimeout", "request_timeout":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.RequestTimeout = time.Duration(n) * time.Second
			}
		case "fetchsize", "fetch_size":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.FetchSize = n
			}
		}
	}

	if cfg.Endpoint == "" {
		return cfg, &Error{SQLState: SQLStateInvalidConnStringAttr, Message: "missing Server/Endpoint in connection string"}
	}
	return cfg, nil
}

// splitDSN splits on ';' while respecting '{...}' grouping, so a braced
// value may itself contain ';' or '='.
func splitDSN(dsn string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(dsn); i++ {
		switch dsn[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				parts = append(parts, dsn[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, dsn[start:])
	return parts
}
