package esodbc

import (
	"context"
	"database/sql/driver"
)

// Connector implements driver.Connector for efficient connection pooling,
// generalizing the teacher's native-handle Connector (env/dbc allocation
// plus a handful of Enhanced Type Handling options) into one that builds a
// Transport and type registry instead.
type Connector struct {
	cfg    Config
	driver *Driver

	// transport overrides the default RestyTransport, letting tests and
	// advanced callers supply their own (e.g. a fake Transport, or one
	// wrapping a shared *resty.Client). Nil means Connect builds one from
	// cfg via NewRestyTransport.
	transport Transport

	registry *typeRegistry
}

// ConnectorOption configures a Connector, the same functional-options shape
// the teacher uses for WithTimezone/WithTimestampPrecision.
type ConnectorOption func(*Connector)

// WithTransport overrides the HTTP transport a Connector uses, primarily for
// tests that need to fake the Elasticsearch SQL endpoint.
func WithTransport(t Transport) ConnectorOption {
	return func(c *Connector) { c.transport = t }
}

// WithTypeRegistry overrides the type registry a Connector's connections
// share, bypassing the SYS TYPES bootstrap query -- useful for tests that
// want deterministic type resolution without a live server round trip.
func WithTypeRegistry(reg *typeRegistry) ConnectorOption {
	return func(c *Connector) { c.registry = reg }
}

// NewConnector builds a Connector directly from a DSN and options, the path
// database/sql.OpenDB callers use instead of sql.Open.
func NewConnector(dsn string, opts ...ConnectorOption) (*Connector, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	c := &Connector{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect establishes a new connection: builds (or reuses) a Transport and
// type registry, then bootstraps the registry from the server's SYS TYPES
// catalog the way the original driver's info.c refreshes its type grid at
// connect time -- a supplemented feature SPEC_FULL.md adds back in because a
// hardcoded type table would silently drift from the server's actual
// version.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	transport := c.transport
	if transport == nil {
		transport = NewRestyTransport(TransportConfig{
			BaseURL:            c.cfg.Endpoint,
			Username:           c.cfg.Username,
			Password:           c.cfg.Password,
			APIKey:             c.cfg.APIKey,
			Packing:            c.cfg.Packing,
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
			RequestTimeout:     c.cfg.RequestTimeout,
		})
	}

	if err := transport.Ping(ctx); err != nil {
		return nil, err
	}

	registry := c.registry
	if registry == nil {
		registry = newTypeRegistry()
		rows, err := fetchSysTypes(ctx, transport)
		if err != nil {
			return nil, err
		}
		registry.BuildFromRows(rows)
	}

	return &Conn{
		transport: transport,
		registry:  registry,
		cfg:       c.cfg,
	}, nil
}

// Driver returns the underlying Driver.
func (c *Connector) Driver() driver.Driver {
	if c.driver == nil {
		return &Driver{}
	}
	return c.driver
}

// fetchSysTypes issues `SYS TYPES` and decodes its rows into sysTypeRow,
// matching the column order (TYPE_NAME, DATA_TYPE, PRECISION, ... ,
// SEARCHABLE) the server reports for that catalog query.
func fetchSysTypes(ctx context.Context, transport Transport) ([]sysTypeRow, error) {
	resp, err := transport.Query(ctx, &queryRequest{Query: "SYS TYPES", FetchSize: 1024})
	if err != nil {
		return nil, err
	}

	colIdx := make(map[string]int, len(resp.Columns))
	for i, c := range resp.Columns {
		colIdx[c.Name] = i
	}
	idx := func(name string) (int, bool) {
		i, ok := colIdx[name]
		return i, ok
	}

	nameIdx, ok := idx("TYPE_NAME")
	if !ok {
		return nil, &Error{SQLState: SQLStateGeneralError, Message: "SYS TYPES response missing TYPE_NAME column"}
	}
	dataTypeIdx, hasDataType := idx("DATA_TYPE")
	precisionIdx, hasPrecision := idx("PRECISION")
	scaleIdx, hasScale := idx("MAXIMUM_SCALE")
	searchableIdx, hasSearchable := idx("SEARCHABLE")

	rows := make([]sysTypeRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		row := sysTypeRow{TypeName: asString(r[nameIdx])}
		if hasDataType {
			if v, ok := asInt(r, dataTypeIdx); ok {
				row.DataType = SQLSMALLINT(v)
			}
		}
		if hasPrecision {
			if v, ok := asInt(r, precisionIdx); ok {
				row.ColumnSize = SQLULEN(v)
			}
		}
		if hasScale {
			if v, ok := asInt(r, scaleIdx); ok {
				row.DecimalDigits = SQLSMALLINT(v)
			}
		}
		if hasSearchable && searchableIdx < len(r) {
			if b, ok := r[searchableIdx].(bool); ok {
				row.Searchable = b
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(row []interface{}, idx int) (int64, bool) {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return 0, false
	}
	switch n := row[idx].(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// Ensure Connector implements driver.Connector.
var _ driver.Connector = (*Connector)(nil)
