package esodbc

import "strings"

// esType is the canonical descriptor for a server-reported Elasticsearch SQL
// column type, keyed by the lowercase JSON type name the server sends in a
// query response's columns array and in SYS TYPES catalog rows.
type esType struct {
	Name          string      // lowercase server type name, the registry key
	SQLType       SQLSMALLINT // nearest ODBC SQL type
	CType         SQLSMALLINT // default C type used when no descriptor override is bound
	ColumnSize    SQLULEN
	DecimalDigits SQLSMALLINT
	Signed        bool
	Searchable    bool
	CaseSensitive bool
	Unsupported   bool // surfaced but cannot be bound (NESTED/OBJECT)
}

// typeRegistry is the C1 table. defaultRegistry is built at package init
// from the compiled-in defaults but is not used by Connector.Connect: each
// Connect builds its own registry and fills it with BuildFromRows from a
// live SYS TYPES response (unless one was supplied with WithTypeRegistry), so
// registries are not shared between connections. The refresh mirrors what
// the original driver's info.c does at SQLGetTypeInfo time.
type typeRegistry struct {
	byName map[string]esType
}

func newTypeRegistry() *typeRegistry {
	r := &typeRegistry{byName: make(map[string]esType, len(defaultESTypes))}
	for _, t := range defaultESTypes {
		r.byName[t.Name] = t
	}
	return r
}

var defaultRegistry = newTypeRegistry()

// defaultESTypes mirrors the ES SQL JSON type names surfaced by
// type_elastic2csql in the original driver's queries.c, including the
// IP/NESTED/OBJECT types the abstract type grid doesn't name directly.
var defaultESTypes = []esType{
	{Name: "boolean", SQLType: SQL_BIT, CType: SQL_C_BIT, ColumnSize: 1, Searchable: true},
	{Name: "byte", SQLType: SQL_TINYINT, CType: SQL_C_STINYINT, ColumnSize: 3, Signed: true, Searchable: true},
	{Name: "short", SQLType: SQL_SMALLINT, CType: SQL_C_SSHORT, ColumnSize: 5, Signed: true, Searchable: true},
	{Name: "integer", SQLType: SQL_INTEGER, CType: SQL_C_SLONG, ColumnSize: 10, Signed: true, Searchable: true},
	{Name: "long", SQLType: SQL_BIGINT, CType: SQL_C_SBIGINT, ColumnSize: 19, Signed: true, Searchable: true},
	{Name: "half_float", SQLType: SQL_REAL, CType: SQL_C_FLOAT, ColumnSize: 7, Signed: true, Searchable: true},
	{Name: "float", SQLType: SQL_REAL, CType: SQL_C_FLOAT, ColumnSize: 7, Signed: true, Searchable: true},
	{Name: "double", SQLType: SQL_DOUBLE, CType: SQL_C_DOUBLE, ColumnSize: 15, Signed: true, Searchable: true},
	{Name: "scaled_float", SQLType: SQL_DOUBLE, CType: SQL_C_DOUBLE, ColumnSize: 15, Signed: true, Searchable: true},
	{Name: "keyword", SQLType: SQL_VARCHAR, CType: SQL_C_CHAR, ColumnSize: 32766, Searchable: true, CaseSensitive: true},
	{Name: "text", SQLType: SQL_VARCHAR, CType: SQL_C_CHAR, ColumnSize: 2147483647, Searchable: true, CaseSensitive: true},
	{Name: "binary", SQLType: SQL_VARBINARY, CType: SQL_C_BINARY, ColumnSize: 2147483647, Searchable: false},
	{Name: "date", SQLType: SQL_TYPE_TIMESTAMP, CType: SQL_C_TIMESTAMP, ColumnSize: 29, DecimalDigits: 3, Searchable: true},
	{Name: "datetime", SQLType: SQL_TYPE_TIMESTAMP, CType: SQL_C_TIMESTAMP, ColumnSize: 29, DecimalDigits: 3, Searchable: true},
	{Name: "ip", SQLType: SQL_VARCHAR, CType: SQL_C_CHAR, ColumnSize: 45, Searchable: true, CaseSensitive: false},
	{Name: "nested", Unsupported: true},
	{Name: "object", Unsupported: true},
	{Name: "unsupported", Unsupported: true},
}

// Lookup resolves a server type name (case-insensitive) to its descriptor.
// Unknown names fall back to an unsupported VARCHAR-shaped descriptor rather
// than failing the whole result set, matching how the registry tolerates new
// ES field types rolling out ahead of driver releases.
func (r *typeRegistry) Lookup(name string) esType {
	if t, ok := r.byName[strings.ToLower(name)]; ok {
		return t
	}
	return esType{Name: name, SQLType: SQL_VARCHAR, CType: SQL_C_CHAR, ColumnSize: 32766, Searchable: true, Unsupported: true}
}

// sysTypeRow is one row of a `SYS TYPES` catalog result, used by
// BuildFromRows to refresh the registry from a live server instead of the
// compiled-in defaults.
type sysTypeRow struct {
	TypeName      string
	DataType      SQLSMALLINT
	ColumnSize    SQLULEN
	DecimalDigits SQLSMALLINT
	Searchable    bool
}

// BuildFromRows replaces the registry's contents with rows fetched from
// `SYS TYPES`, invoked once per Conn at connect time so a driver talking to
// a newer/older Elasticsearch still gets an accurate catalog.
func (r *typeRegistry) BuildFromRows(rows []sysTypeRow) {
	fresh := make(map[string]esType, len(rows))
	for _, row := range rows {
		name := strings.ToLower(row.TypeName)
		fresh[name] = esType{
			Name:          name,
			SQLType:       row.DataType,
			CType:         cTypeForSQLType(row.DataType),
			ColumnSize:    row.ColumnSize,
			DecimalDigits: row.DecimalDigits,
			Searchable:    row.Searchable,
		}
	}
	if len(fresh) > 0 {
		r.byName = fresh
	}
}

func cTypeForSQLType(t SQLSMALLINT) SQLSMALLINT {
	switch t {
	case SQL_BIT:
		return SQL_C_BIT
	case SQL_TINYINT:
		return SQL_C_STINYINT
	case SQL_SMALLINT:
		return SQL_C_SSHORT
	case SQL_INTEGER:
		return SQL_C_SLONG
	case SQL_BIGINT:
		return SQL_C_SBIGINT
	case SQL_REAL:
		return SQL_C_FLOAT
	case SQL_DOUBLE, SQL_FLOAT:
		return SQL_C_DOUBLE
	case SQL_TYPE_TIMESTAMP, SQL_DATETIME:
		return SQL_C_TIMESTAMP
	case SQL_TYPE_DATE:
		return SQL_C_DATE
	case SQL_TYPE_TIME:
		return SQL_C_TIME
	case SQL_VARBINARY, SQL_BINARY, SQL_LONGVARBINARY:
		return SQL_C_BINARY
	default:
		return SQL_C_CHAR
	}
}
