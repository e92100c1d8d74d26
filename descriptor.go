package esodbc

// DescRecord is one descriptor record: a single column's (or parameter's)
// binding metadata, modeled on the per-field bookkeeping the teacher keeps
// in ColumnBuffer and outputParamInfo but generalized into the four
// descriptor kinds ODBC defines (ARD/APD row-wise binding, IRD/IPD
// server-reported metadata).
type DescRecord struct {
	Name          string
	SQLType       SQLSMALLINT
	CType         SQLSMALLINT
	ColumnSize    SQLULEN
	DecimalDigits SQLSMALLINT
	Nullable      SQLSMALLINT
	Unnamed       bool

	// Binding target, set only on ARD/APD records. DataPtr holds a pointer to
	// a Go slice (the deferred-address/stride pair ODBC computes by hand from
	// bind_offset/bind_type collapses to a slice header in Go); Indicators is
	// the per-row indicator/length array BindColumn sizes to the
	// descriptor's ArraySize.
	DataPtr     interface{}
	Indicators  []SQLLEN
	OctetLength SQLLEN
}

// DescType identifies which of the four descriptor handles a Descriptor
// represents.
type DescType int

const (
	DescARD DescType = iota // application row descriptor (result bind targets)
	DescAPD                  // application parameter descriptor (param bind sources)
	DescIRD                  // implementation row descriptor (server column metadata)
	DescIPD                  // implementation parameter descriptor (server param metadata)
)

// Descriptor is a single ARD/APD/IRD/IPD handle: an ordered set of records
// plus the header-level attributes spec §3 calls out (bind type, array
// size/status pointers for row-wise binding).
type Descriptor struct {
	Kind    DescType
	Records []DescRecord

	// Header attributes, relevant only to ARD/APD.
	BindType      SQLINTEGER // SQL_BIND_BY_COLUMN (0) or a row byte-stride
	ArraySize     SQLULEN
	RowsProcessed *SQLULEN
	RowStatus     []SQLUSMALLINT
}

func newDescriptor(kind DescType) *Descriptor {
	return &Descriptor{Kind: kind, ArraySize: 1}
}

// SetRecordCount grows or truncates the record list, per SQL_DESC_COUNT
// semantics: shrinking drops trailing records, growing appends zero-valued
// ones.
func (d *Descriptor) SetRecordCount(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(d.Records) {
		d.Records = d.Records[:n]
		return
	}
	for len(d.Records) < n {
		d.Records = append(d.Records, DescRecord{})
	}
}

// Record returns the 1-based record at ordinal, or false if out of range --
// matching SQL_DESC_* "invalid descriptor index" (HY091) semantics at the
// caller.
func (d *Descriptor) Record(ordinal int) (*DescRecord, bool) {
	idx := ordinal - 1
	if idx < 0 || idx >= len(d.Records) {
		return nil, false
	}
	return &d.Records[idx], true
}

// FromColumns builds an IRD from a wire response's column list, resolving
// each column's server type name through the type registry (C1).
func FromColumns(cols []wireColumn, reg *typeRegistry) *Descriptor {
	d := newDescriptor(DescIRD)
	d.Records = make([]DescRecord, len(cols))
	for i, c := range cols {
		t := reg.Lookup(c.Type)
		d.Records[i] = DescRecord{
			Name:          c.Name,
			SQLType:       t.SQLType,
			CType:         t.CType,
			ColumnSize:    t.ColumnSize,
			DecimalDigits: t.DecimalDigits,
			Nullable:      SQL_NULLABLE_UNKNOWN,
		}
	}
	return d
}
