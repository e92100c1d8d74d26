package esodbc

import "testing"

func TestDescriptor_SetRecordCount(t *testing.T) {
	d := newDescriptor(DescARD)
	d.SetRecordCount(3)
	if len(d.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(d.Records))
	}
	d.SetRecordCount(1)
	if len(d.Records) != 1 {
		t.Fatalf("expected truncation to 1 record, got %d", len(d.Records))
	}
	d.SetRecordCount(-5)
	if len(d.Records) != 0 {
		t.Fatalf("expected negative count clamped to 0, got %d", len(d.Records))
	}
}

func TestDescriptor_RecordOutOfRange(t *testing.T) {
	d := newDescriptor(DescIRD)
	d.SetRecordCount(2)
	if _, ok := d.Record(0); ok {
		t.Error("expected ordinal 0 to be out of range (1-based)")
	}
	if _, ok := d.Record(3); ok {
		t.Error("expected ordinal 3 to be out of range for 2 records")
	}
	rec, ok := d.Record(1)
	if !ok || rec == nil {
		t.Fatal("expected ordinal 1 to resolve")
	}
}

func TestFromColumns(t *testing.T) {
	reg := newTypeRegistry()
	cols := []wireColumn{
		{Name: "id", Type: "integer"},
		{Name: "name", Type: "keyword"},
	}
	d := FromColumns(cols, reg)
	if d.Kind != DescIRD {
		t.Errorf("expected DescIRD, got %v", d.Kind)
	}
	if len(d.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(d.Records))
	}
	if d.Records[0].SQLType != SQL_INTEGER {
		t.Errorf("expected id column mapped to SQL_INTEGER, got %d", d.Records[0].SQLType)
	}
	if d.Records[1].SQLType != SQL_VARCHAR {
		t.Errorf("expected name column mapped to SQL_VARCHAR, got %d", d.Records[1].SQLType)
	}
	for i, rec := range d.Records {
		if rec.Nullable != SQL_NULLABLE_UNKNOWN {
			t.Errorf("record %d: expected SQL_NULLABLE_UNKNOWN, got %d", i, rec.Nullable)
		}
	}
}
