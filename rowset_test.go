package esodbc

import (
	"context"
	"io"
	"testing"
)

func TestFetchRowset_FullRowset(t *testing.T) {
	ft := &fakeTransport{
		pages: []*queryResponse{
			{
				Columns: []wireColumn{{Name: "id", Type: "integer"}, {Name: "name", Type: "keyword"}},
				Rows: [][]interface{}{
					{int64(1), "a"},
					{int64(2), "b"},
					{int64(3), "c"},
					{int64(4), "d"},
				},
			},
		},
	}
	reg := newTypeRegistry()
	cur, err := openCursor(context.Background(), ft, reg, &queryRequest{Query: "SELECT id, name FROM t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ard := NewARD(4)
	ids := make([]int64, 4)
	names := make([]string, 4)
	if err := BindColumn(ard, 1, SQL_C_SLONG, &ids); err != nil {
		t.Fatalf("bind id: %v", err)
	}
	if err := BindColumn(ard, 2, SQL_C_CHAR, &names); err != nil {
		t.Fatalf("bind name: %v", err)
	}

	n, err := cur.FetchRowset(context.Background(), ard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 rows fetched, got %d", n)
	}
	wantIDs := []int64{1, 2, 3, 4}
	wantNames := []string{"a", "b", "c", "d"}
	for i := range wantIDs {
		if ids[i] != wantIDs[i] || names[i] != wantNames[i] {
			t.Errorf("row %d: expected (%d, %q), got (%d, %q)", i, wantIDs[i], wantNames[i], ids[i], names[i])
		}
		if ard.RowStatus[i] != SQL_ROW_SUCCESS {
			t.Errorf("row %d: expected SQL_ROW_SUCCESS, got %d", i, ard.RowStatus[i])
		}
	}
}

func TestFetchRowset_PartialLastFetch(t *testing.T) {
	ft := &fakeTransport{
		pages: []*queryResponse{
			{
				Columns: []wireColumn{{Name: "id", Type: "integer"}},
				Rows: [][]interface{}{
					{int64(1)},
					{int64(2)},
				},
			},
		},
	}
	reg := newTypeRegistry()
	cur, err := openCursor(context.Background(), ft, reg, &queryRequest{Query: "SELECT id FROM t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ard := NewARD(4)
	ids := make([]int64, 4)
	if err := BindColumn(ard, 1, SQL_C_SLONG, &ids); err != nil {
		t.Fatalf("bind id: %v", err)
	}

	n, err := cur.FetchRowset(context.Background(), ard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows fetched, got %d", n)
	}
	if ard.RowStatus[0] != SQL_ROW_SUCCESS || ard.RowStatus[1] != SQL_ROW_SUCCESS {
		t.Errorf("expected first two rows SQL_ROW_SUCCESS, got %v", ard.RowStatus)
	}
	if ard.RowStatus[2] != SQL_ROW_NOROW || ard.RowStatus[3] != SQL_ROW_NOROW {
		t.Errorf("expected trailing rows SQL_ROW_NOROW, got %v", ard.RowStatus)
	}
	if ard.RowsProcessed != nil {
		t.Fatal("expected RowsProcessed to stay nil when the caller did not set it")
	}
}

func TestFetchRowset_RowsProcessed(t *testing.T) {
	ft := &fakeTransport{
		pages: []*queryResponse{
			{
				Columns: []wireColumn{{Name: "id", Type: "integer"}},
				Rows:    [][]interface{}{{int64(1)}, {int64(2)}},
			},
		},
	}
	reg := newTypeRegistry()
	cur, err := openCursor(context.Background(), ft, reg, &queryRequest{Query: "SELECT id FROM t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ard := NewARD(2)
	ids := make([]int64, 2)
	if err := BindColumn(ard, 1, SQL_C_SLONG, &ids); err != nil {
		t.Fatalf("bind id: %v", err)
	}
	var processed SQLULEN
	ard.RowsProcessed = &processed

	if _, err := cur.FetchRowset(context.Background(), ard); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 2 {
		t.Errorf("expected RowsProcessed = 2, got %d", processed)
	}
}

func TestFetchRowset_ExhaustedReturnsEOF(t *testing.T) {
	ft := &fakeTransport{
		pages: []*queryResponse{
			{Columns: []wireColumn{{Name: "id", Type: "integer"}}},
		},
	}
	reg := newTypeRegistry()
	cur, err := openCursor(context.Background(), ft, reg, &queryRequest{Query: "SELECT id FROM t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ard := NewARD(2)
	ids := make([]int64, 2)
	if err := BindColumn(ard, 1, SQL_C_SLONG, &ids); err != nil {
		t.Fatalf("bind id: %v", err)
	}
	_, err = cur.FetchRowset(context.Background(), ard)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestBindColumn_RejectsNonSlicePointer(t *testing.T) {
	ard := NewARD(2)
	var notASlice int64
	if err := BindColumn(ard, 1, SQL_C_SLONG, &notASlice); err == nil {
		t.Fatal("expected error binding a non-slice pointer")
	}
}

func TestBindColumn_RejectsShortSlice(t *testing.T) {
	ard := NewARD(4)
	ids := make([]int64, 2)
	if err := BindColumn(ard, 1, SQL_C_SLONG, &ids); err == nil {
		t.Fatal("expected error binding a slice shorter than ArraySize")
	}
}
