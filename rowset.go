package esodbc

import (
	"context"
	"fmt"
	"io"
	"reflect"
)

// NewARD builds an application row descriptor sized for a block fetch of
// arraySize rows -- the row-wise counterpart to the single-row path
// Rows.Next drives through database/sql.
func NewARD(arraySize SQLULEN) *Descriptor {
	if arraySize == 0 {
		arraySize = 1
	}
	d := newDescriptor(DescARD)
	d.ArraySize = arraySize
	return d
}

// BindColumn attaches a Go slice as the deferred-address binding target for
// one ARD record. A Go slice header already carries the base address and
// element stride that address(rec,row) = data_ptr + bind_offset + row*stride
// computes by hand in real ODBC, so FetchRowset indexes it directly instead
// of reimplementing pointer arithmetic.
func BindColumn(ard *Descriptor, ordinal int, cType SQLSMALLINT, dataPtr interface{}) error {
	rv := reflect.ValueOf(dataPtr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return &Error{SQLState: SQLStateInvalidAttrValue, Message: "BindColumn requires a pointer to a slice"}
	}
	if SQLULEN(rv.Elem().Len()) < ard.ArraySize {
		return &Error{SQLState: SQLStateInvalidAttrValue, Message: "bound slice is shorter than the descriptor's array size"}
	}

	if ordinal > len(ard.Records) {
		ard.SetRecordCount(ordinal)
	}
	rec, ok := ard.Record(ordinal)
	if !ok {
		return &Error{SQLState: SQLStateInvalidDescIndex91, Message: "invalid descriptor index"}
	}
	rec.CType = cType
	rec.DataPtr = dataPtr
	rec.Indicators = make([]SQLLEN, ard.ArraySize)
	return nil
}

// FetchRowset performs one block fetch of up to ard.ArraySize rows into the
// slices BindColumn attached: the array/row-wise counterpart to Rows.Next's
// one-row-at-a-time contract. Each bound slice is written at index i for
// row i; RowStatus is set per row (SQL_ROW_SUCCESS, SQL_ROW_ERROR, or
// SQL_ROW_NOROW once the cursor is exhausted mid-rowset), and
// RowsProcessed -- if non-nil -- receives the count of rows actually
// fetched this call.
func (c *Cursor) FetchRowset(ctx context.Context, ard *Descriptor) (SQLULEN, error) {
	n := ard.ArraySize
	if n == 0 {
		n = 1
	}
	if SQLULEN(len(ard.RowStatus)) != n {
		ard.RowStatus = make([]SQLUSMALLINT, n)
	}

	recs := c.Descriptor().Records
	var fetched SQLULEN
	var firstErr error
	for i := SQLULEN(0); i < n; i++ {
		row, err := c.Next(ctx)
		if err == io.EOF {
			for j := i; j < n; j++ {
				ard.RowStatus[j] = SQL_ROW_NOROW
			}
			break
		}
		if err != nil {
			ard.RowStatus[i] = SQL_ROW_ERROR
			if firstErr == nil {
				firstErr = err
			}
			fetched++
			continue
		}

		ard.RowStatus[i] = SQL_ROW_SUCCESS
		for recNo := range ard.Records {
			rec := &ard.Records[recNo]
			if rec.DataPtr == nil {
				continue
			}
			var src DescRecord
			if recNo < len(recs) {
				src = recs[recNo]
			}
			var raw interface{}
			if recNo < len(row) {
				raw = row[recNo]
			}
			v, convErr := convertFromWire(raw, src)
			if convErr != nil {
				ard.RowStatus[i] = SQL_ROW_ERROR
				if firstErr == nil {
					firstErr = convErr
				}
				continue
			}
			if setErr := setSliceElem(rec.DataPtr, int(i), v); setErr != nil {
				ard.RowStatus[i] = SQL_ROW_ERROR
				if firstErr == nil {
					firstErr = setErr
				}
				continue
			}
			if int(i) < len(rec.Indicators) {
				if v == nil {
					rec.Indicators[i] = SQL_NULL_DATA
				} else {
					rec.Indicators[i] = 0
				}
			}
		}
		fetched++
	}

	if ard.RowsProcessed != nil {
		*ard.RowsProcessed = fetched
	}
	if fetched == 0 && firstErr == nil {
		return 0, io.EOF
	}
	return fetched, firstErr
}

// setSliceElem writes value into the slice dataPtr points to at idx,
// converting between Go's driver.Value family and the bound slice's element
// type where the conversion is safe (e.g. int64 into int), and reporting
// 07006 when the bound column's Go type cannot hold the converted value.
func setSliceElem(dataPtr interface{}, idx int, value interface{}) error {
	rv := reflect.ValueOf(dataPtr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return &Error{SQLState: SQLStateInvalidAttrValue, Message: "bound column is not a slice pointer"}
	}
	slice := rv.Elem()
	if idx >= slice.Len() {
		return &Error{SQLState: SQLStateInvalidAttrValue, Message: "row index exceeds bound slice length"}
	}
	elem := slice.Index(idx)
	if value == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(elem.Type()) {
		elem.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(elem.Type()) {
		elem.Set(val.Convert(elem.Type()))
		return nil
	}
	return &Error{SQLState: SQLStateRestrictedDataType, Message: fmt.Sprintf("cannot assign %s into bound column of type %s", val.Type(), elem.Type())}
}
