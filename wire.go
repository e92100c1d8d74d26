package esodbc

import (
	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
)

// wireParam is a single bound parameter in the outgoing query envelope's
// params array, shaped after the {type, value} pairs the Elasticsearch SQL
// REST API expects (distinct from a JDBC "?" positional marker, which the
// params array replaces).
type wireParam struct {
	Type  string      `json:"type" cbor:"type"`
	Value interface{} `json:"value" cbor:"value"`
}

// queryRequest is the request body for the `_sql` endpoint, covering the
// fields named in spec §6: query/params/cursor plus the session-level
// options (time_zone, mode, client_id, fetch_size, timeouts).
type queryRequest struct {
	Query          string      `json:"query,omitempty" cbor:"query,omitempty"`
	Cursor         string      `json:"cursor,omitempty" cbor:"cursor,omitempty"`
	Params         []wireParam `json:"params,omitempty" cbor:"params,omitempty"`
	FetchSize      int         `json:"fetch_size,omitempty" cbor:"fetch_size,omitempty"`
	TimeZone       string      `json:"time_zone,omitempty" cbor:"time_zone,omitempty"`
	Mode           string      `json:"mode,omitempty" cbor:"mode,omitempty"`
	ClientID       string      `json:"client_id,omitempty" cbor:"client_id,omitempty"`
	RequestTimeout string      `json:"request_timeout,omitempty" cbor:"request_timeout,omitempty"`
	PageTimeout    string      `json:"page_timeout,omitempty" cbor:"page_timeout,omitempty"`
}

// wireColumn is one entry of a response's columns array.
type wireColumn struct {
	Name string `json:"name" cbor:"name"`
	Type string `json:"type" cbor:"type"`
}

// queryResponse is the `_sql` endpoint's success response body.
type queryResponse struct {
	Columns []wireColumn    `json:"columns,omitempty" cbor:"columns,omitempty"`
	Rows    [][]interface{} `json:"rows" cbor:"rows"`
	Cursor  string          `json:"cursor,omitempty" cbor:"cursor,omitempty"`
}

// closeCursorRequest is the body sent to release a server-side cursor early
// (e.g. when the caller stops iterating a Rows before it's exhausted).
type closeCursorRequest struct {
	Cursor string `json:"cursor" cbor:"cursor"`
}

type closeCursorResponse struct {
	Succeeded bool `json:"succeeded" cbor:"succeeded"`
}

// serverErrorBody is the nested `error` object ES returns on a 4xx/5xx
// response; CausedBy chains mirror how Elasticsearch reports root causes.
type serverErrorBody struct {
	Type     string           `json:"type" cbor:"type"`
	Reason   string           `json:"reason" cbor:"reason"`
	CausedBy *serverErrorBody `json:"caused_by,omitempty" cbor:"caused_by,omitempty"`
}

type serverErrorEnvelope struct {
	Error  *serverErrorBody `json:"error,omitempty" cbor:"error,omitempty"`
	Status int              `json:"status,omitempty" cbor:"status,omitempty"`
}

// wireCodec is the C8 wire encoding abstraction: Elasticsearch SQL accepts
// either JSON or CBOR request/response bodies selected by Content-Type, and
// the driver picks one per Connector.Packing setting.
type wireCodec interface {
	ContentType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// jsonCodec uses json-iterator in its stdlib-compatible configuration --
// the teacher's tests and examples pass plain Go structs/maps around, and
// jsoniter.ConfigCompatibleWithStandardLibrary keeps that working unchanged
// while giving a faster Marshal/Unmarshal path for the row-heavy responses
// this driver streams.
type jsonCodec struct{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (jsonCodec) ContentType() string                      { return "application/json" }
func (jsonCodec) Marshal(v interface{}) ([]byte, error)     { return jsonAPI.Marshal(v) }
func (jsonCodec) Unmarshal(d []byte, v interface{}) error   { return jsonAPI.Unmarshal(d, v) }

// cborCodec uses fxamacker/cbor for the binary wire mode -- cuts payload
// size on wide result sets since every row avoids repeating field names.
type cborCodec struct{}

func (cborCodec) ContentType() string { return "application/cbor" }
func (cborCodec) Marshal(v interface{}) ([]byte, error) {
	return cbor.Marshal(v)
}
func (cborCodec) Unmarshal(d []byte, v interface{}) error {
	return cbor.Unmarshal(d, v)
}

// Packing selects the wire codec a Connector uses.
type Packing int

const (
	PackingJSON Packing = iota
	PackingCBOR
)

func codecFor(p Packing) wireCodec {
	if p == PackingCBOR {
		return cborCodec{}
	}
	return jsonCodec{}
}
