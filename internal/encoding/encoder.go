package encoding

import (
	"bytes"
	"encoding/json"
	"sync"
	"sync/atomic"
)

// ReportEncoder marshals engine responses using pooled buffers. Decision
// reports carry a breakdown per college, so payloads get large enough that
// per-request buffer allocation shows up in profiles.
type ReportEncoder struct {
	buffers   sync.Pool
	marshals  int64
	poolReuse int64
}

// NewReportEncoder creates an encoder with a shared buffer pool.
func NewReportEncoder() *ReportEncoder {
	e := &ReportEncoder{}
	e.buffers.New = func() interface{} {
		return new(bytes.Buffer)
	}
	return e
}

// Marshal encodes v to compact JSON.
func (e *ReportEncoder) Marshal(v interface{}) ([]byte, error) {
	atomic.AddInt64(&e.marshals, 1)

	buf := e.buffers.Get().(*bytes.Buffer)
	if buf.Len() > 0 {
		atomic.AddInt64(&e.poolReuse, 1)
	}
	buf.Reset()
	defer e.buffers.Put(buf)

	encoder := json.NewEncoder(buf)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	// Encode appends a newline; callers expect a bare JSON document.
	data := buf.Bytes()
	if n := len(data); n > 0 && data[n-1] == '\n' {
		data = data[:n-1]
	}

	// The buffer goes back to the pool, so the caller gets a copy.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Unmarshal decodes JSON into v.
func (e *ReportEncoder) Unmarshal(data []byte, v interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// GetStats returns encoder usage statistics.
func (e *ReportEncoder) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"marshal_count": atomic.LoadInt64(&e.marshals),
		"pool_reuse":    atomic.LoadInt64(&e.poolReuse),
	}
}

// Global encoder shared by the HTTP handlers.
var globalEncoder = NewReportEncoder()

// MarshalJSON marshals data using the shared encoder.
func MarshalJSON(v interface{}) ([]byte, error) {
	return globalEncoder.Marshal(v)
}

// UnmarshalJSON unmarshals data using the shared encoder.
func UnmarshalJSON(data []byte, v interface{}) error {
	return globalEncoder.Unmarshal(data, v)
}

// GetEncoderStats exposes the shared encoder's statistics.
func GetEncoderStats() map[string]interface{} {
	return globalEncoder.GetStats()
}
