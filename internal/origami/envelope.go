package origami

import "strings"

// RawRecord is one backend-native record: an identifier, two well-known
// dynamic field keys holding start/end strings, and arbitrary additional
// fields under a backend-defined schema.
type RawRecord map[string]any

// Envelope is the uniform response shape returned by the forwarder
// regardless of the underlying transport outcome. Success carries the
// parsed backend payload; failure carries error and details keys. Callers
// never branch on transport status, only on the error key.
type Envelope map[string]any

// ErrorEnvelope builds a classified failure envelope.
func ErrorEnvelope(kind, details string) Envelope {
	return Envelope{"error": kind, "details": details}
}

// ErrorKind returns the classification marker, or "" on success.
func (e Envelope) ErrorKind() string {
	return e.stringField("error")
}

// ErrorDetails returns the free-form details accompanying a failure.
func (e Envelope) ErrorDetails() string {
	return e.stringField("details")
}

// BackendMessage returns the backend's message field. Origami reports
// application-level errors as a bare message inside a 200 response.
func (e Envelope) BackendMessage() string {
	return e.stringField("message")
}

// Records extracts the record list from either of the two list keys the
// backend is known to use.
func (e Envelope) Records() []RawRecord {
	for _, key := range []string{"items", "data"} {
		list, ok := e[key].([]any)
		if !ok {
			continue
		}
		records := make([]RawRecord, 0, len(list))
		for _, item := range list {
			if record, ok := item.(map[string]any); ok {
				records = append(records, RawRecord(record))
			}
		}
		return records
	}
	return nil
}

// HasRecordList reports whether the payload carries either list key at
// all, regardless of its contents.
func (e Envelope) HasRecordList() bool {
	if _, ok := e["items"]; ok {
		return true
	}
	_, ok := e["data"]
	return ok
}

func (e Envelope) stringField(key string) string {
	value, ok := e[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
