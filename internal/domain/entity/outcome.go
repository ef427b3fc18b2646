package entity

// RequestOutcome is the uniform result of every authenticated outbound call.
// Transport failures are folded into a 500 outcome with an empty body; HTTP
// errors are carried in StatusCode rather than raised, so callers decide what
// a given status means for them.
type RequestOutcome struct {
	// Body is the parsed JSON document, an empty map when the response had no
	// parseable payload, or nil for a 204 No Content delete.
	Body       map[string]any
	StatusCode int
}

// Failed reports a client or server error status.
func (o *RequestOutcome) Failed() bool {
	return o.StatusCode >= 400
}
