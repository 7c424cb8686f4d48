package timeutil

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
// Log timestamps use this format so entries sort lexically.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"
