package tracing

import "errors"

// ErrExporter reports a span exporter that could not be created.
var ErrExporter = errors.New("trace exporter")
