package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanLoadRegistrations = "registrations.load"
	SpanBuildTree         = "tree.build"
	SpanImport            = "registrations.import"
)

// Span attribute keys.
const (
	AttrShowID        = "show.id"
	AttrRegistrations = "registrations.count"
	AttrGrouping      = "tree.grouping"
	AttrLocale        = "tree.locale"
	AttrRoots         = "tree.roots"
	AttrCacheHit      = "cache.hit"
)

// Fail marks span as failed with err. A nil err leaves the span untouched.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
