// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package envelope

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/AccelByte/hackathon-teambot/pkg/utils"
)

const (
	traceIDLogField = "traceID"
	tracerName      = "teambot"

	RunIDTag       = "teambot.formation.run_id"
	TeamsFormedTag = "teambot.formation.teams_formed"
	BucketTag      = "teambot.formation.bucket"
)

// NewRootScope starts a root span. traceID is reused when it looks like one
// (an interaction id, a request id), otherwise a fresh id is generated.
func NewRootScope(rootCtx context.Context, name string, traceID string) *Scope {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(rootCtx, name)

	if traceID == "" {
		traceID = span.SpanContext().TraceID().String()
	}
	if traceID == "" || traceID == (oteltrace.TraceID{}).String() {
		traceID = utils.GenerateUUID()
	}

	return &Scope{
		Ctx:     ctx,
		TraceID: traceID,
		span:    span,
		Log:     logrus.WithField(traceIDLogField, traceID),
	}
}

// Scope carries the context, span and logger of one operation down the call chain.
type Scope struct {
	Ctx     context.Context
	TraceID string
	span    oteltrace.Span
	Log     *logrus.Entry
}

// Finish ends the span of the scope.
func (s *Scope) Finish() {
	s.span.End()
}

// NewChildScope creates new child Scope.
func (s *Scope) NewChildScope(name string) *Scope {
	tracer := s.span.TracerProvider().Tracer(tracerName)
	ctx, span := tracer.Start(s.Ctx, name)

	return &Scope{
		Ctx:     ctx,
		TraceID: s.TraceID,
		span:    span,
		Log:     s.Log,
	}
}

// NewDetachedChildScope creates a child Scope whose context keeps the values
// and span of s but is never cancelled along with it.
func (s *Scope) NewDetachedChildScope(name string) *Scope {
	child := s.NewChildScope(name)
	child.Ctx = context.WithoutCancel(child.Ctx)
	return child
}

// SetAttributes records value on the span using the matching attribute kind.
func (s *Scope) SetAttributes(key string, value interface{}) {
	switch v := value.(type) {
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	case []int:
		s.span.SetAttributes(attribute.IntSlice(key, v))
	case time.Duration:
		s.span.SetAttributes(attribute.Int64(key, v.Milliseconds()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// RecordError marks the span as failed.
func (s *Scope) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}
