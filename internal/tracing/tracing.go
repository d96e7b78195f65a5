// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing wraps the otel tracer used to span the agent's solve
// and plan calls, so a recursive solve tree shows up as one trace with
// nested spans instead of disjoint log lines.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kadirpekel/axiom"

// InitStdout installs a stdout-exporting TracerProvider as the global
// otel provider, so StartSpan's spans are actually emitted instead of
// discarded by the default no-op provider. Returns a shutdown func to
// flush and release the exporter; callers that don't want tracing
// output can simply never call InitStdout, since Tracer() degrades to
// a no-op tracer without it.
func InitStdout(ctx context.Context) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// Tracer returns the package-wide tracer. Without a configured SDK
// provider, otel.Tracer returns a no-op tracer, so callers never need to
// branch on whether tracing is enabled.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span named name under ctx, tagged with depth and any
// extra key/value attribute pairs (must be even length, string/string).
func StartSpan(ctx context.Context, name string, depth int, kv ...string) (context.Context, trace.Span) {
	attrs := make([]attribute.KeyValue, 0, 1+len(kv)/2)
	attrs = append(attrs, attribute.Int("depth", depth))
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
