package infra

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/fx"

	"github.com/xbg/ifood-admin/internal/app/appconfig"
	"github.com/xbg/ifood-admin/internal/pkg/bininfo"
	"github.com/xbg/ifood-admin/internal/pkg/starterr"
)

// Tracing builds the tracer provider and installs it globally on start. It returns nil
// when tracing is disabled, in which case otel keeps its no-op provider. Tracers obtained
// from otel before the provider is installed delegate to it afterwards.
func Tracing(conf *appconfig.Config, lc fx.Lifecycle, rel *Releaser) (*tracesdk.TracerProvider, error) {
	if !conf.TracingEnabled {
		return nil, nil
	}

	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(conf.TracingSampleRate))),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(bininfo.Name),
			semconv.ServiceVersionKey.String(bininfo.Version),
			attribute.Bool("dev_mode", conf.DevMode),
		)),
	}

	for _, name := range conf.TracingExporters {
		var (
			exporter tracesdk.SpanExporter
			err      error
		)
		switch name {
		case "stdout":
			exporter, err = stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		case "otlp":
			// the gRPC client connects lazily; configuration comes from OTEL_EXPORTER_OTLP_* variables
			exporter, err = otlptracegrpc.New(context.Background())
		default:
			err = fmt.Errorf("unknown tracing exporter %q", name)
		}
		if err != nil {
			return nil, starterr.Configuration("tracing", err)
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
	}

	tp := tracesdk.NewTracerProvider(opts...)
	shutdown := rel.Track("tracing", tp.Shutdown)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			otel.SetTracerProvider(tp)
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

			log.Info().Strs("exporters", conf.TracingExporters).Float64("sampleRate", conf.TracingSampleRate).Msg("infra: tracing: enabled")
			return nil
		},
		OnStop: shutdown,
	})

	return tp, nil
}
