// Package metrics rebuilds the hub's prometheus/otel counters in the same
// idiom as engine/world.go's metrics.InitPrometheus() / metrics.Init() /
// StartMetricsUpdater(engine) calls — that package's body wasn't part of the
// retrieval pack, so it is reconstructed here, scoped to this hub's own
// counters: frames in/out per service, scheduler ticks, AIS messages
// emitted, and message-bus subscriber count.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func sourceAttr(sourceID string) attribute.KeyValue {
	return attribute.String("source_id", sourceID)
}

func outputAttr(outputID string) attribute.KeyValue {
	return attribute.String("output_id", outputID)
}

var (
	meterProvider *sdkmetric.MeterProvider

	framesIn           metric.Int64Counter
	framesOut          metric.Int64Counter
	simTicks           metric.Int64Counter
	aisMessagesEmitted metric.Int64Counter
	busSubscribers     metric.Int64UpDownCounter
)

// InitPrometheus wires an OTel Prometheus exporter into a fresh
// MeterProvider and returns the HTTP handler for a "/metrics" scrape
// endpoint, mirroring engine/world.go's mux.Handle("/metrics", promHandler).
func InitPrometheus() (http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("metrics: new prometheus exporter: %w", err)
	}
	meterProvider = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return promhttp.Handler(), nil
}

// Init registers this hub's instruments against the MeterProvider set up by
// InitPrometheus. Call order mirrors engine/world.go: InitPrometheus() then
// Init().
func Init() error {
	meter := meterProvider.Meter("github.com/tangaroa/navhub")

	var err error
	framesIn, err = meter.Int64Counter("navhub_frames_in_total",
		metric.WithDescription("sentences ingested per source"))
	if err != nil {
		return fmt.Errorf("metrics: frames_in counter: %w", err)
	}
	framesOut, err = meter.Int64Counter("navhub_frames_out_total",
		metric.WithDescription("sentences broadcast per output"))
	if err != nil {
		return fmt.Errorf("metrics: frames_out counter: %w", err)
	}
	simTicks, err = meter.Int64Counter("navhub_simulator_ticks_total",
		metric.WithDescription("scheduler ticks that advanced the simulator chain"))
	if err != nil {
		return fmt.Errorf("metrics: sim_ticks counter: %w", err)
	}
	aisMessagesEmitted, err = meter.Int64Counter("navhub_ais_messages_emitted_total",
		metric.WithDescription("AIVDM messages emitted by the simulator's AIS stage"))
	if err != nil {
		return fmt.Errorf("metrics: ais_messages counter: %w", err)
	}
	busSubscribers, err = meter.Int64UpDownCounter("navhub_bus_subscribers",
		metric.WithDescription("current message bus subscriber count"))
	if err != nil {
		return fmt.Errorf("metrics: bus_subscribers counter: %w", err)
	}
	return nil
}

// IncFramesIn records one sentence ingested from sourceID.
func IncFramesIn(sourceID string) {
	if framesIn == nil {
		return
	}
	framesIn.Add(context.Background(), 1, metric.WithAttributes(sourceAttr(sourceID)))
}

// IncFramesOut records one sentence broadcast to outputID.
func IncFramesOut(outputID string) {
	if framesOut == nil {
		return
	}
	framesOut.Add(context.Background(), 1, metric.WithAttributes(outputAttr(outputID)))
}

// IncSimTick records one scheduler tick that advanced the simulator chain.
func IncSimTick() {
	if simTicks == nil {
		return
	}
	simTicks.Add(context.Background(), 1)
}

// IncAISMessage records one AIVDM message emitted by the simulator's AIS stage.
func IncAISMessage() {
	if aisMessagesEmitted == nil {
		return
	}
	aisMessagesEmitted.Add(context.Background(), 1)
}

// SetBusSubscribers records a delta against the current subscriber count
// gauge; callers pass the signed change (+1 on subscribe, -1 on unsubscribe).
func SetBusSubscribers(delta int64) {
	if busSubscribers == nil {
		return
	}
	busSubscribers.Add(context.Background(), delta)
}
