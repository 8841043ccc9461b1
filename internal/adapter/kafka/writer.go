// Package kafka publishes extracted storm tracks to a Kafka topic for
// downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/config"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
)

// trackMessage is the published payload: the storm, its fixes, its summary,
// and when the extraction happened.
type trackMessage struct {
	Storm       domain.CatalogEntry   `json:"storm"`
	Track       domain.StormTrack     `json:"track"`
	Metrics     domain.DerivedMetrics `json:"metrics"`
	ExtractedAt time.Time             `json:"extracted_at"`
}

// Writer produces track messages to a Kafka topic.
// It implements pipeline.TrackPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured track topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishTrack serializes one extracted track and writes it to the topic.
func (w *Writer) PublishTrack(ctx context.Context, storm domain.CatalogEntry, track domain.StormTrack, metrics domain.DerivedMetrics) error {
	msg, err := serializeToMessage(storm, track, metrics, time.Now().UTC())
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one track into a Kafka message, keyed by
// basin and storm name so a storm's re-extractions land in one partition.
func serializeToMessage(storm domain.CatalogEntry, track domain.StormTrack, metrics domain.DerivedMetrics, extractedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(trackMessage{
		Storm:       storm,
		Track:       track,
		Metrics:     metrics,
		ExtractedAt: extractedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize track message: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(storm.BasinCode + "/" + storm.StormName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "storm_type", Value: []byte(metrics.StormType)},
			{Key: "track_points", Value: []byte(strconv.Itoa(metrics.TrackPoints))},
			{Key: "extracted_at", Value: []byte(extractedAt.Format(time.RFC3339))},
		},
	}, nil
}
