// Package ingest feeds telemetry from the MQTT broker into the telemetry
// store, sharing the ingestion path with the HTTP endpoint.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bezrodnovart03/BnovAuto/internal/fleet"
	"github.com/bezrodnovart03/BnovAuto/internal/metrics"
	"github.com/bezrodnovart03/BnovAuto/internal/models"
)

// Message is the telemetry payload published by vehicle devices. Any
// timestamp a device sends is ignored; the server assigns its own.
type Message struct {
	VehicleID         string   `json:"vehicle_id"`
	Lat               float64  `json:"lat"`
	Lng               float64  `json:"lng"`
	Speed             *float64 `json:"speed,omitempty"`
	FuelLevel         *float64 `json:"fuel_level,omitempty"`
	EngineTemperature *float64 `json:"engine_temperature,omitempty"`
	EngineRPM         *int     `json:"engine_rpm,omitempty"`
	BatteryVoltage    *float64 `json:"battery_voltage,omitempty"`
	ErrorCode         string   `json:"error_code,omitempty"`
}

// Measurements converts the wire payload to the stored measurement set.
func (m Message) Measurements() models.Measurements {
	return models.Measurements{
		Speed:             m.Speed,
		FuelLevel:         m.FuelLevel,
		EngineTemperature: m.EngineTemperature,
		EngineRPM:         m.EngineRPM,
		BatteryVoltage:    m.BatteryVoltage,
		ErrorCode:         m.ErrorCode,
	}
}

// MQTTIngestor subscribes to the telemetry topic and records each message.
type MQTTIngestor struct {
	broker    string
	topic     string
	telemetry *fleet.TelemetryService
	metrics   *metrics.Metrics
}

// NewMQTTIngestor creates an ingestor for the given broker and topic.
func NewMQTTIngestor(broker, topic string, telemetry *fleet.TelemetryService, m *metrics.Metrics) *MQTTIngestor {
	return &MQTTIngestor{broker: broker, topic: topic, telemetry: telemetry, metrics: m}
}

// Run connects, subscribes, and blocks until the context is cancelled.
func (i *MQTTIngestor) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(i.broker).
		SetClientID("bnovauto-ingest-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	defer client.Disconnect(250)

	if token := client.Subscribe(i.topic, 1, i.handleMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", i.topic, token.Error())
	}
	log.WithFields(log.Fields{"broker": i.broker, "topic": i.topic}).Info("MQTT ingestor running")

	<-ctx.Done()
	return nil
}

func (i *MQTTIngestor) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload Message
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("dropping malformed telemetry message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := i.telemetry.Record(ctx, payload.VehicleID, payload.Lat, payload.Lng, payload.Measurements())
	if err != nil {
		log.WithError(err).WithField("vehicle_id", payload.VehicleID).Warn("failed to record telemetry")
		return
	}
	i.metrics.TelemetryIngested.WithLabelValues("mqtt").Inc()
}
