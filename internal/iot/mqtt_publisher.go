package iot

import (
	"context"
	"encoding/json"
	"fmt"
	"plate_reader/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

// IoTPublishAPI là phần của *iotdataplane.Client mà publisher dùng
type IoTPublishAPI interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// MQTTPublisher publish PlateEvent lên AWS IoT Core qua IoT Data Plane.
type MQTTPublisher struct {
	iotDataClient IoTPublishAPI
	topic         string
}

func NewMQTTPublisher(client IoTPublishAPI, topic string) *MQTTPublisher {
	return &MQTTPublisher{iotDataClient: client, topic: topic}
}

func (p *MQTTPublisher) Publish(ctx context.Context, event domain.PlateEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("MQTTPublisher: marshal event: %w", err)
	}

	_, err = p.iotDataClient.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(p.topic),
		Qos:     1,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("MQTTPublisher: publish to %s: %w", p.topic, err)
	}
	return nil
}
