package iot

import (
	"context"
	"encoding/json"
	"fmt"
	"plate_reader/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SQSSendAPI là phần của *sqs.Client mà publisher dùng
type SQSSendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher đẩy PlateEvent vào queue kết quả
type SQSPublisher struct {
	sqsClient SQSSendAPI
	queueURL  string
}

func NewSQSPublisher(client SQSSendAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{sqsClient: client, queueURL: queueURL}
}

func (p *SQSPublisher) Publish(ctx context.Context, event domain.PlateEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("SQSPublisher: marshal event: %w", err)
	}

	_, err = p.sqsClient.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.EventType)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SQSPublisher: send message: %w", err)
	}
	return nil
}
