package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher fans committed mutations out through an AWS SNS topic. The
// topic name travels as a message attribute so subscribers can filter.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

// NewSNSPublisher builds a publisher against the given topic ARN.
func NewSNSPublisher(ctx context.Context, region, topicARN string) (*SNSPublisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("feed: load aws config: %w", err)
	}
	return &SNSPublisher{client: sns.NewFromConfig(awsCfg), topicARN: topicARN}, nil
}

func (p *SNSPublisher) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("feed: marshal payload: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"topic": {
				DataType:    aws.String("String"),
				StringValue: aws.String(topic),
			},
		},
	})
	return err
}

var _ Publisher = (*SNSPublisher)(nil)
