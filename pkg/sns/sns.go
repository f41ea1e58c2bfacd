// Package sns delivers SMS messages through AWS SNS.
package sns

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

type Client struct {
	sns *awssns.Client
}

func New(ctx context.Context, region string) (*Client, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{sns: awssns.NewFromConfig(cfg)}, nil
}

// Send publishes one message directly to a phone number.
func (c *Client) Send(ctx context.Context, phoneNumber, body string) error {
	if !strings.HasPrefix(phoneNumber, "+") {
		return fmt.Errorf("invalid phone number: %s", phoneNumber)
	}

	_, err := c.sns.Publish(ctx, &awssns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", phoneNumber, err)
	}
	return nil
}
