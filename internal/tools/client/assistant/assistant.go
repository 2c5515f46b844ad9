package assistant

import (
	"context"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/client"
	"github.com/rs/zerolog"
)

const destination = "assistant-api"

type Client struct {
	client *client.Client
}

func NewClient(logger *zerolog.Logger, optionFuncs ...client.OptionFunc) (*Client, error) {
	c, err := client.New(logger, destination, optionFuncs...)
	if err != nil {
		return nil, err
	}

	return &Client{client: c}, nil
}

// Converse sends the user message with the transcript so far and returns the
// reply together with the structured intent, if the assistant emitted one.
func (c *Client) Converse(ctx context.Context, request schema.AssistantRequest) (schema.AssistantReply, error) {
	var reply schema.AssistantReply
	err := c.client.Post(ctx, "/conversations", request, &reply)
	return reply, err
}
