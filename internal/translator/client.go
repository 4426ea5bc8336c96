package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// TranslateAPI is the subset of the Amazon Translate client used here.
type TranslateAPI interface {
	TranslateText(ctx context.Context, in *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// Client translates free text through Amazon Translate.
type Client struct {
	api      TranslateAPI
	maxBytes int
}

// Option configures a Client.
type Option func(*Client)

// WithMaxBytes overrides the per-request text size limit.
func WithMaxBytes(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// NewClient creates a Client.
func NewClient(api TranslateAPI, opts ...Option) *Client {
	c := &Client{api: api, maxBytes: MaxTextBytes}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate translates text from source to target language codes. Text
// over the provider limit is sent in pieces, in order, and rejoined.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" || source == target {
		return text, nil
	}
	if !IsSupportedCode(source) || !IsSupportedCode(target) {
		return "", fmt.Errorf("unsupported language pair: %s-%s", source, target)
	}

	pieces := SplitText(text, c.maxBytes)
	out := make([]string, 0, len(pieces))
	for i, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		res, err := c.api.TranslateText(ctx, &translate.TranslateTextInput{
			Text:               aws.String(piece),
			SourceLanguageCode: aws.String(source),
			TargetLanguageCode: aws.String(target),
		})
		if err != nil {
			return "", fmt.Errorf("translate piece %d of %d (%s-%s): %w", i+1, len(pieces), source, target, err)
		}
		out = append(out, strings.TrimSpace(aws.ToString(res.TranslatedText)))
	}
	return strings.Join(out, " "), nil
}
