package ai

import "context"

// Client is the outbound port to the hosted model API.
type Client interface {
	AnalyzeFit(ctx context.Context, resumeText, roles string) (string, error)
}
