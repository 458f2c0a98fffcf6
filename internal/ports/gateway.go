package ports

import (
	"context"

	"github.com/target/rfp-console/internal/apiclient"
)

// Gateway is the remote RFP API. *apiclient.Client is the production implementation.
type Gateway interface {
	// Do sends req and returns the decoded success envelope or an *apiclient.Error.
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}
