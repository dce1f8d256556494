package vision

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// TransientError wraps a model invocation failure that persisted through
// every retry but would be worth retrying later: throttling, service
// hiccups, or model timeouts.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient model failure after retries: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// isTransient reports whether a Bedrock error is worth retrying. Anything
// else (validation failures, access denied, bad model id) fails fast.
func isTransient(err error) bool {
	var (
		throttled   *types.ThrottlingException
		unavailable *types.ServiceUnavailableException
		internal    *types.InternalServerException
		timedOut    *types.ModelTimeoutException
		notReady    *types.ModelNotReadyException
	)
	return errors.As(err, &throttled) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &internal) ||
		errors.As(err, &timedOut) ||
		errors.As(err, &notReady)
}
