package fetcher

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ProtocolError is a fatal upstream protocol violation: the call came back at
// the transport level but the response body could not be decoded. Never
// retried, in contrast to transient transport failures.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unparseable tagging API response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// FetchError reports an exhausted retry budget for one environment's fetch.
type FetchError struct {
	Region  string
	Retries int
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch in %s failed after %d retries: %v", e.Region, e.Retries, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// isRetryable separates transient transport failures from protocol
// violations. Anything the SDK could not (de)serialize is protocol.
func isRetryable(err error) bool {
	var deserialization *smithy.DeserializationError
	if errors.As(err, &deserialization) {
		return false
	}
	var serialization *smithy.SerializationError
	return !errors.As(err, &serialization)
}
