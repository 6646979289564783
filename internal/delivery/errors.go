package delivery

import "fmt"

// DeliveryError reports a failed send. It never changes generation state:
// the submission stays reviewed and the caller decides whether to retry.
type DeliveryError struct {
	Destination string
	StatusCode  int
	Message     string
	Cause       error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("delivery to %s failed with status %d: %s", e.Destination, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("delivery to %s failed: %s: %v", e.Destination, e.Message, e.Cause)
	}
	return fmt.Sprintf("delivery to %s failed: %s", e.Destination, e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}
