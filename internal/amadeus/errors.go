package amadeus

import "fmt"

// AuthError reports missing credentials or a failed token exchange.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("amadeus: authentication failed: %s", e.Detail)
}

// TransportError reports a network or timeout failure reaching the provider.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("amadeus: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NoDataError reports a provider response with no usable offers.
type NoDataError struct {
	Detail string
}

func (e *NoDataError) Error() string {
	if e.Detail == "" {
		return "amadeus: no flight offers found"
	}
	return fmt.Sprintf("amadeus: no flight offers found: %s", e.Detail)
}
