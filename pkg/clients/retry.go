package clients

import (
	"time"

	"github.com/ajitpratap0/txt2metadata/pkg/errors"
)

// Outcome is the result of a single request attempt: either a response
// status code or a transport error.
type Outcome struct {
	StatusCode int
	Err        error
}

// RetryPolicy decides which attempt outcomes are retried, how long to wait
// between attempts and how many retries are allowed.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// Delay is the fixed wait between attempts
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
	// RetryOnStatus lists response status codes that trigger a retry
	RetryOnStatus []int `yaml:"retry_on_status" mapstructure:"retry_on_status"`
	// RetryOnTransportError retries attempts that produced no response
	RetryOnTransportError bool `yaml:"retry_on_transport_error" mapstructure:"retry_on_transport_error"`
}

// DefaultRetryPolicy retries transport failures and 404/502 responses
// six times with a fixed ten second delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:            6,
		Delay:                 10 * time.Second,
		RetryOnStatus:         []int{404, 502},
		RetryOnTransportError: true,
	}
}

// NoRetryPolicy returns a policy that never retries
func NoRetryPolicy() RetryPolicy {
	return RetryPolicy{}
}

// ShouldRetry reports whether the outcome matches the retry condition,
// ignoring the retry budget.
func (p RetryPolicy) ShouldRetry(o Outcome) bool {
	if o.Err != nil {
		return p.RetryOnTransportError && errors.IsRetryable(o.Err)
	}
	for _, code := range p.RetryOnStatus {
		if code == o.StatusCode {
			return true
		}
	}
	return false
}

// Decide returns the delay before the next attempt and whether another
// attempt should be made. attempts is the number of attempts made so far.
func (p RetryPolicy) Decide(attempts int, o Outcome) (time.Duration, bool) {
	if attempts > p.MaxRetries {
		return 0, false
	}
	if !p.ShouldRetry(o) {
		return 0, false
	}
	return p.Delay, true
}

// Clone creates a copy of the retry policy
func (p RetryPolicy) Clone() RetryPolicy {
	clone := p
	clone.RetryOnStatus = append([]int(nil), p.RetryOnStatus...)
	return clone
}

// WithMaxRetries returns a new policy with updated max retries
func (p RetryPolicy) WithMaxRetries(retries int) RetryPolicy {
	policy := p.Clone()
	policy.MaxRetries = retries
	return policy
}

// WithDelay returns a new policy with an updated delay
func (p RetryPolicy) WithDelay(delay time.Duration) RetryPolicy {
	policy := p.Clone()
	policy.Delay = delay
	return policy
}

// WithRetryOnStatus returns a new policy retrying the given status codes
func (p RetryPolicy) WithRetryOnStatus(codes ...int) RetryPolicy {
	policy := p.Clone()
	policy.RetryOnStatus = append([]int(nil), codes...)
	return policy
}
