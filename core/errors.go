// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error taxonomy sentinels. Callers classify failures with errors.Is.
var (
	// ErrValidation indicates bad input (empty, oversized, unsupported
	// format). Validation failures are rejected before any network call.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown conversation or document id.
	ErrNotFound = errors.New("not found")

	// ErrNotConfigured indicates a missing API key or unconfigured provider.
	// Fatal at construction time, never retried.
	ErrNotConfigured = errors.New("not configured")
)

// ValidationError builds a validation failure that matches ErrValidation.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// ConfigurationError builds a construction-time configuration failure that
// matches ErrNotConfigured. Use it for missing keys, models or endpoints,
// as opposed to invalid request input.
func ConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, fmt.Sprintf(format, args...))
}

// ProviderError wraps a failed or timed-out call to an external provider
// (embedding, LLM, or vector index). It names the provider and preserves
// the original cause so callers can decide whether to retry.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
	Timeout  bool
}

func (e *ProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: %s timed out: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a provider failure. Deadline and network
// timeouts are flagged so retry policy can treat them differently.
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err, Timeout: isTimeout(err)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsProviderError reports whether err is a ProviderError and returns it.
func IsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
