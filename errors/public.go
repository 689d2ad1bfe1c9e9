// Copyright 2021 OpenSSF Scorecard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines the verifier's error taxonomy.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrBundleParse indicates the bundle JSON is malformed, carries the
	// wrong media type, or is missing a mandatory field.
	ErrBundleParse = errors.New("bundle parse error")
	// ErrCertificate indicates an X.509 parse failure, a chain-verification
	// failure, a validity-period violation, an unknown issuer, or a missing
	// TSA EKU.
	ErrCertificate = errors.New("certificate error")
	// ErrSignature indicates an unsupported algorithm, a malformed
	// signature, or a signature mismatch.
	ErrSignature = errors.New("signature error")
	// ErrTimestamp indicates no timestamp mechanism present, both present,
	// an RFC 3161 parse/signature failure, a message-imprint mismatch, an
	// unsupported hash, or a missing TSA chain.
	ErrTimestamp = errors.New("timestamp error")
	// ErrTransparency indicates no Rekor entry, malformed proof bytes, a
	// failed inclusion proof, or an invalid SET.
	ErrTransparency = errors.New("transparency log error")
	// ErrSubject indicates a zero subject digest or a digest mismatch
	// against the caller's expected_digest.
	ErrSubject = errors.New("subject error")
	// ErrIdentity indicates an OIDC issuer/subject mismatch or an expected
	// identity field absent from the certificate.
	ErrIdentity = errors.New("identity error")
)

// WithMessage wraps any of the errors listed above, attaching msg as
// additional context.
func WithMessage(e error, msg string) error {
	// Note: Errorf automatically wraps the error when used with `%w`.
	if len(msg) > 0 {
		return fmt.Errorf("%w: %v", e, msg)
	}
	// We still need to use %w to prevent callers from using e == ErrCertificate.
	return fmt.Errorf("%w", e)
}

// GetName returns the name of the top-level error category.
func GetName(err error) string {
	switch {
	case errors.Is(err, ErrBundleParse):
		return "ErrBundleParse"
	case errors.Is(err, ErrCertificate):
		return "ErrCertificate"
	case errors.Is(err, ErrSignature):
		return "ErrSignature"
	case errors.Is(err, ErrTimestamp):
		return "ErrTimestamp"
	case errors.Is(err, ErrTransparency):
		return "ErrTransparency"
	case errors.Is(err, ErrSubject):
		return "ErrSubject"
	case errors.Is(err, ErrIdentity):
		return "ErrIdentity"
	default:
		return "ErrUnknown"
	}
}
