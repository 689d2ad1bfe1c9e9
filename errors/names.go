// Copyright 2020 Security Scorecard Authors
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

package errors

import (
	"errors"
)

const (
	// BothTimestampMechanismsError occurs when a bundle carries both RFC
	// 3161 and Rekor timestamp evidence.
	BothTimestampMechanismsError = "BothTimestampMechanismsError"
	// NoTimestampError occurs when a bundle carries neither.
	NoTimestampError = "NoTimestampError"
	// SigningTimeOutsideValidityError occurs when signing time falls
	// outside the leaf certificate's validity window.
	SigningTimeOutsideValidityError = "SigningTimeOutsideValidityError"
	// MessageImprintMismatchError occurs when an RFC 3161 message imprint
	// does not match the hashed DSSE signature.
	MessageImprintMismatchError = "MessageImprintMismatchError"
	// SubjectDigestMismatchError occurs when the subject digest does not
	// match the caller's expected value.
	SubjectDigestMismatchError = "SubjectDigestMismatchError"
	// ZeroSubjectDigestError occurs when the subject sha256 digest is
	// all-zero.
	ZeroSubjectDigestError = "ZeroSubjectDigestError"
	// ChainVerificationFailedError occurs when a certificate chain link
	// fails to verify.
	ChainVerificationFailedError = "ChainVerificationFailedError"
	// InclusionProofFailedError occurs when a Rekor inclusion proof fails
	// to recompute the claimed root hash.
	InclusionProofFailedError = "InclusionProofFailedError"
	// InvalidEntryHashError occurs when a log index or tree size is out
	// of range for the claimed Merkle inclusion proof.
	InvalidEntryHashError = "InvalidEntryHashError"
	// UnknownError for all error types not handled.
	UnknownError = "UnknownError"
)

var (
	errBothTimestampMechanisms    *ErrBothTimestampMechanisms
	errNoTimestamp                *ErrNoTimestamp
	errSigningTimeOutsideValidity *ErrSigningTimeOutsideValidity
	errMessageImprintMismatch     *ErrMessageImprintMismatch
	errSubjectDigestMismatch      *ErrSubjectDigestMismatch
	errZeroSubjectDigest          *ErrZeroSubjectDigest
	errChainVerificationFailed    *ErrChainVerificationFailed
	errInclusionProofFailed       *ErrInclusionProofFailed
	errInvalidEntryHash           *ErrInvalidEntryHash
)

// GetErrorName returns the name of the most specific known error type.
func GetErrorName(err error) string {
	switch {
	case errors.As(err, &errBothTimestampMechanisms):
		return BothTimestampMechanismsError
	case errors.As(err, &errNoTimestamp):
		return NoTimestampError
	case errors.As(err, &errSigningTimeOutsideValidity):
		return SigningTimeOutsideValidityError
	case errors.As(err, &errMessageImprintMismatch):
		return MessageImprintMismatchError
	case errors.As(err, &errSubjectDigestMismatch):
		return SubjectDigestMismatchError
	case errors.As(err, &errZeroSubjectDigest):
		return ZeroSubjectDigestError
	case errors.As(err, &errChainVerificationFailed):
		return ChainVerificationFailedError
	case errors.As(err, &errInclusionProofFailed):
		return InclusionProofFailedError
	case errors.As(err, &errInvalidEntryHash):
		return InvalidEntryHashError
	default:
		return UnknownError
	}
}
