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
	"fmt"
)

type (
	// ErrBothTimestampMechanisms is returned when a bundle carries both an
	// RFC 3161 timestamp and a Rekor transparency-log entry.
	ErrBothTimestampMechanisms struct{ wrappedError }
	// ErrNoTimestamp is returned when a bundle carries neither timestamp
	// mechanism.
	ErrNoTimestamp struct{ wrappedError }
	// ErrSigningTimeOutsideValidity is returned when the selected signing
	// time falls outside the leaf certificate's validity period.
	ErrSigningTimeOutsideValidity struct {
		wrappedError
		NotBefore, NotAfter, SigningTime string
	}
	// ErrMessageImprintMismatch is returned when an RFC 3161 message
	// imprint does not match the hash of the DSSE signature bytes.
	ErrMessageImprintMismatch struct {
		wrappedError
		Expected, Actual string
	}
	// ErrSubjectDigestMismatch is returned when the in-toto subject digest
	// does not equal the caller's expected_digest.
	ErrSubjectDigestMismatch struct {
		wrappedError
		Expected, Actual string
	}
	// ErrZeroSubjectDigest is returned when the sha256 subject digest is
	// present but all-zero.
	ErrZeroSubjectDigest struct{ wrappedError }
	// ErrChainVerificationFailed is returned when a link in a certificate
	// chain fails signature verification.
	ErrChainVerificationFailed struct{ wrappedError }
	// ErrInclusionProofFailed is returned when a Rekor Merkle inclusion
	// proof does not recompute the claimed root hash.
	ErrInclusionProofFailed struct{ wrappedError }
	// ErrInvalidEntryHash is returned when the claimed log index or tree
	// size is out of range for a Merkle inclusion proof, before any
	// hash folding is attempted.
	ErrInvalidEntryHash struct{ wrappedError }
)

// MakeBothTimestampMechanismsError wraps ErrTimestamp as ErrBothTimestampMechanisms.
func MakeBothTimestampMechanismsError() error {
	return &ErrBothTimestampMechanisms{
		wrappedError{msg: "both RFC 3161 timestamp and Rekor entry present", innerError: ErrTimestamp},
	}
}

// MakeNoTimestampError wraps ErrTimestamp as ErrNoTimestamp.
func MakeNoTimestampError() error {
	return &ErrNoTimestamp{
		wrappedError{msg: "neither RFC 3161 timestamp nor Rekor entry present", innerError: ErrTimestamp},
	}
}

// MakeSigningTimeOutsideValidityError wraps ErrCertificate with the offending interval.
func MakeSigningTimeOutsideValidityError(signingTime, notBefore, notAfter string) error {
	return &ErrSigningTimeOutsideValidity{
		wrappedError: wrappedError{
			msg:        fmt.Sprintf("signing time %s outside validity [%s, %s]", signingTime, notBefore, notAfter),
			innerError: ErrCertificate,
		},
		NotBefore:   notBefore,
		NotAfter:    notAfter,
		SigningTime: signingTime,
	}
}

// MakeMessageImprintMismatchError wraps ErrTimestamp with expected/actual hex digests.
func MakeMessageImprintMismatchError(expected, actual string) error {
	return &ErrMessageImprintMismatch{
		wrappedError: wrappedError{
			msg:        fmt.Sprintf("message imprint mismatch: expected %s, got %s", expected, actual),
			innerError: ErrTimestamp,
		},
		Expected: expected,
		Actual:   actual,
	}
}

// MakeSubjectDigestMismatchError wraps ErrSubject with expected/actual hex digests.
func MakeSubjectDigestMismatchError(expected, actual string) error {
	return &ErrSubjectDigestMismatch{
		wrappedError: wrappedError{
			msg:        fmt.Sprintf("subject digest mismatch: expected %s, got %s", expected, actual),
			innerError: ErrSubject,
		},
		Expected: expected,
		Actual:   actual,
	}
}

// MakeZeroSubjectDigestError wraps ErrSubject.
func MakeZeroSubjectDigestError() error {
	return &ErrZeroSubjectDigest{
		wrappedError{msg: "subject sha256 digest is all zero", innerError: ErrSubject},
	}
}

// MakeChainVerificationFailedError wraps ErrCertificate with the failing link.
func MakeChainVerificationFailedError(detail string) error {
	return &ErrChainVerificationFailed{
		wrappedError{msg: fmt.Sprintf("chain verification failed: %s", detail), innerError: ErrCertificate},
	}
}

// MakeInclusionProofFailedError wraps ErrTransparency.
func MakeInclusionProofFailedError(detail string) error {
	return &ErrInclusionProofFailed{
		wrappedError{msg: fmt.Sprintf("inclusion proof failed: %s", detail), innerError: ErrTransparency},
	}
}

// MakeInvalidEntryHashError wraps ErrTransparency for a log index or tree
// size that is out of range for the claimed proof.
func MakeInvalidEntryHashError(detail string) error {
	return &ErrInvalidEntryHash{
		wrappedError{msg: fmt.Sprintf("invalid entry hash: %s", detail), innerError: ErrTransparency},
	}
}

type wrappedError struct {
	innerError error
	msg        string
}

func (err *wrappedError) Error() string {
	return fmt.Sprintf("%s: %v", err.msg, err.innerError)
}

func (err *wrappedError) Unwrap() error {
	return err.innerError
}
