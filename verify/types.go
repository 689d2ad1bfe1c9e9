// Copyright 2026 OpenSSF Scorecard Authors
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

// Package verify is the pure, deterministic Sigstore attestation bundle
// verification pipeline. It performs no I/O and holds no state across
// calls; every invocation of Verify is an independent, side-effect-free
// computation over its arguments.
package verify

import "time"

// CertificateChain is an ordered triple: a leaf certificate and the
// intermediate/root certificates that should authenticate it.
type CertificateChain struct {
	LeafDER          []byte
	IntermediatesDER [][]byte
	RootDER          []byte
}

// Options configures the parts of verification that depend on caller
// expectations rather than on the bundle itself.
type Options struct {
	ExpectedDigest  []byte
	ExpectedIssuer  string
	ExpectedSubject string
}

// SubjectDigestAlgorithm tags the hash algorithm of a VerificationResult's
// subject digest.
type SubjectDigestAlgorithm uint8

const (
	// SubjectDigestUnknown is the zero value.
	SubjectDigestUnknown SubjectDigestAlgorithm = 0
	// SubjectDigestSHA256 marks a SHA-256 subject digest.
	SubjectDigestSHA256 SubjectDigestAlgorithm = 1
	// SubjectDigestSHA384 marks a SHA-384 subject digest.
	SubjectDigestSHA384 SubjectDigestAlgorithm = 2
)

// TimestampProofKind tags which mechanism produced a result's timestamp
// proof.
type TimestampProofKind uint8

const (
	// TimestampProofKindNone marks the zero value; never set on a
	// successfully verified result.
	TimestampProofKindNone TimestampProofKind = iota
	// TimestampProofKindRfc3161 marks a result backed by an RFC 3161 token.
	TimestampProofKindRfc3161
	// TimestampProofKindRekor marks a result backed by a Rekor transparency
	// log entry.
	TimestampProofKindRekor
)

// TimestampProof is the tagged variant describing how signing_time was
// established.
type TimestampProof struct {
	Kind TimestampProofKind

	// Set when Kind == TimestampProofKindRfc3161.
	TSAChainHashes          [][32]byte
	MessageImprintAlgorithm SubjectDigestAlgorithm
	MessageImprint          []byte

	// Set when Kind == TimestampProofKindRekor.
	LogID      [32]byte
	LogIndex   uint64
	EntryIndex uint64
}

// CertificateHashes holds the SHA-256 hashes of the exact DER bytes
// verified for the Fulcio chain.
type CertificateHashes struct {
	Leaf          [32]byte
	Intermediates [][32]byte
	Root          [32]byte
}

// OIDCIdentity is the optional OIDC identity record recovered from the
// leaf certificate.
type OIDCIdentity struct {
	Issuer      string
	Subject     string
	WorkflowRef string
	Repository  string
	EventName   string
}

// Result is the canonical verification outcome of a single bundle.
type Result struct {
	CertificateHashes      CertificateHashes
	SigningTime            time.Time
	SubjectDigest           []byte
	SubjectDigestAlgorithm SubjectDigestAlgorithm
	OIDCIdentity            *OIDCIdentity
	TimestampProof          TimestampProof
}
