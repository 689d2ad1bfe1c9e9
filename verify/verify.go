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

package verify

import (
	"bytes"
	"encoding/hex"
	"time"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/bundle"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/chainverify"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/dsse"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/identity"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/merkle"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/rfc3161parse"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/tsaverify"
)

// Verify runs the full seven-step verification pipeline against
// bundleBytes, returning the canonical Result on success. The first
// failure aborts the pipeline; there are no retries and no partial
// results.
func Verify(bundleBytes []byte, opts Options, fulcio CertificateChain, tsa *CertificateChain) (*Result, error) {
	// Step 1: parse bundle, parse DSSE payload, verify subject digest.
	b, err := bundle.Parse(bundleBytes)
	if err != nil {
		return nil, err
	}
	statement, err := bundle.ParseStatement(b.Envelope.Payload)
	if err != nil {
		return nil, err
	}
	subjectDigest, err := verifySubjectDigest(statement, opts.ExpectedDigest)
	if err != nil {
		return nil, err
	}

	// Step 2: timestamp mechanism selection (mutual exclusion).
	hasRfc3161 := len(b.Rfc3161Timestamps) > 0
	hasTlog := len(b.TlogEntries) > 0
	if hasRfc3161 && hasTlog {
		return nil, scverrors.MakeBothTimestampMechanismsError()
	}
	if !hasRfc3161 && !hasTlog {
		return nil, scverrors.MakeNoTimestampError()
	}

	var preToken *rfc3161parse.Token
	var signingTime time.Time
	if hasRfc3161 {
		preToken, err = rfc3161parse.Parse(b.Rfc3161Timestamps[0])
		if err != nil {
			return nil, err
		}
		// The embedded chain (if usable) only ever supplies the leaf and
		// intermediates; selectTSAChain always trusts callerTSA.RootDER as
		// the root, so a caller-supplied chain is required regardless of
		// whether the token embeds a usable TSA leaf.
		if tsa == nil {
			return nil, scverrors.WithMessage(scverrors.ErrTimestamp, "rfc3161 present but no caller-supplied TSA chain")
		}
		signingTime = preToken.GenTime
	} else {
		signingTime = time.Unix(b.TlogEntries[0].IntegratedTime, 0).UTC()
	}

	// Step 3: verify the Fulcio chain.
	chain, err := chainverify.VerifyFulcioChain(b.LeafCertDER, fulcio.IntermediatesDER, fulcio.RootDER)
	if err != nil {
		return nil, err
	}

	// Step 4: signing time must fall within the leaf's validity period.
	if signingTime.Before(chain.Leaf.NotBefore) || signingTime.After(chain.Leaf.NotAfter) {
		return nil, scverrors.MakeSigningTimeOutsideValidityError(
			signingTime.Format(time.RFC3339),
			chain.Leaf.NotBefore.Format(time.RFC3339),
			chain.Leaf.NotAfter.Format(time.RFC3339),
		)
	}

	// Step 5: verify the DSSE signature (only signatures[0] is checked).
	if len(b.Envelope.Signatures) == 0 {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "dsse envelope has no signatures")
	}
	dsseSig := b.Envelope.Signatures[0]
	if err := dsse.VerifySignature(chain.Leaf, b.Envelope.PayloadType, b.Envelope.Payload, dsseSig); err != nil {
		return nil, err
	}

	// Step 6: RFC 3161 token verify xor Rekor transparency log verify.
	timestampProof, err := verifyTimestampMechanism(b, hasRfc3161, dsseSig, tsa)
	if err != nil {
		return nil, err
	}

	// Step 7: extract and, if requested, match OIDC identity.
	id := identity.Extract(chain.Leaf)
	oidcResult := &OIDCIdentity{
		Issuer:      id.Issuer,
		Subject:     id.Subject,
		WorkflowRef: id.WorkflowRef,
		Repository:  id.Repository,
		EventName:   id.EventName,
	}
	if opts.ExpectedIssuer != "" {
		if id.Issuer == "" || id.Issuer != opts.ExpectedIssuer {
			return nil, scverrors.WithMessage(scverrors.ErrIdentity, "oidc issuer mismatch")
		}
	}
	if opts.ExpectedSubject != "" {
		if id.Subject == "" || id.Subject != opts.ExpectedSubject {
			return nil, scverrors.WithMessage(scverrors.ErrIdentity, "oidc subject mismatch")
		}
	}

	// Step 8: emit the canonical result.
	return &Result{
		CertificateHashes: CertificateHashes{
			Leaf:          chain.LeafHash,
			Intermediates: chain.IntermediateHashes,
			Root:          chain.RootHash,
		},
		SigningTime:            signingTime,
		SubjectDigest:           subjectDigest,
		SubjectDigestAlgorithm: SubjectDigestSHA256,
		OIDCIdentity:           oidcResult,
		TimestampProof:         timestampProof,
	}, nil
}

func verifySubjectDigest(st *bundle.Statement, expected []byte) ([]byte, error) {
	var digestHex string
	for _, subj := range st.Subject {
		if d, ok := subj.Digest["sha256"]; ok {
			digestHex = d
			break
		}
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrSubject, "invalid subject sha256 digest encoding")
	}
	if allZero(digest) {
		return nil, scverrors.MakeZeroSubjectDigestError()
	}
	if len(expected) > 0 && !bytes.Equal(expected, digest) {
		return nil, scverrors.MakeSubjectDigestMismatchError(hex.EncodeToString(expected), digestHex)
	}
	return digest, nil
}

func allZero(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func verifyTimestampMechanism(b *bundle.Bundle, hasRfc3161 bool, dsseSig []byte, tsa *CertificateChain) (TimestampProof, error) {
	if hasRfc3161 {
		var callerChain *tsaverify.CertificateChain
		if tsa != nil {
			callerChain = &tsaverify.CertificateChain{
				LeafDER:          tsa.LeafDER,
				IntermediatesDER: tsa.IntermediatesDER,
				RootDER:          tsa.RootDER,
			}
		}
		res, err := tsaverify.VerifyToken(b.Rfc3161Timestamps[0], dsseSig, callerChain)
		if err != nil {
			return TimestampProof{}, err
		}
		return TimestampProof{
			Kind:                    TimestampProofKindRfc3161,
			TSAChainHashes:          res.TSAChainHashes,
			MessageImprintAlgorithm: hashAlgTag(res.ImprintAlg),
			MessageImprint:          res.MessageImprint,
		}, nil
	}

	entry := b.TlogEntries[0]
	if entry.InclusionProof == nil {
		return TimestampProof{}, scverrors.WithMessage(scverrors.ErrTransparency, "no rekor entry inclusion proof")
	}
	if err := merkle.VerifyInclusion(entry.CanonicalizedBody, entry.InclusionProof.LogIndex, entry.InclusionProof.TreeSize, entry.InclusionProof.Hashes, entry.InclusionProof.RootHash); err != nil {
		return TimestampProof{}, err
	}

	var logID [32]byte
	copy(logID[:], entry.LogID)
	return TimestampProof{
		Kind:       TimestampProofKindRekor,
		LogID:      logID,
		LogIndex:   uint64(entry.InclusionProof.LogIndex),
		EntryIndex: uint64(entry.LogIndex),
	}, nil
}

func hashAlgTag(h interface{ Size() int }) SubjectDigestAlgorithm {
	if h.Size() == 48 {
		return SubjectDigestSHA384
	}
	return SubjectDigestSHA256
}
