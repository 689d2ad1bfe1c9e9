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
	"time"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/resultcodec"
)

// Encode serializes r into the canonical, bit-exact byte layout of §4.10.
func (r *Result) Encode() ([]byte, error) {
	proofType := resultcodec.TimestampProofNone
	var tsaHashes [][32]byte
	var imprintAlg uint8
	var imprint []byte
	var logID [32]byte
	var logIndex, entryIndex uint64

	switch r.TimestampProof.Kind {
	case TimestampProofKindRfc3161:
		proofType = resultcodec.TimestampProofRfc3161
		tsaHashes = r.TimestampProof.TSAChainHashes
		imprintAlg = uint8(r.TimestampProof.MessageImprintAlgorithm)
		imprint = r.TimestampProof.MessageImprint
	case TimestampProofKindRekor:
		proofType = resultcodec.TimestampProofRekor
		logID = r.TimestampProof.LogID
		logIndex = r.TimestampProof.LogIndex
		entryIndex = r.TimestampProof.EntryIndex
	}

	var oidc OIDCIdentity
	if r.OIDCIdentity != nil {
		oidc = *r.OIDCIdentity
	}

	return resultcodec.Encode(uint64(r.SigningTime.Unix()), proofType, resultcodec.Encoded{
		CertificateHashes:       allCertHashes(r.CertificateHashes),
		SubjectDigest:           r.SubjectDigest,
		SubjectDigestAlgorithm:  uint8(r.SubjectDigestAlgorithm),
		OidcIssuer:              oidc.Issuer,
		OidcSubject:             oidc.Subject,
		OidcWorkflowRef:         oidc.WorkflowRef,
		OidcRepository:          oidc.Repository,
		OidcEventName:           oidc.EventName,
		TsaChainHashes:          tsaHashes,
		MessageImprintAlgorithm: imprintAlg,
		MessageImprint:          imprint,
		RekorLogID:              logID,
		RekorLogIndex:           logIndex,
		RekorEntryIndex:         entryIndex,
	})
}

// Decode is the strict inverse of Encode.
func Decode(data []byte) (*Result, error) {
	signingTime, proofType, enc, err := resultcodec.Decode(data)
	if err != nil {
		return nil, err
	}

	r := &Result{
		SigningTime:            time.Unix(int64(signingTime), 0).UTC(),
		SubjectDigest:          enc.SubjectDigest,
		SubjectDigestAlgorithm: SubjectDigestAlgorithm(enc.SubjectDigestAlgorithm),
	}
	r.CertificateHashes.Leaf = enc.CertificateHashes[0]
	r.CertificateHashes.Root = enc.CertificateHashes[len(enc.CertificateHashes)-1]
	r.CertificateHashes.Intermediates = enc.CertificateHashes[1 : len(enc.CertificateHashes)-1]

	if enc.OidcIssuer != "" || enc.OidcSubject != "" || enc.OidcWorkflowRef != "" || enc.OidcRepository != "" || enc.OidcEventName != "" {
		r.OIDCIdentity = &OIDCIdentity{
			Issuer:      enc.OidcIssuer,
			Subject:     enc.OidcSubject,
			WorkflowRef: enc.OidcWorkflowRef,
			Repository:  enc.OidcRepository,
			EventName:   enc.OidcEventName,
		}
	}

	switch resultcodec.TimestampProofType(proofType) {
	case resultcodec.TimestampProofRfc3161:
		r.TimestampProof = TimestampProof{
			Kind:                    TimestampProofKindRfc3161,
			TSAChainHashes:          enc.TsaChainHashes,
			MessageImprintAlgorithm: SubjectDigestAlgorithm(enc.MessageImprintAlgorithm),
			MessageImprint:          enc.MessageImprint,
		}
	case resultcodec.TimestampProofRekor:
		r.TimestampProof = TimestampProof{
			Kind:       TimestampProofKindRekor,
			LogID:      enc.RekorLogID,
			LogIndex:   enc.RekorLogIndex,
			EntryIndex: enc.RekorEntryIndex,
		}
	}

	return r, nil
}

func allCertHashes(h CertificateHashes) [][32]byte {
	out := make([][32]byte, 0, 2+len(h.Intermediates))
	out = append(out, h.Leaf)
	out = append(out, h.Intermediates...)
	out = append(out, h.Root)
	return out
}
