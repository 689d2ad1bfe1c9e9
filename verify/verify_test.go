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
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transparency-dev/merkle/rfc6962"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/dsse"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/testutil"
)

type wireSignature struct {
	Sig string `json:"sig"`
}

type wireDSSEEnvelope struct {
	Payload     string          `json:"payload"`
	PayloadType string          `json:"payloadType"`
	Signatures  []wireSignature `json:"signatures"`
}

type wireInclusionProof struct {
	LogIndex string   `json:"logIndex"`
	RootHash string   `json:"rootHash"`
	TreeSize string   `json:"treeSize"`
	Hashes   []string `json:"hashes"`
}

type wireLogID struct {
	KeyID string `json:"keyId"`
}

type wireTlogEntry struct {
	LogIndex          string              `json:"logIndex"`
	LogID             wireLogID           `json:"logId"`
	IntegratedTime    string              `json:"integratedTime"`
	CanonicalizedBody string              `json:"canonicalizedBody"`
	InclusionProof    *wireInclusionProof `json:"inclusionProof,omitempty"`
}

type wireCert struct {
	RawBytes string `json:"rawBytes"`
}

type wireVerificationMaterial struct {
	Certificate wireCert        `json:"certificate"`
	TlogEntries []wireTlogEntry `json:"tlogEntries,omitempty"`
}

type wireBundle struct {
	MediaType            string                   `json:"mediaType"`
	VerificationMaterial wireVerificationMaterial `json:"verificationMaterial"`
	DsseEnvelope         wireDSSEEnvelope         `json:"dsseEnvelope"`
}

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

type rekorTestBundle struct {
	bundleJSON  []byte
	fulcio      CertificateChain
	signingTime time.Time
}

func buildRekorBackedBundle(t *testing.T, digestHex string, extensions []pkix.Extension, subjectEmail string) rekorTestBundle {
	t.Helper()

	now := time.Now().Truncate(time.Second)
	chain, err := testutil.GenerateFulcioLikeChain(now.Add(-time.Hour), now.Add(time.Hour), extensions, subjectEmail)
	require.NoError(t, err)

	payloadType := "application/vnd.in-toto+json"
	statement := map[string]any{
		"_type":         "https://in-toto.io/Statement/v1",
		"predicateType": "https://slsa.dev/provenance/v1",
		"subject": []map[string]any{
			{"name": "pkg:example/artifact", "digest": map[string]string{"sha256": digestHex}},
		},
	}
	payload, err := json.Marshal(statement)
	require.NoError(t, err)

	pae := dsse.BuildPAE(payloadType, payload)
	digest := sha256.Sum256(pae)
	sig, err := ecdsa.SignASN1(rand.Reader, chain.LeafKey, digest[:])
	require.NoError(t, err)

	canonicalizedBody := []byte(`{"kind":"hashedrekord","apiVersion":"0.0.1"}`)
	rootHash := rfc6962.DefaultHasher.HashLeaf(canonicalizedBody)

	w := wireBundle{
		MediaType: "application/vnd.dev.sigstore.bundle+json;version=0.3",
		VerificationMaterial: wireVerificationMaterial{
			Certificate: wireCert{RawBytes: b64(chain.LeafDER)},
			TlogEntries: []wireTlogEntry{{
				LogIndex:          "10",
				IntegratedTime:    "", // set below
				CanonicalizedBody: b64(canonicalizedBody),
				InclusionProof: &wireInclusionProof{
					LogIndex: "0",
					RootHash: b64(rootHash),
					TreeSize: "1",
					Hashes:   nil,
				},
			}},
		},
		DsseEnvelope: wireDSSEEnvelope{
			Payload:     b64(payload),
			PayloadType: payloadType,
			Signatures:  []wireSignature{{Sig: b64(sig)}},
		},
	}
	w.VerificationMaterial.TlogEntries[0].LogID.KeyID = b64([]byte("rekor-log-id"))
	w.VerificationMaterial.TlogEntries[0].IntegratedTime = strconv.FormatInt(now.Unix(), 10)

	bundleJSON, err := json.Marshal(w)
	require.NoError(t, err)

	return rekorTestBundle{
		bundleJSON: bundleJSON,
		fulcio: CertificateChain{
			IntermediatesDER: [][]byte{chain.IntermediateDER},
			RootDER:          chain.RootDER,
		},
		signingTime: now,
	}
}

var validDigestHex = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestVerifyEndToEndRekorPath(t *testing.T) {
	tb := buildRekorBackedBundle(t, validDigestHex, nil, "signer@example.com")

	result, err := Verify(tb.bundleJSON, Options{}, tb.fulcio, nil)
	require.NoError(t, err)

	assert.Equal(t, TimestampProofKindRekor, result.TimestampProof.Kind)
	assert.Equal(t, tb.signingTime.UTC(), result.SigningTime.UTC())
	assert.Equal(t, "signer@example.com", result.OIDCIdentity.Subject)

	encoded, err := result.Encode()
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, result.SubjectDigest, decoded.SubjectDigest)
	assert.Equal(t, result.CertificateHashes, decoded.CertificateHashes)
	assert.Equal(t, result.TimestampProof.Kind, decoded.TimestampProof.Kind)
}

func TestVerifyRejectsDigestMismatch(t *testing.T) {
	tb := buildRekorBackedBundle(t, validDigestHex, nil, "signer@example.com")

	otherDigest := make([]byte, 32)
	otherDigest[0] = 0x01
	_, err := Verify(tb.bundleJSON, Options{ExpectedDigest: otherDigest}, tb.fulcio, nil)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongFulcioRoot(t *testing.T) {
	tb := buildRekorBackedBundle(t, validDigestHex, nil, "signer@example.com")

	unrelated, err := testutil.GenerateFulcioLikeChain(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), nil, "other@example.com")
	require.NoError(t, err)

	badFulcio := CertificateChain{
		IntermediatesDER: [][]byte{unrelated.IntermediateDER},
		RootDER:          unrelated.RootDER,
	}
	_, err = Verify(tb.bundleJSON, Options{}, badFulcio, nil)
	assert.Error(t, err)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	tb := buildRekorBackedBundle(t, validDigestHex, nil, "signer@example.com")

	_, err := Verify(tb.bundleJSON, Options{ExpectedIssuer: "https://unexpected.example.com"}, tb.fulcio, nil)
	assert.Error(t, err)
}

func TestVerifyRejectsBothTimestampMechanisms(t *testing.T) {
	tb := buildRekorBackedBundle(t, validDigestHex, nil, "signer@example.com")

	// Append rfc3161Timestamps alongside the existing tlogEntries by
	// re-marshaling the raw JSON with an extra key.
	raw := map[string]any{}
	require.NoError(t, json.Unmarshal(tb.bundleJSON, &raw))
	vm := raw["verificationMaterial"].(map[string]any)
	vm["timestampVerificationData"] = map[string]any{
		"rfc3161Timestamps": []map[string]any{{"signedTimestamp": b64([]byte("token"))}},
	}
	mutated, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Verify(mutated, Options{}, tb.fulcio, nil)
	assert.Error(t, err)
}
