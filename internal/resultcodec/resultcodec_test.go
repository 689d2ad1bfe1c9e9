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

package resultcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripRfc3161(t *testing.T) {
	enc := Encoded{
		CertificateHashes:       [][32]byte{{1}, {2}, {3}},
		SubjectDigest:           []byte{0xde, 0xad, 0xbe, 0xef},
		SubjectDigestAlgorithm:  1,
		OidcIssuer:              "https://token.actions.githubusercontent.com",
		OidcSubject:             "repo:octo/example:ref:refs/heads/main",
		OidcWorkflowRef:         "octo/example/.github/workflows/release.yml@refs/heads/main",
		OidcRepository:          "octo/example",
		OidcEventName:           "push",
		TsaChainHashes:          [][32]byte{{4}, {5}},
		MessageImprintAlgorithm: 1,
		MessageImprint:          []byte{0xca, 0xfe},
	}

	data, err := Encode(1_700_000_000, TimestampProofRfc3161, enc)
	require.NoError(t, err)

	signingTime, proofType, decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_700_000_000), signingTime)
	assert.Equal(t, TimestampProofRfc3161, proofType)
	assert.Equal(t, enc.CertificateHashes, decoded.CertificateHashes)
	assert.Equal(t, enc.SubjectDigest, decoded.SubjectDigest)
	assert.Equal(t, enc.OidcIssuer, decoded.OidcIssuer)
	assert.Equal(t, enc.OidcSubject, decoded.OidcSubject)
	assert.Equal(t, enc.TsaChainHashes, decoded.TsaChainHashes)
	assert.Equal(t, enc.MessageImprint, decoded.MessageImprint)
}

func TestEncodeDecodeRoundTripRekor(t *testing.T) {
	enc := Encoded{
		CertificateHashes:      [][32]byte{{9}, {10}},
		SubjectDigest:          []byte{0x01, 0x02},
		SubjectDigestAlgorithm: 1,
		RekorLogID:             [32]byte{0xaa},
		RekorLogIndex:          42,
		RekorEntryIndex:        7,
	}

	data, err := Encode(1_600_000_000, TimestampProofRekor, enc)
	require.NoError(t, err)

	signingTime, proofType, decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_600_000_000), signingTime)
	assert.Equal(t, TimestampProofRekor, proofType)
	assert.Equal(t, enc.RekorLogID, decoded.RekorLogID)
	assert.Equal(t, enc.RekorLogIndex, decoded.RekorLogIndex)
	assert.Equal(t, enc.RekorEntryIndex, decoded.RekorEntryIndex)
}

func TestDecodeRejectsShortPrefix(t *testing.T) {
	_, _, _, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDecodeRejectsMissingCertHashes(t *testing.T) {
	enc := Encoded{
		CertificateHashes: [][32]byte{{1}},
	}
	data, err := Encode(0, TimestampProofNone, enc)
	require.NoError(t, err)

	_, _, _, err = Decode(data)
	assert.Error(t, err)
}

func TestDecodeRejectsMissingTSAHashesForRfc3161(t *testing.T) {
	enc := Encoded{
		CertificateHashes: [][32]byte{{1}, {2}},
		TsaChainHashes:    [][32]byte{{3}},
	}
	data, err := Encode(0, TimestampProofRfc3161, enc)
	require.NoError(t, err)

	_, _, _, err = Decode(data)
	assert.Error(t, err)
}
