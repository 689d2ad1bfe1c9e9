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

package rfc3161parse

import (
	"crypto"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"testing"
	"time"

	"github.com/digitorus/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/testutil"
)

func buildToken(t *testing.T, genTime time.Time, message []byte) ([]byte, []byte) {
	t.Helper()

	rootDER, leafDER, leafKey, err := testutil.GenerateTSAChain(genTime.Add(-time.Hour), genTime.Add(time.Hour))
	require.NoError(t, err)
	_ = rootDER

	leafCert, err := x509.ParseCertificate(leafDER)
	require.NoError(t, err)

	digest := sha256.Sum256(message)
	ts := &timestamp.Timestamp{
		HashAlgorithm:     crypto.SHA256,
		HashedMessage:     digest[:],
		Time:              genTime,
		Policy:            asn1.ObjectIdentifier{1, 2, 3, 4, 5},
		Certificates:      []*x509.Certificate{leafCert},
		AddTSACertificate: true,
	}

	respDER, err := ts.CreateResponseWithOpts(leafCert, leafKey, crypto.SHA256)
	require.NoError(t, err)

	parsed, err := timestamp.ParseResponse(respDER)
	require.NoError(t, err)

	return parsed.RawToken, leafDER
}

func TestParseValidToken(t *testing.T) {
	genTime := time.Now().Truncate(time.Second)
	message := []byte("dsse-signature-bytes")
	tokenDER, leafDER := buildToken(t, genTime, message)

	token, err := Parse(tokenDER)
	require.NoError(t, err)

	assert.Equal(t, genTime.UTC(), token.GenTime)
	assert.Equal(t, crypto.SHA256, token.MessageImprintHash)
	digest := sha256.Sum256(message)
	assert.Equal(t, digest[:], token.MessageImprint)
	require.Len(t, token.EmbeddedCerts, 1)
	assert.Equal(t, leafDER, token.EmbeddedCerts[0])
}

func TestParseTruncatesSubSecondGenTime(t *testing.T) {
	genTime := time.Date(2026, 1, 2, 3, 4, 5, 500_000_000, time.UTC)
	tokenDER, _ := buildToken(t, genTime, []byte("message"))

	token, err := Parse(tokenDER)
	require.NoError(t, err)

	assert.Equal(t, 0, token.GenTime.Nanosecond())
	assert.Equal(t, genTime.Truncate(time.Second), token.GenTime)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not a timestamp token"))
	assert.Error(t, err)
}
