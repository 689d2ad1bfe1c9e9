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

package bundle

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func minimalBundleJSON(withTlog, withRfc3161 bool) string {
	tlog := ""
	if withTlog {
		tlog = `,"tlogEntries":[{
			"logIndex":"10",
			"logId":{"keyId":"` + b64("rekor-log-id") + `"},
			"integratedTime":"1700000000",
			"canonicalizedBody":"` + b64(`{"apiVersion":"0.0.1"}`) + `"
		}]`
	}
	rfc3161 := ""
	if withRfc3161 {
		rfc3161 = `,"timestampVerificationData":{"rfc3161Timestamps":[{"signedTimestamp":"` + b64("not-really-a-token") + `"}]}`
	}

	return `{
		"mediaType": "application/vnd.dev.sigstore.bundle+json;version=0.3",
		"verificationMaterial": {
			"certificate": {"rawBytes": "` + b64("leaf-cert-der") + `"}` + tlog + rfc3161 + `
		},
		"dsseEnvelope": {
			"payload": "` + b64(`{"_type":"https://in-toto.io/Statement/v1","subject":[{"name":"pkg","digest":{"sha256":"deadbeef"}}]}`) + `",
			"payloadType": "application/vnd.in-toto+json",
			"signatures": [{"sig": "` + b64("signature-bytes") + `"}]
		}
	}`
}

func TestParseMinimalBundleWithTlog(t *testing.T) {
	b, err := Parse([]byte(minimalBundleJSON(true, false)))
	require.NoError(t, err)

	assert.Equal(t, []byte("leaf-cert-der"), b.LeafCertDER)
	assert.Equal(t, []byte("signature-bytes"), b.Envelope.Signatures[0])
	assert.Equal(t, "application/vnd.in-toto+json", b.Envelope.PayloadType)
	require.Len(t, b.TlogEntries, 1)
	assert.Equal(t, int64(1700000000), b.TlogEntries[0].IntegratedTime)
	assert.Equal(t, int64(10), b.TlogEntries[0].LogIndex)
	assert.Empty(t, b.Rfc3161Timestamps)
}

func TestParseMinimalBundleWithRfc3161(t *testing.T) {
	b, err := Parse([]byte(minimalBundleJSON(false, true)))
	require.NoError(t, err)

	require.Len(t, b.Rfc3161Timestamps, 1)
	assert.Equal(t, []byte("not-really-a-token"), b.Rfc3161Timestamps[0])
	assert.Empty(t, b.TlogEntries)
}

func TestParseRejectsWrongMediaType(t *testing.T) {
	_, err := Parse([]byte(`{"mediaType":"application/json","dsseEnvelope":{"signatures":[{"sig":"YQ=="}]}}`))
	assert.Error(t, err)
}

func TestParseRejectsNoSignatures(t *testing.T) {
	_, err := Parse([]byte(`{"mediaType":"application/vnd.dev.sigstore.bundle+json;version=0.3","dsseEnvelope":{"signatures":[]}}`))
	assert.Error(t, err)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not valid json`))
	assert.Error(t, err)
}

func TestParseStatement(t *testing.T) {
	payload := []byte(`{"_type":"https://in-toto.io/Statement/v1","predicateType":"https://slsa.dev/provenance/v1","subject":[{"name":"pkg:example","digest":{"sha256":"abc123"}}]}`)
	st, err := ParseStatement(payload)
	require.NoError(t, err)

	assert.Equal(t, "https://in-toto.io/Statement/v1", st.Type)
	require.Len(t, st.Subject, 1)
	assert.Equal(t, "abc123", st.Subject[0].Digest["sha256"])
}
