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

package identity

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/x509view"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/testutil"
)

func marshalExt(oid asn1.ObjectIdentifier, value string) pkix.Extension {
	raw, err := asn1.Marshal(value)
	if err != nil {
		panic(err)
	}
	return pkix.Extension{Id: oid, Value: raw}
}

func TestExtractFullIdentity(t *testing.T) {
	now := time.Now()
	extensions := []pkix.Extension{
		marshalExt(oidIssuer, "https://token.actions.githubusercontent.com"),
		marshalExt(oidRepository1, "octo/example"),
		marshalExt(oidWorkflow1, "octo/example/.github/workflows/release.yml@refs/heads/main"),
		marshalExt(oidEventName, "push"),
	}

	chain, err := testutil.GenerateFulcioLikeChain(now.Add(-time.Hour), now.Add(time.Hour), extensions, "ci@octo.example")
	require.NoError(t, err)

	cert, err := x509view.Parse(chain.LeafDER)
	require.NoError(t, err)

	id := Extract(cert)
	assert.Equal(t, "ci@octo.example", id.Subject)
	assert.Equal(t, "https://token.actions.githubusercontent.com", id.Issuer)
	assert.Equal(t, "octo/example", id.Repository)
	assert.Equal(t, "octo/example/.github/workflows/release.yml@refs/heads/main", id.WorkflowRef)
	assert.Equal(t, "push", id.EventName)
}

func TestExtractFallsBackToSecondaryOID(t *testing.T) {
	now := time.Now()
	extensions := []pkix.Extension{
		marshalExt(oidRepository2, "octo/legacy"),
		marshalExt(oidWorkflow2, "octo/legacy/.github/workflows/build.yml@refs/heads/main"),
	}
	chain, err := testutil.GenerateFulcioLikeChain(now.Add(-time.Hour), now.Add(time.Hour), extensions, "ci@octo.example")
	require.NoError(t, err)

	cert, err := x509view.Parse(chain.LeafDER)
	require.NoError(t, err)

	id := Extract(cert)
	assert.Equal(t, "octo/legacy", id.Repository)
	assert.Equal(t, "octo/legacy/.github/workflows/build.yml@refs/heads/main", id.WorkflowRef)
}

func TestExtractWithNoExtensions(t *testing.T) {
	now := time.Now()
	chain, err := testutil.GenerateFulcioLikeChain(now.Add(-time.Hour), now.Add(time.Hour), nil, "ci@octo.example")
	require.NoError(t, err)

	cert, err := x509view.Parse(chain.LeafDER)
	require.NoError(t, err)

	id := Extract(cert)
	assert.Equal(t, "ci@octo.example", id.Subject)
	assert.Empty(t, id.Issuer)
	assert.Empty(t, id.Repository)
}
