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

package cryptoutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyECDSAP256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	message := []byte("hello world")
	digest := Sha256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)

	assert.NoError(t, Verify(AlgorithmEcdsaP256Sha256, &key.PublicKey, message, sig))
}

func TestVerifyECDSAP384(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	message := []byte("hello world p384")
	digest := Sha384(message)
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)

	assert.NoError(t, Verify(AlgorithmEcdsaP384Sha384, &key.PublicKey, message, sig))
}

func TestVerifyRSAPKCS1v15(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	message := []byte("rsa signed message")
	digest := Sha256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, hashFor(AlgorithmRsaPkcs1v15Sha256), digest[:])
	require.NoError(t, err)

	assert.NoError(t, Verify(AlgorithmRsaPkcs1v15Sha256, &key.PublicKey, message, sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	digest := Sha256([]byte("original"))
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)

	err = Verify(AlgorithmEcdsaP256Sha256, &key.PublicKey, []byte("tampered"), sig)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongKeyType(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	err = Verify(AlgorithmEcdsaP256Sha256, &rsaKey.PublicKey, []byte("x"), []byte("y"))
	assert.Error(t, err)
}

func TestVerifyRejectsUnknownAlgorithm(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	err = Verify(AlgorithmUnknown, &key.PublicKey, []byte("x"), []byte("y"))
	assert.Error(t, err)
}
