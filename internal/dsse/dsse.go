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

// Package dsse builds the DSSE v1 Pre-Authentication Encoding and verifies
// an envelope's first signature against a certificate's public key.
package dsse

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"strconv"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/cryptoutil"
)

const preAuthEncodingPrefix = "DSSEv1"

// BuildPAE returns the exact byte string DSSE signers sign over:
//
//	"DSSEv1" SP len(payloadType) SP payloadType SP len(payload) SP payload
//
// where SP is a single space and both lengths are decimal ASCII of the
// byte length of the field that follows.
func BuildPAE(payloadType string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(preAuthEncodingPrefix)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(len(payloadType)))
	buf.WriteByte(' ')
	buf.WriteString(payloadType)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(len(payload)))
	buf.WriteByte(' ')
	buf.Write(payload)
	return buf.Bytes()
}

// VerifySignature verifies sig against the PAE of (payloadType, payload)
// using leaf's public key. Only an ECDSA P-256 or P-384 key is supported,
// matching §4.1's closed algorithm set; the hash algorithm is implied by
// the curve (P-256 -> SHA-256, P-384 -> SHA-384).
func VerifySignature(leaf *x509.Certificate, payloadType string, payload, sig []byte) error {
	pae := BuildPAE(payloadType, payload)

	ecKey, ok := leaf.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return scverrors.WithMessage(scverrors.ErrSignature, "leaf public key is not ECDSA")
	}

	var alg cryptoutil.Algorithm
	switch ecKey.Curve {
	case elliptic.P256():
		alg = cryptoutil.AlgorithmEcdsaP256Sha256
	case elliptic.P384():
		alg = cryptoutil.AlgorithmEcdsaP384Sha384
	default:
		return scverrors.WithMessage(scverrors.ErrSignature, "unsupported ECDSA curve")
	}

	return cryptoutil.Verify(alg, ecKey, pae, sig)
}
