// Copyright 2020 Security Scorecard Authors
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

// Package cryptoutil holds the hash and signature primitives shared by the
// rest of the verifier: SHA-256/384 digests and a small closed set of
// signature-verification algorithms, dispatched on an explicit tag rather
// than hidden behind an interface's virtual dispatch.
package cryptoutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
)

// Algorithm tags the closed set of signature-verification algorithms this
// verifier understands. Any other algorithm is rejected outright.
type Algorithm uint8

const (
	// AlgorithmUnknown is the zero value and is always rejected.
	AlgorithmUnknown Algorithm = iota
	// AlgorithmEcdsaP256Sha256 is ECDSA over P-256 with a SHA-256 digest,
	// signature encoded as ASN.1 DER.
	AlgorithmEcdsaP256Sha256
	// AlgorithmEcdsaP384Sha384 is ECDSA over P-384 with a SHA-384 digest.
	AlgorithmEcdsaP384Sha384
	// AlgorithmRsaPkcs1v15Sha256 is RSA PKCS#1 v1.5 with a SHA-256 digest.
	AlgorithmRsaPkcs1v15Sha256
	// AlgorithmRsaPkcs1v15Sha384 is RSA PKCS#1 v1.5 with a SHA-384 digest.
	AlgorithmRsaPkcs1v15Sha384
)

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Sha384 returns the SHA-384 digest of data.
func Sha384(data []byte) [48]byte {
	return sha512.Sum384(data)
}

// Verify checks sig over message under pub using alg. It returns a wrapped
// ErrSignature on any failure, including an unsupported algorithm or a
// public key of the wrong concrete type for alg.
func Verify(alg Algorithm, pub crypto.PublicKey, message, sig []byte) error {
	switch alg {
	case AlgorithmEcdsaP256Sha256, AlgorithmEcdsaP384Sha384:
		ecKey, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return scverrors.WithMessage(scverrors.ErrSignature, "expected ECDSA public key")
		}
		digest := digestFor(alg, message)
		if !ecdsa.VerifyASN1(ecKey, digest, sig) {
			return scverrors.WithMessage(scverrors.ErrSignature, "ecdsa signature verification failed")
		}
		return nil
	case AlgorithmRsaPkcs1v15Sha256, AlgorithmRsaPkcs1v15Sha384:
		rsaKey, ok := pub.(*rsa.PublicKey)
		if !ok {
			return scverrors.WithMessage(scverrors.ErrSignature, "expected RSA public key")
		}
		hash := hashFor(alg)
		digest := digestFor(alg, message)
		if err := rsa.VerifyPKCS1v15(rsaKey, hash, digest, sig); err != nil {
			return scverrors.WithMessage(scverrors.ErrSignature, "rsa signature verification failed: "+err.Error())
		}
		return nil
	default:
		return scverrors.WithMessage(scverrors.ErrSignature, "unsupported signature algorithm")
	}
}

func hashFor(alg Algorithm) crypto.Hash {
	switch alg {
	case AlgorithmEcdsaP384Sha384, AlgorithmRsaPkcs1v15Sha384:
		return crypto.SHA384
	default:
		return crypto.SHA256
	}
}

func digestFor(alg Algorithm, message []byte) []byte {
	if hashFor(alg) == crypto.SHA384 {
		d := Sha384(message)
		return d[:]
	}
	d := Sha256(message)
	return d[:]
}
