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

// Package chainverify walks a certificate chain leaf-to-root, verifying
// each adjacent signature explicitly (rather than delegating to
// x509.Certificate.Verify, whose path-search semantics would obscure which
// link failed), and enforces the TSA chain's Extended Key Usage
// constraints.
package chainverify

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/x509view"
)

// oidExtKeyUsage is the X.509 Extended Key Usage extension OID, 2.5.29.37.
var oidExtKeyUsage = asn1.ObjectIdentifier{2, 5, 29, 37}

// oidTimeStamping is the id-kp-timeStamping OID, 1.3.6.1.5.5.7.3.8.
var oidTimeStamping = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 8}

// Chain is a verified Fulcio (or TSA) certificate chain together with the
// SHA-256 hashes of each certificate's exact DER bytes.
type Chain struct {
	Leaf               *x509.Certificate
	Intermediates      []*x509.Certificate
	Root               *x509.Certificate
	LeafHash           [32]byte
	IntermediateHashes [][32]byte
	RootHash           [32]byte
}

// VerifyFulcioChain walks leafDER -> intermediateDERs -> rootDER, checking:
//  1. the leaf is signed by intermediates[0],
//  2. each adjacent intermediate pair validates,
//  3. the last intermediate is signed by the root,
//  4. the root is self-signed.
//
// Both the intermediate list and the root must be non-empty.
func VerifyFulcioChain(leafDER []byte, intermediateDERs [][]byte, rootDER []byte) (*Chain, error) {
	if len(intermediateDERs) == 0 {
		return nil, scverrors.MakeChainVerificationFailedError("fulcio chain requires at least one intermediate")
	}
	if len(rootDER) == 0 {
		return nil, scverrors.MakeChainVerificationFailedError("fulcio chain requires a root certificate")
	}
	return verifyChain(leafDER, intermediateDERs, rootDER)
}

// VerifyTSAChain walks a TSA chain the same way as VerifyFulcioChain, but
// permits an empty intermediate list (the leaf is then checked directly
// against the root), and additionally enforces the TSA leaf's Extended Key
// Usage: present, critical, and containing only the timeStamping purpose.
func VerifyTSAChain(leafDER []byte, intermediateDERs [][]byte, rootDER []byte) (*Chain, error) {
	if len(rootDER) == 0 {
		return nil, scverrors.MakeChainVerificationFailedError("tsa chain requires a root certificate")
	}
	chain, err := verifyChain(leafDER, intermediateDERs, rootDER)
	if err != nil {
		return nil, err
	}
	if err := verifyTimeStampingEKU(chain.Leaf); err != nil {
		return nil, err
	}
	return chain, nil
}

func verifyChain(leafDER []byte, intermediateDERs [][]byte, rootDER []byte) (*Chain, error) {
	leaf, err := x509view.Parse(leafDER)
	if err != nil {
		return nil, err
	}
	intermediates, err := x509view.ParseChain(intermediateDERs)
	if err != nil {
		return nil, err
	}
	root, err := x509view.Parse(rootDER)
	if err != nil {
		return nil, err
	}

	issuer := root
	if len(intermediates) > 0 {
		issuer = intermediates[0]
	}
	if err := leaf.CheckSignatureFrom(issuer); err != nil {
		return nil, scverrors.MakeChainVerificationFailedError("leaf not signed by issuer: " + err.Error())
	}

	for i := 0; i+1 < len(intermediates); i++ {
		if err := intermediates[i].CheckSignatureFrom(intermediates[i+1]); err != nil {
			return nil, scverrors.MakeChainVerificationFailedError("intermediate link broken: " + err.Error())
		}
	}

	if len(intermediates) > 0 {
		if err := intermediates[len(intermediates)-1].CheckSignatureFrom(root); err != nil {
			return nil, scverrors.MakeChainVerificationFailedError("last intermediate not signed by root: " + err.Error())
		}
	}

	if err := root.CheckSignatureFrom(root); err != nil {
		return nil, scverrors.MakeChainVerificationFailedError("root is not self-signed: " + err.Error())
	}

	intermediateHashes := make([][32]byte, 0, len(intermediateDERs))
	for _, der := range intermediateDERs {
		intermediateHashes = append(intermediateHashes, sha256.Sum256(der))
	}

	return &Chain{
		Leaf:               leaf,
		Intermediates:      intermediates,
		Root:               root,
		LeafHash:           sha256.Sum256(leafDER),
		IntermediateHashes: intermediateHashes,
		RootHash:           sha256.Sum256(rootDER),
	}, nil
}

func verifyTimeStampingEKU(cert *x509.Certificate) error {
	raw, critical, ok := x509view.ExtensionRawValue(cert, oidExtKeyUsage)
	if !ok {
		return scverrors.MakeChainVerificationFailedError("tsa leaf missing Extended Key Usage extension")
	}
	if !critical {
		return scverrors.MakeChainVerificationFailedError("tsa leaf Extended Key Usage extension is not critical")
	}

	var rawOids []asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(raw, &rawOids); err != nil {
		return scverrors.MakeChainVerificationFailedError("tsa leaf Extended Key Usage extension malformed: " + err.Error())
	}
	if len(rawOids) != 1 || !rawOids[0].Equal(oidTimeStamping) {
		return scverrors.MakeChainVerificationFailedError("tsa leaf Extended Key Usage must contain only timeStamping")
	}
	return nil
}
