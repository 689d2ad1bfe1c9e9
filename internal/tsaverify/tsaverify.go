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

// Package tsaverify composes the RFC 3161 token parser, the TSA chain
// walk, and an explicit CMS SignerInfo signature check into the
// mechanism-specific half of the timestamp-token verification step.
package tsaverify

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"time"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/chainverify"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/rfc3161parse"
)

// Result is the outcome of a successful RFC 3161 token verification.
type Result struct {
	SigningTime    time.Time
	TSAChainHashes [][32]byte // [leaf, ...intermediates, root]
	ImprintAlg     crypto.Hash
	MessageImprint []byte
}

// VerifyToken verifies tokenDER against dsseSig (the raw, base64-decoded
// DSSE signature bytes) and a TSA chain: the caller-supplied chain unless
// the token embeds exactly one certificate carrying the timeStamping EKU,
// in which case the embedded certificates supply the leaf and
// intermediates and only the caller-supplied root is used. callerTSA must
// be non-nil in either case.
func VerifyToken(tokenDER []byte, dsseSig []byte, callerTSA *CertificateChain) (*Result, error) {
	token, err := rfc3161parse.Parse(tokenDER)
	if err != nil {
		return nil, err
	}

	computed := hashWith(token.MessageImprintHash, dsseSig)
	if !bytes.Equal(computed, token.MessageImprint) {
		return nil, scverrors.MakeMessageImprintMismatchError(hexString(token.MessageImprint), hexString(computed))
	}

	leafDER, intermediateDERs, rootDER, err := selectTSAChain(token, callerTSA)
	if err != nil {
		return nil, err
	}

	chain, err := chainverify.VerifyTSAChain(leafDER, intermediateDERs, rootDER)
	if err != nil {
		return nil, err
	}

	if err := verifyCMSSignature(token, chain.Leaf); err != nil {
		return nil, err
	}

	hashes := make([][32]byte, 0, 2+len(chain.IntermediateHashes))
	hashes = append(hashes, chain.LeafHash)
	hashes = append(hashes, chain.IntermediateHashes...)
	hashes = append(hashes, chain.RootHash)

	return &Result{
		SigningTime:    token.GenTime,
		TSAChainHashes: hashes,
		ImprintAlg:     token.MessageImprintHash,
		MessageImprint: token.MessageImprint,
	}, nil
}

// CertificateChain is the caller-supplied TSA trust chain.
type CertificateChain struct {
	LeafDER          []byte
	IntermediatesDER [][]byte
	RootDER          []byte
}

// selectTSAChain implements §4.8 step 2 / §9's resolved open question:
// if exactly one embedded certificate carries the timeStamping EKU, it is
// the leaf and the remaining embedded certs (in order) are the
// intermediates, with the caller-supplied root always trusted. Otherwise
// the caller-supplied chain is used unmodified.
func selectTSAChain(token *rfc3161parse.Token, callerTSA *CertificateChain) (leafDER []byte, intermediateDERs [][]byte, rootDER []byte, err error) {
	if callerTSA == nil {
		return nil, nil, nil, scverrors.WithMessage(scverrors.ErrTimestamp, "no TSA chain available")
	}

	embeddedLeafIdx := -1
	for i, der := range token.EmbeddedCerts {
		cert, perr := x509.ParseCertificate(der)
		if perr != nil {
			continue
		}
		if hasOnlyTimeStampingEKU(cert) {
			if embeddedLeafIdx != -1 {
				// Ambiguous: more than one candidate leaf. Defer to caller.
				embeddedLeafIdx = -1
				break
			}
			embeddedLeafIdx = i
		}
	}

	if embeddedLeafIdx == -1 || len(token.EmbeddedCerts) == 0 {
		return callerTSA.LeafDER, callerTSA.IntermediatesDER, callerTSA.RootDER, nil
	}

	leafDER = token.EmbeddedCerts[embeddedLeafIdx]
	for i, der := range token.EmbeddedCerts {
		if i != embeddedLeafIdx {
			intermediateDERs = append(intermediateDERs, der)
		}
	}
	return leafDER, intermediateDERs, callerTSA.RootDER, nil
}

func hasOnlyTimeStampingEKU(cert *x509.Certificate) bool {
	return len(cert.ExtKeyUsage) == 1 && cert.ExtKeyUsage[0] == x509.ExtKeyUsageTimeStamping
}

// verifyCMSSignature extracts the first SignerInfo and verifies its
// signature over the TSTInfo content under tsaLeaf's public key, mapping
// the digest+signature algorithm OID pair to a concrete check per §4.8
// step 3's supported algorithm list.
func verifyCMSSignature(token *rfc3161parse.Token, tsaLeaf *x509.Certificate) error {
	p7 := token.CMS
	if len(p7.Signers) == 0 {
		return scverrors.WithMessage(scverrors.ErrTimestamp, "rfc3161 token has no CMS signers")
	}
	signer := p7.Signers[0]

	sigAlg, err := signatureAlgorithmFor(signer.DigestEncryptionAlgorithm, signer.DigestAlgorithm)
	if err != nil {
		return err
	}

	if err := tsaLeaf.CheckSignature(sigAlg, p7.Content, signer.EncryptedDigest); err != nil {
		return scverrors.WithMessage(scverrors.ErrTimestamp, fmt.Sprintf("rfc3161 cms signature invalid: %v", err))
	}
	return nil
}

var (
	oidRSAEncryption   = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidRSASHA256       = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	oidRSASHA384       = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 12}
	oidECDSASHA256     = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	oidECDSASHA384     = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 3}
	oidDigestSHA256    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
	oidDigestSHA384    = asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2}
)

func signatureAlgorithmFor(digestEncryption, digest pkix.AlgorithmIdentifier) (x509.SignatureAlgorithm, error) {
	switch {
	case digestEncryption.Algorithm.Equal(oidECDSASHA256):
		return x509.ECDSAWithSHA256, nil
	case digestEncryption.Algorithm.Equal(oidECDSASHA384):
		return x509.ECDSAWithSHA384, nil
	case digestEncryption.Algorithm.Equal(oidRSASHA256):
		return x509.SHA256WithRSA, nil
	case digestEncryption.Algorithm.Equal(oidRSASHA384):
		return x509.SHA384WithRSA, nil
	case digestEncryption.Algorithm.Equal(oidRSAEncryption):
		switch {
		case digest.Algorithm.Equal(oidDigestSHA256):
			return x509.SHA256WithRSA, nil
		case digest.Algorithm.Equal(oidDigestSHA384):
			return x509.SHA384WithRSA, nil
		}
		return 0, scverrors.WithMessage(scverrors.ErrTimestamp, "unsupported rfc3161 digest algorithm")
	default:
		return 0, scverrors.WithMessage(scverrors.ErrTimestamp, "unsupported rfc3161 signature algorithm")
	}
}

func hashWith(h crypto.Hash, data []byte) []byte {
	hasher := h.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func hexString(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}
