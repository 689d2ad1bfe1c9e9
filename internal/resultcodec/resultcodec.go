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

// Package resultcodec encodes and decodes the canonical, bit-exact
// VerificationResult wire format: a fixed 9-byte prefix followed by a
// Solidity-ABI-encoded struct, so the same bytes can be consumed by an
// on-chain verifier.
package resultcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
)

// TimestampProofType tags which timestamp mechanism produced a result.
type TimestampProofType uint8

const (
	// TimestampProofNone means neither mechanism verified (never emitted
	// by a successful verification; present for decode-side completeness).
	TimestampProofNone TimestampProofType = 0
	// TimestampProofRfc3161 means the result carries RFC 3161 TSA fields.
	TimestampProofRfc3161 TimestampProofType = 1
	// TimestampProofRekor means the result carries Rekor log fields.
	TimestampProofRekor TimestampProofType = 2
)

// Encoded mirrors the Solidity struct VerificationResultEncoded from
// §4.10, field for field, in ABI argument order.
type Encoded struct {
	CertificateHashes       [][32]byte
	SubjectDigest           []byte
	SubjectDigestAlgorithm  uint8
	OidcIssuer              string
	OidcSubject             string
	OidcWorkflowRef         string
	OidcRepository          string
	OidcEventName           string
	TsaChainHashes          [][32]byte
	MessageImprintAlgorithm uint8
	MessageImprint          []byte
	RekorLogID              [32]byte
	RekorLogIndex           uint64
	RekorEntryIndex         uint64
}

var abiArguments = mustArguments()

func mustArguments() abi.Arguments {
	bytes32Arr, err := abi.NewType("bytes32[]", "", nil)
	if err != nil {
		panic(err)
	}
	bytesT, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(err)
	}
	uint8T, err := abi.NewType("uint8", "", nil)
	if err != nil {
		panic(err)
	}
	stringT, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	bytes32T, err := abi.NewType("bytes32", "", nil)
	if err != nil {
		panic(err)
	}
	uint64T, err := abi.NewType("uint64", "", nil)
	if err != nil {
		panic(err)
	}

	return abi.Arguments{
		{Type: bytes32Arr}, // certificateHashes
		{Type: bytesT},     // subjectDigest
		{Type: uint8T},     // subjectDigestAlgorithm
		{Type: stringT},    // oidcIssuer
		{Type: stringT},    // oidcSubject
		{Type: stringT},    // oidcWorkflowRef
		{Type: stringT},    // oidcRepository
		{Type: stringT},    // oidcEventName
		{Type: bytes32Arr}, // tsaChainHashes
		{Type: uint8T},     // messageImprintAlgorithm
		{Type: bytesT},     // messageImprint
		{Type: bytes32T},   // rekorLogId
		{Type: uint64T},    // rekorLogIndex
		{Type: uint64T},    // rekorEntryIndex
	}
}

// Encode serializes signingTime, proofType, and enc into the canonical
// byte layout.
func Encode(signingTime uint64, proofType TimestampProofType, enc Encoded) ([]byte, error) {
	certHashes := toCommonHashes(enc.CertificateHashes)
	tsaHashes := toCommonHashes(enc.TsaChainHashes)

	packed, err := abiArguments.Pack(
		certHashes,
		enc.SubjectDigest,
		enc.SubjectDigestAlgorithm,
		enc.OidcIssuer,
		enc.OidcSubject,
		enc.OidcWorkflowRef,
		enc.OidcRepository,
		enc.OidcEventName,
		tsaHashes,
		enc.MessageImprintAlgorithm,
		enc.MessageImprint,
		enc.RekorLogID,
		enc.RekorLogIndex,
		enc.RekorEntryIndex,
	)
	if err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "abi encode failed: "+err.Error())
	}

	out := make([]byte, 9+len(packed))
	binary.BigEndian.PutUint64(out[0:8], signingTime)
	out[8] = byte(proofType)
	copy(out[9:], packed)
	return out, nil
}

// Decode is the strict inverse of Encode.
func Decode(data []byte) (signingTime uint64, proofType TimestampProofType, enc Encoded, err error) {
	if len(data) < 9 {
		return 0, 0, Encoded{}, scverrors.WithMessage(scverrors.ErrBundleParse, "encoded result shorter than 9-byte prefix")
	}
	signingTime = binary.BigEndian.Uint64(data[0:8])
	proofType = TimestampProofType(data[8])

	values, derr := abiArguments.Unpack(data[9:])
	if derr != nil {
		return 0, 0, Encoded{}, scverrors.WithMessage(scverrors.ErrBundleParse, "abi decode failed: "+derr.Error())
	}
	if len(values) != 14 {
		return 0, 0, Encoded{}, scverrors.WithMessage(scverrors.ErrBundleParse, "unexpected abi field count")
	}

	certHashes, ok := values[0].([][32]byte)
	if !ok {
		return 0, 0, Encoded{}, fmt.Errorf("unexpected type for certificateHashes")
	}
	if len(certHashes) < 2 {
		return 0, 0, Encoded{}, scverrors.WithMessage(scverrors.ErrBundleParse, "certificateHashes must hold at least leaf and root")
	}

	tsaHashes, _ := values[8].([][32]byte)
	if proofType == TimestampProofRfc3161 && len(tsaHashes) < 2 {
		return 0, 0, Encoded{}, scverrors.WithMessage(scverrors.ErrBundleParse, "tsaChainHashes must hold at least leaf and root for rfc3161")
	}

	enc = Encoded{
		CertificateHashes:       certHashes,
		SubjectDigest:           values[1].([]byte),
		SubjectDigestAlgorithm:  values[2].(uint8),
		OidcIssuer:              values[3].(string),
		OidcSubject:             values[4].(string),
		OidcWorkflowRef:         values[5].(string),
		OidcRepository:          values[6].(string),
		OidcEventName:           values[7].(string),
		TsaChainHashes:          tsaHashes,
		MessageImprintAlgorithm: values[9].(uint8),
		MessageImprint:          values[10].([]byte),
		RekorLogID:              values[11].([32]byte),
		RekorLogIndex:           values[12].(uint64),
		RekorEntryIndex:         values[13].(uint64),
	}
	return signingTime, proofType, enc, nil
}

func toCommonHashes(hashes [][32]byte) [][32]byte {
	if hashes == nil {
		return [][32]byte{}
	}
	return hashes
}
