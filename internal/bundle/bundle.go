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

// Package bundle parses the Sigstore bundle JSON format into the in-memory
// shape the rest of the verifier consumes.
package bundle

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
)

// mediaTypePrefix is required of every bundle this verifier accepts.
const mediaTypePrefix = "application/vnd.dev.sigstore.bundle"

// Bundle is the parsed, typed form of a Sigstore bundle.
type Bundle struct {
	MediaType         string
	LeafCertDER       []byte
	Rfc3161Timestamps [][]byte
	TlogEntries       []TlogEntry
	Envelope          DSSEEnvelope
}

// TlogEntry is one Rekor transparency-log entry referenced by a bundle.
type TlogEntry struct {
	IntegratedTime    int64
	LogIndex          int64
	LogID             []byte
	CanonicalizedBody []byte
	InclusionProof    *InclusionProof
	InclusionPromise  []byte
}

// InclusionProof is an RFC 6962 Merkle inclusion proof over a Rekor entry.
type InclusionProof struct {
	LogIndex int64
	TreeSize int64
	RootHash []byte
	Hashes   [][]byte
}

// DSSEEnvelope is the decoded Dead Simple Signing Envelope carried by a
// bundle.
type DSSEEnvelope struct {
	Payload     []byte
	PayloadType string
	Signatures  [][]byte
}

// wire mirrors the on-disk JSON shape (protobuf-JSON mapping: int64 and
// bytes fields are encoded as strings).
type wireBundle struct {
	MediaType             string `json:"mediaType"`
	VerificationMaterial  struct {
		Certificate struct {
			RawBytes string `json:"rawBytes"`
		} `json:"certificate"`
		X509CertificateChain struct {
			Certificates []struct {
				RawBytes string `json:"rawBytes"`
			} `json:"certificates"`
		} `json:"x509CertificateChain"`
		TlogEntries []wireTlogEntry `json:"tlogEntries"`
		TimestampVerificationData struct {
			Rfc3161Timestamps []struct {
				SignedTimestamp string `json:"signedTimestamp"`
			} `json:"rfc3161Timestamps"`
		} `json:"timestampVerificationData"`
	} `json:"verificationMaterial"`
	DsseEnvelope struct {
		Payload     string `json:"payload"`
		PayloadType string `json:"payloadType"`
		Signatures  []struct {
			Sig string `json:"sig"`
		} `json:"signatures"`
	} `json:"dsseEnvelope"`
}

type wireTlogEntry struct {
	LogIndex       string `json:"logIndex"`
	LogID          struct {
		KeyID string `json:"keyId"`
	} `json:"logId"`
	IntegratedTime string `json:"integratedTime"`
	InclusionPromise struct {
		SignedEntryTimestamp string `json:"signedEntryTimestamp"`
	} `json:"inclusionPromise"`
	InclusionProof *struct {
		LogIndex string   `json:"logIndex"`
		RootHash string   `json:"rootHash"`
		TreeSize string   `json:"treeSize"`
		Hashes   []string `json:"hashes"`
	} `json:"inclusionProof"`
	CanonicalizedBody string `json:"canonicalizedBody"`
}

// Parse decodes jsonBytes into a Bundle, rejecting the wrong media type or
// an empty signature list.
func Parse(jsonBytes []byte) (*Bundle, error) {
	var w wireBundle
	if err := json.Unmarshal(jsonBytes, &w); err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "invalid JSON: "+err.Error())
	}
	if !strings.HasPrefix(w.MediaType, mediaTypePrefix) {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "unexpected media type: "+w.MediaType)
	}
	if len(w.DsseEnvelope.Signatures) == 0 {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "dsseEnvelope has no signatures")
	}

	leafB64 := w.VerificationMaterial.Certificate.RawBytes
	if leafB64 == "" && len(w.VerificationMaterial.X509CertificateChain.Certificates) > 0 {
		leafB64 = w.VerificationMaterial.X509CertificateChain.Certificates[0].RawBytes
	}
	leafDER, err := decode(leafB64, "verificationMaterial.certificate.rawBytes")
	if err != nil {
		return nil, err
	}

	payload, err := decode(w.DsseEnvelope.Payload, "dsseEnvelope.payload")
	if err != nil {
		return nil, err
	}

	sigs := make([][]byte, 0, len(w.DsseEnvelope.Signatures))
	for i, s := range w.DsseEnvelope.Signatures {
		sig, err := decode(s.Sig, "dsseEnvelope.signatures["+strconv.Itoa(i)+"].sig")
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	rfc3161s := make([][]byte, 0, len(w.VerificationMaterial.TimestampVerificationData.Rfc3161Timestamps))
	for i, t := range w.VerificationMaterial.TimestampVerificationData.Rfc3161Timestamps {
		tok, err := decode(t.SignedTimestamp, "rfc3161Timestamps["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		rfc3161s = append(rfc3161s, tok)
	}

	tlogEntries := make([]TlogEntry, 0, len(w.VerificationMaterial.TlogEntries))
	for _, e := range w.VerificationMaterial.TlogEntries {
		entry, err := parseTlogEntry(e)
		if err != nil {
			return nil, err
		}
		tlogEntries = append(tlogEntries, entry)
	}

	return &Bundle{
		MediaType:         w.MediaType,
		LeafCertDER:       leafDER,
		Rfc3161Timestamps: rfc3161s,
		TlogEntries:       tlogEntries,
		Envelope: DSSEEnvelope{
			Payload:     payload,
			PayloadType: w.DsseEnvelope.PayloadType,
			Signatures:  sigs,
		},
	}, nil
}

func parseTlogEntry(e wireTlogEntry) (TlogEntry, error) {
	integratedTime, err := parseInt64(e.IntegratedTime, "integratedTime")
	if err != nil {
		return TlogEntry{}, err
	}
	logIndex, err := parseInt64(e.LogIndex, "logIndex")
	if err != nil {
		return TlogEntry{}, err
	}
	logID, err := decode(e.LogID.KeyID, "logId.keyId")
	if err != nil {
		return TlogEntry{}, err
	}
	body, err := decode(e.CanonicalizedBody, "canonicalizedBody")
	if err != nil {
		return TlogEntry{}, err
	}

	entry := TlogEntry{
		IntegratedTime:    integratedTime,
		LogIndex:          logIndex,
		LogID:             logID,
		CanonicalizedBody: body,
	}

	if e.InclusionPromise.SignedEntryTimestamp != "" {
		set, err := decode(e.InclusionPromise.SignedEntryTimestamp, "inclusionPromise.signedEntryTimestamp")
		if err != nil {
			return TlogEntry{}, err
		}
		entry.InclusionPromise = set
	}

	if e.InclusionProof != nil {
		proofLogIndex, err := parseInt64(e.InclusionProof.LogIndex, "inclusionProof.logIndex")
		if err != nil {
			return TlogEntry{}, err
		}
		treeSize, err := parseInt64(e.InclusionProof.TreeSize, "inclusionProof.treeSize")
		if err != nil {
			return TlogEntry{}, err
		}
		rootHash, err := decode(e.InclusionProof.RootHash, "inclusionProof.rootHash")
		if err != nil {
			return TlogEntry{}, err
		}
		hashes := make([][]byte, 0, len(e.InclusionProof.Hashes))
		for i, h := range e.InclusionProof.Hashes {
			hb, err := decode(h, "inclusionProof.hashes["+strconv.Itoa(i)+"]")
			if err != nil {
				return TlogEntry{}, err
			}
			hashes = append(hashes, hb)
		}
		entry.InclusionProof = &InclusionProof{
			LogIndex: proofLogIndex,
			TreeSize: treeSize,
			RootHash: rootHash,
			Hashes:   hashes,
		}
	}

	return entry, nil
}

// Statement is the decoded in-toto v1 Statement carried as the DSSE
// payload.
type Statement struct {
	Type          string    `json:"_type"`
	PredicateType string    `json:"predicateType"`
	Subject       []Subject `json:"subject"`
}

// Subject is one in-toto subject entry.
type Subject struct {
	Name   string            `json:"name"`
	Digest map[string]string `json:"digest"`
}

// ParseStatement JSON-decodes the already base64-decoded DSSE payload into
// a Statement.
func ParseStatement(payload []byte) (*Statement, error) {
	var st Statement
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "invalid DSSE payload JSON: "+err.Error())
	}
	return &st, nil
}

func decode(s, field string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrBundleParse, "failed to decode "+field+": "+err.Error())
	}
	return b, nil
}

func parseInt64(s, field string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, scverrors.WithMessage(scverrors.ErrBundleParse, "failed to parse "+field+": "+err.Error())
	}
	return v, nil
}
