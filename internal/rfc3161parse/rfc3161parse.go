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

// Package rfc3161parse decodes an RFC 3161 TimeStampToken: a CMS
// ContentInfo wrapping a SignedData whose encapsulated content is a
// TSTInfo. Parsing is delegated to github.com/digitorus/timestamp, which
// already understands the ContentInfo/SignedData/TSTInfo nesting; this
// package adds only the supported-hash-algorithm gate this verifier
// enforces and exposes the raw CMS structure for tsaverify's independent
// signature check.
package rfc3161parse

import (
	"crypto"
	"time"

	"github.com/digitorus/pkcs7"
	"github.com/digitorus/timestamp"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
)

// Token is a parsed RFC 3161 timestamp token.
type Token struct {
	GenTime            time.Time
	MessageImprintHash crypto.Hash
	MessageImprint     []byte
	EmbeddedCerts      [][]byte // DER-encoded, CertificateChoices::Certificate only
	CMS                *pkcs7.PKCS7
}

// Parse decodes der as a RFC 3161 TimeStampToken.
func Parse(der []byte) (*Token, error) {
	ts, err := timestamp.Parse(der)
	if err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrTimestamp, "rfc3161 parse failed: "+err.Error())
	}
	if ts.HashAlgorithm != crypto.SHA256 && ts.HashAlgorithm != crypto.SHA384 {
		return nil, scverrors.WithMessage(scverrors.ErrTimestamp, "unsupported message imprint hash algorithm")
	}

	p7, err := pkcs7.Parse(der)
	if err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrTimestamp, "rfc3161 cms parse failed: "+err.Error())
	}

	embedded := make([][]byte, 0, len(ts.Certificates))
	for _, c := range ts.Certificates {
		embedded = append(embedded, c.Raw)
	}

	return &Token{
		GenTime:            ts.Time.UTC().Truncate(time.Second),
		MessageImprintHash: ts.HashAlgorithm,
		MessageImprint:     ts.HashedMessage,
		EmbeddedCerts:      embedded,
		CMS:                p7,
	}, nil
}
