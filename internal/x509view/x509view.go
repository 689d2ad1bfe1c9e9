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

// Package x509view offers a thin accessor layer over a parsed X.509
// certificate: issuer CN, SAN general names, extensions by OID, validity,
// and the public key. Certificates are parsed with the standard library;
// this package only adds the lookups stdlib does not expose directly
// (custom-extension raw values, criticality of a specific extension OID).
package x509view

import (
	"crypto/x509"
	"encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
)

// Parse parses a single DER-encoded certificate.
func Parse(der []byte) (*x509.Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, scverrors.WithMessage(scverrors.ErrCertificate, "failed to parse certificate: "+err.Error())
	}
	return cert, nil
}

// ParseChain parses a list of DER-encoded certificates in order.
func ParseChain(ders [][]byte) ([]*x509.Certificate, error) {
	certs := make([]*x509.Certificate, 0, len(ders))
	for _, der := range ders {
		c, err := Parse(der)
		if err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, nil
}

// ExtensionRawValue returns the raw extension payload (the OCTET STRING
// content, already unwrapped by the stdlib parser) for the given OID, and
// whether the extension was marked critical. ok is false if the extension
// is absent.
func ExtensionRawValue(cert *x509.Certificate, oid asn1.ObjectIdentifier) (value []byte, critical bool, ok bool) {
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(oid) {
			return ext.Value, ext.Critical, true
		}
	}
	return nil, false, false
}

// ExtensionStringValue extracts a human-readable string from a Fulcio
// custom-extension value. Fulcio wraps the string as a DER value (tag
// UTF8String 0x0C, IA5String 0x16, or PrintableString 0x13); some issuers
// instead store the raw UTF-8 bytes directly. Both forms are tried, the
// raw-UTF-8 fallback only taken when the DER-tag interpretation fails.
func ExtensionStringValue(raw []byte) (string, bool) {
	s := cryptobyte.String(raw)
	var tag cryptobyte_asn1.Tag
	var inner cryptobyte.String
	if s.ReadAnyASN1(&inner, &tag) && s.Empty() {
		switch tag {
		case cryptobyte_asn1.UTF8String, cryptobyte_asn1.IA5String, cryptobyte_asn1.PrintableString:
			return string(inner), true
		}
	}
	if isValidUTF8(raw) {
		return string(raw), true
	}
	return "", false
}

func isValidUTF8(b []byte) bool {
	for i := 0; i < len(b); {
		r := b[i]
		switch {
		case r < 0x80:
			i++
		case r&0xE0 == 0xC0 && i+1 < len(b):
			i += 2
		case r&0xF0 == 0xE0 && i+2 < len(b):
			i += 3
		case r&0xF8 == 0xF0 && i+3 < len(b):
			i += 4
		default:
			return false
		}
	}
	return true
}
