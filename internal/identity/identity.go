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

// Package identity extracts the OIDC identity Fulcio bound to a leaf
// certificate at issuance time: the SAN-carried subject plus a handful of
// custom extension OIDs GitHub's and other issuers populate.
package identity

import (
	"crypto/x509"
	"encoding/asn1"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/x509view"
)

// Identity is the set of OIDC fields recoverable from a Fulcio certificate.
// Every field is optional; extraction failure for any one field is
// non-fatal.
type Identity struct {
	Issuer      string
	Subject     string
	WorkflowRef string
	Repository  string
	EventName   string
}

var (
	oidIssuer      = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 1, 8}
	oidRepository1 = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 1, 12}
	oidRepository2 = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 1, 5}
	oidWorkflow1   = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 1, 14}
	oidWorkflow2   = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 1, 6}
	oidEventName   = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 57264, 1, 2}
)

// Extract builds an Identity from cert's SAN and custom extensions.
func Extract(cert *x509.Certificate) Identity {
	var id Identity

	switch {
	case len(cert.EmailAddresses) > 0:
		id.Subject = cert.EmailAddresses[0]
	case len(cert.URIs) > 0:
		id.Subject = cert.URIs[0].String()
	}

	id.Issuer = firstExtensionString(cert, oidIssuer)
	id.Repository = firstExtensionString(cert, oidRepository1, oidRepository2)
	id.WorkflowRef = firstExtensionString(cert, oidWorkflow1, oidWorkflow2)
	id.EventName = firstExtensionString(cert, oidEventName)

	return id
}

func firstExtensionString(cert *x509.Certificate, oids ...asn1.ObjectIdentifier) string {
	for _, oid := range oids {
		raw, _, ok := x509view.ExtensionRawValue(cert, oid)
		if !ok {
			continue
		}
		if s, ok := x509view.ExtensionStringValue(raw); ok {
			return s
		}
	}
	return ""
}
