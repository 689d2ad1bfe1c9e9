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

// Package proverinput serializes the record a zkVM host marshals to its
// guest: the bundle bytes, the verification options, and the Fulcio/TSA
// chains. The framing is a simple length-prefixed binary layout (not a
// general-purpose codec) because the record is a single, fixed-shape
// struct; see DESIGN.md for why this is the one place the verifier does
// not reach for a third-party serialization library.
package proverinput

import (
	"encoding/binary"
	"fmt"
)

// CertificateChain mirrors verify.CertificateChain without importing the
// root package, keeping this package leaf-level.
type CertificateChain struct {
	LeafDER          []byte
	IntermediatesDER [][]byte
	RootDER          []byte
}

// Options mirrors verify.Options.
type Options struct {
	ExpectedDigest  []byte
	ExpectedIssuer  string
	ExpectedSubject string
}

// ProverInput is the full host-to-guest marshalling record.
type ProverInput struct {
	BundleBytes []byte
	Options     Options
	Fulcio      CertificateChain
	TSA         *CertificateChain // nil is distinct from an empty chain
}

// Encode serializes p deterministically: identical input always produces
// identical bytes, and list element order is preserved exactly.
func (p *ProverInput) Encode() []byte {
	var buf []byte
	buf = appendBytes(buf, p.BundleBytes)
	buf = appendBytes(buf, p.Options.ExpectedDigest)
	buf = appendString(buf, p.Options.ExpectedIssuer)
	buf = appendString(buf, p.Options.ExpectedSubject)
	buf = appendChain(buf, p.Fulcio)

	if p.TSA == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = appendChain(buf, *p.TSA)
	}
	return buf
}

// Decode is the strict inverse of Encode.
func Decode(data []byte) (*ProverInput, error) {
	r := &reader{data: data}

	bundleBytes, err := r.readBytes()
	if err != nil {
		return nil, err
	}
	expectedDigest, err := r.readBytes()
	if err != nil {
		return nil, err
	}
	expectedIssuer, err := r.readString()
	if err != nil {
		return nil, err
	}
	expectedSubject, err := r.readString()
	if err != nil {
		return nil, err
	}
	fulcio, err := r.readChain()
	if err != nil {
		return nil, err
	}

	present, err := r.readByte()
	if err != nil {
		return nil, err
	}

	p := &ProverInput{
		BundleBytes: bundleBytes,
		Options: Options{
			ExpectedDigest:  expectedDigest,
			ExpectedIssuer:  expectedIssuer,
			ExpectedSubject: expectedSubject,
		},
		Fulcio: fulcio,
	}

	if present == 1 {
		tsa, err := r.readChain()
		if err != nil {
			return nil, err
		}
		p.TSA = &tsa
	}

	return p, nil
}

func appendChain(buf []byte, c CertificateChain) []byte {
	buf = appendBytes(buf, c.LeafDER)
	buf = appendUint32(buf, uint32(len(c.IntermediatesDER)))
	for _, der := range c.IntermediatesDER {
		buf = appendBytes(buf, der)
	}
	buf = appendBytes(buf, c.RootDER)
	return buf
}

func appendBytes(buf, data []byte) []byte {
	buf = appendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func appendString(buf []byte, s string) []byte {
	return appendBytes(buf, []byte(s))
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) readByte() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("proverinput: truncated byte")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("proverinput: truncated uint32")
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) readBytes() ([]byte, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.data) {
		return nil, fmt.Errorf("proverinput: truncated bytes field")
	}
	out := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return out, nil
}

func (r *reader) readString() (string, error) {
	b, err := r.readBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) readChain() (CertificateChain, error) {
	leaf, err := r.readBytes()
	if err != nil {
		return CertificateChain{}, err
	}
	count, err := r.readUint32()
	if err != nil {
		return CertificateChain{}, err
	}
	intermediates := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		der, err := r.readBytes()
		if err != nil {
			return CertificateChain{}, err
		}
		intermediates = append(intermediates, der)
	}
	root, err := r.readBytes()
	if err != nil {
		return CertificateChain{}, err
	}
	return CertificateChain{LeafDER: leaf, IntermediatesDER: intermediates, RootDER: root}, nil
}
