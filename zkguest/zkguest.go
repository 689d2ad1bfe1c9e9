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

// Package zkguest is the guest-program wrapper: it reads a ProverInput
// from an input channel, invokes the verification core, and commits the
// canonical result encoding to a write-once output channel. There is no
// scheduler inside the guest; Run executes strictly sequentially and any
// verification error aborts (the caller should treat that as a circuit
// constraint failure, not a recoverable condition).
package zkguest

import (
	"io"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/internal/proverinput"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/verify"
)

// Run reads a ProverInput from in, verifies it, and writes the canonical
// VerificationResult encoding to out. It returns the first error from any
// stage (decode, verify, or encode); the guest must treat a non-nil error
// as fatal.
func Run(in io.Reader, out io.Writer) error {
	inputBytes, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	input, err := proverinput.Decode(inputBytes)
	if err != nil {
		return err
	}

	var tsa *verify.CertificateChain
	if input.TSA != nil {
		tsa = &verify.CertificateChain{
			LeafDER:          input.TSA.LeafDER,
			IntermediatesDER: input.TSA.IntermediatesDER,
			RootDER:          input.TSA.RootDER,
		}
	}

	result, err := verify.Verify(input.BundleBytes, verify.Options{
		ExpectedDigest:  input.Options.ExpectedDigest,
		ExpectedIssuer:  input.Options.ExpectedIssuer,
		ExpectedSubject: input.Options.ExpectedSubject,
	}, verify.CertificateChain{
		LeafDER:          input.Fulcio.LeafDER,
		IntermediatesDER: input.Fulcio.IntermediatesDER,
		RootDER:          input.Fulcio.RootDER,
	}, tsa)
	if err != nil {
		return err
	}

	encoded, err := result.Encode()
	if err != nil {
		return err
	}

	_, err = out.Write(encoded)
	return err
}
