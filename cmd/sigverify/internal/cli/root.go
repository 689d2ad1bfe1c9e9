// Copyright 2020 OpenSSF Scorecard Authors
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

// Package cli implements the sigverify command-line front end: it reads a
// bundle and trust-chain files from disk and calls the verification core.
// Trust-bundle selection heuristics and network fetching are explicitly
// out of the core's scope; this package only accepts file paths.
package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/letmehateu/automata-slsa-sigstore-verifier/config"
	sclog "github.com/letmehateu/automata-slsa-sigstore-verifier/log"
	"github.com/letmehateu/automata-slsa-sigstore-verifier/verify"
)

const (
	sigverifyLong  = "Verify a Sigstore attestation bundle against a Fulcio certificate chain."
	sigverifyShort = "Sigstore attestation bundle verifier"
)

// NewRootCommand constructs the sigverify cobra command tree.
func NewRootCommand() *cobra.Command {
	var (
		bundlePath       string
		leafPath         string
		intermediatePath []string
		rootPath         string
		tsaLeafPath      string
		tsaIntermediates []string
		tsaRootPath      string
		expectedIssuer   string
		expectedSubject  string
	)

	cmd := &cobra.Command{
		Use:   "sigverify",
		Short: sigverifyShort,
		Long:  sigverifyLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := config.New()
			logger := sclog.NewLogger(sclog.ParseLevel(opts.LogLevel))

			bundleBytes, err := os.ReadFile(bundlePath)
			if err != nil {
				return fmt.Errorf("reading bundle file: %w", err)
			}

			fulcio, err := readChain(leafPath, intermediatePath, rootPath)
			if err != nil {
				return fmt.Errorf("reading fulcio chain: %w", err)
			}

			var tsa *verify.CertificateChain
			if tsaRootPath != "" {
				c, err := readChain(tsaLeafPath, tsaIntermediates, tsaRootPath)
				if err != nil {
					return fmt.Errorf("reading tsa chain: %w", err)
				}
				tsa = &c
			}

			result, err := verify.Verify(bundleBytes, verify.Options{
				ExpectedIssuer:  expectedIssuer,
				ExpectedSubject: expectedSubject,
			}, fulcio, tsa)
			if err != nil {
				logger.Error(err, "verification failed")
				return err
			}

			return printResult(result)
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "path to the Sigstore bundle JSON file")
	cmd.Flags().StringVar(&leafPath, "fulcio-leaf", "", "path to a leaf certificate DER (not used for verification: the bundle's own leaf is always verified)")
	cmd.Flags().StringArrayVar(&intermediatePath, "fulcio-intermediate", nil, "path to a Fulcio intermediate certificate DER (repeatable)")
	cmd.Flags().StringVar(&rootPath, "fulcio-root", "", "path to the Fulcio root certificate DER")
	cmd.Flags().StringVar(&tsaLeafPath, "tsa-leaf", "", "path to the TSA leaf certificate DER")
	cmd.Flags().StringArrayVar(&tsaIntermediates, "tsa-intermediate", nil, "path to a TSA intermediate certificate DER (repeatable)")
	cmd.Flags().StringVar(&tsaRootPath, "tsa-root", "", "path to the TSA root certificate DER")
	cmd.Flags().StringVar(&expectedIssuer, "expected-issuer", "", "expected OIDC issuer")
	cmd.Flags().StringVar(&expectedSubject, "expected-subject", "", "expected OIDC subject")

	_ = cmd.MarkFlagRequired("bundle")
	_ = cmd.MarkFlagRequired("fulcio-root")

	return cmd
}

func readChain(leafPath string, intermediatePaths []string, rootPath string) (verify.CertificateChain, error) {
	var chain verify.CertificateChain
	var err error

	if leafPath != "" {
		chain.LeafDER, err = os.ReadFile(leafPath)
		if err != nil {
			return chain, err
		}
	}

	for _, p := range intermediatePaths {
		der, err := os.ReadFile(p)
		if err != nil {
			return chain, err
		}
		chain.IntermediatesDER = append(chain.IntermediatesDER, der)
	}

	chain.RootDER, err = os.ReadFile(rootPath)
	if err != nil {
		return chain, err
	}

	return chain, nil
}

type resultView struct {
	LeafHash     string `json:"leafHash"`
	RootHash     string `json:"rootHash"`
	SigningTime  string `json:"signingTime"`
	SubjectDigest string `json:"subjectDigest"`
	TimestampKind string `json:"timestampKind"`
	OIDCIssuer   string `json:"oidcIssuer,omitempty"`
	OIDCSubject  string `json:"oidcSubject,omitempty"`
}

func printResult(r *verify.Result) error {
	view := resultView{
		LeafHash:      hex.EncodeToString(r.CertificateHashes.Leaf[:]),
		RootHash:      hex.EncodeToString(r.CertificateHashes.Root[:]),
		SigningTime:   r.SigningTime.UTC().Format("2006-01-02T15:04:05Z"),
		SubjectDigest: hex.EncodeToString(r.SubjectDigest),
	}
	switch r.TimestampProof.Kind {
	case verify.TimestampProofKindRfc3161:
		view.TimestampKind = "rfc3161"
	case verify.TimestampProofKindRekor:
		view.TimestampKind = "rekor"
	}
	if r.OIDCIdentity != nil {
		view.OIDCIssuer = r.OIDCIdentity.Issuer
		view.OIDCSubject = r.OIDCIdentity.Subject
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
