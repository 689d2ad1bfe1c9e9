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

// Package merkle verifies a Rekor RFC 6962 Merkle inclusion proof using
// the same hasher the Sigstore ecosystem itself uses, rather than
// reimplementing the tree-hash algorithm by hand.
package merkle

import (
	"github.com/transparency-dev/merkle/proof"
	"github.com/transparency-dev/merkle/rfc6962"

	scverrors "github.com/letmehateu/automata-slsa-sigstore-verifier/errors"
)

// VerifyInclusion checks that body, positioned at logIndex in a tree of
// size treeSize, folds through proofHashes to rootHash.
func VerifyInclusion(body []byte, logIndex, treeSize int64, proofHashes [][]byte, rootHash []byte) error {
	if treeSize <= 0 || logIndex < 0 || logIndex >= treeSize {
		return scverrors.MakeInvalidEntryHashError("log index out of range for tree size")
	}

	leafHash := rfc6962.DefaultHasher.HashLeaf(body)

	if err := proof.VerifyInclusion(rfc6962.DefaultHasher, uint64(logIndex), uint64(treeSize), leafHash, proofHashes, rootHash); err != nil {
		return scverrors.MakeInclusionProofFailedError(err.Error())
	}
	return nil
}
