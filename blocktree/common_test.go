// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/emberchain/emberd/chainparams"
	"github.com/emberchain/emberd/dbaccess"
	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

// rejectedPayload is a payload the test validator always fails.
var rejectedPayload = []byte("reject me")

// testValidator fails blocks that carry rejectedPayload and passes everything
// else. Reconsidered blocks face it again, so a block stored with
// rejectedPayload stays invalid no matter how often it is reconsidered.
func testValidator(block *domainmessage.MsgBlock) error {
	if bytes.Equal(block.Payload, rejectedPayload) {
		return errors.New("payload is on the naughty list")
	}
	return nil
}

// testHarness wraps a BlockTree with helpers for building deterministic
// test trees.
type testHarness struct {
	t         *testing.T
	tree      *BlockTree
	params    *chainparams.Params
	validator BlockValidator

	dbPath    string
	dbContext *dbaccess.DatabaseContext

	// nonceCounter makes every built header unique.
	nonceCounter uint64
}

// newTestHarness creates a BlockTree backed by a database in a temporary
// directory, judging payloads with testValidator. The returned teardown
// function closes the database and removes the directory.
func newTestHarness(t *testing.T, testName string, finalizationDepth uint64) (*testHarness, func()) {
	return newTestHarnessWithValidator(t, testName, finalizationDepth, testValidator)
}

// newTestHarnessWithValidator is newTestHarness with a caller-supplied
// validator.
func newTestHarnessWithValidator(t *testing.T, testName string, finalizationDepth uint64,
	validator BlockValidator) (*testHarness, func()) {

	params := chainparams.SimnetParams
	params.FinalizationDepth = finalizationDepth

	dbPath, err := ioutil.TempDir("", "test_"+testName)
	if err != nil {
		t.Fatalf("%s: TempDir unexpectedly failed: %s", testName, err)
	}
	dbContext, err := dbaccess.New(filepath.Join(dbPath, "db"))
	if err != nil {
		t.Fatalf("%s: error creating database context: %s", testName, err)
	}

	tree, err := New(&Config{
		DatabaseContext: dbContext,
		ChainParams:     &params,
		Validator:       validator,
	})
	if err != nil {
		t.Fatalf("%s: error creating block tree: %s", testName, err)
	}

	harness := &testHarness{
		t:         t,
		tree:      tree,
		params:    &params,
		validator: validator,
		dbPath:    dbPath,
		dbContext: dbContext,
	}
	teardown := func() {
		dbContext.Close()
		os.RemoveAll(dbPath)
	}
	return harness, teardown
}

// reopen closes the underlying database and creates a new BlockTree over the
// same files, simulating a restart.
func (harness *testHarness) reopen() {
	harness.t.Helper()

	err := harness.dbContext.Close()
	if err != nil {
		harness.t.Fatalf("error closing database context: %s", err)
	}
	dbContext, err := dbaccess.New(filepath.Join(harness.dbPath, "db"))
	if err != nil {
		harness.t.Fatalf("error reopening database context: %s", err)
	}
	tree, err := New(&Config{
		DatabaseContext: dbContext,
		ChainParams:     harness.params,
		Validator:       harness.validator,
	})
	if err != nil {
		harness.t.Fatalf("error recreating block tree: %s", err)
	}
	harness.dbContext = dbContext
	harness.tree = tree
}

// buildHeader returns a unique header whose parent is the given hash.
func (harness *testHarness) buildHeader(parentHash *chainhash.Hash) *domainmessage.BlockHeader {
	harness.nonceCounter++
	return &domainmessage.BlockHeader{
		Version:    1,
		ParentHash: *parentHash,
		Timestamp:  time.Unix(0x5ed36f30, 0),
		Bits:       harness.params.PowMax,
		Nonce:      harness.nonceCounter,
	}
}

// buildBlock returns a unique block whose parent is the given hash, carrying
// the given payload.
func (harness *testHarness) buildBlock(parentHash *chainhash.Hash, payload []byte) *domainmessage.MsgBlock {
	block := domainmessage.NewMsgBlock(harness.buildHeader(parentHash))
	block.Payload = payload
	return block
}

// addBlock builds a block on the given parent, processes it and requires the
// processing to succeed. It returns the new block's hash.
func (harness *testHarness) addBlock(parentHash *chainhash.Hash) *chainhash.Hash {
	harness.t.Helper()

	block := harness.buildBlock(parentHash, nil)
	err := harness.tree.ProcessBlock(block)
	if err != nil {
		harness.t.Fatalf("ProcessBlock unexpectedly failed: %s", err)
	}
	blockHash := block.BlockHash()
	return &blockHash
}

// addChain adds length blocks on top of the given parent and returns their
// hashes, deepest first.
func (harness *testHarness) addChain(parentHash *chainhash.Hash, length int) []*chainhash.Hash {
	harness.t.Helper()

	hashes := make([]*chainhash.Hash, 0, length)
	current := parentHash
	for i := 0; i < length; i++ {
		current = harness.addBlock(current)
		hashes = append(hashes, current)
	}
	return hashes
}

// checkStatus requires the block with the given hash to have the given
// externally visible status.
func (harness *testHarness) checkStatus(blockHash *chainhash.Hash, want Status) {
	harness.t.Helper()

	got, err := harness.tree.BlockStatus(blockHash)
	if err != nil {
		harness.t.Fatalf("BlockStatus unexpectedly failed: %s", err)
	}
	if got != want {
		harness.t.Fatalf("block %s status mismatch: got %s, want %s",
			blockHash, got, want)
	}
}

// checkSelectedTip requires the selected tip to be the given hash.
func (harness *testHarness) checkSelectedTip(want *chainhash.Hash) {
	harness.t.Helper()

	got := harness.tree.SelectedTipHash()
	if *got != *want {
		harness.t.Fatalf("selected tip mismatch: got %s, want %s", got, want)
	}
}

// checkFinalityPoint requires the finality point to be the given hash.
func (harness *testHarness) checkFinalityPoint(want *chainhash.Hash) {
	harness.t.Helper()

	got := harness.tree.FinalityPointHash()
	if *got != *want {
		harness.t.Fatalf("finality point mismatch: got %s, want %s", got, want)
	}
}

// checkRuleError requires err to be a RuleError carrying the given code.
func checkRuleError(t *testing.T, err error, code ErrorCode) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected rule error with code %s, got no error", code)
	}
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected rule error with code %s, got %T: %s",
			code, err, err)
	}
	if ruleErr.ErrorCode != code {
		t.Fatalf("rule error code mismatch: got %s, want %s",
			ruleErr.ErrorCode, code)
	}
}
