// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"github.com/pkg/errors"

	"github.com/emberchain/emberd/blocktree"
	"github.com/emberchain/emberd/rpcmodel"
	"github.com/emberchain/emberd/util/chainhash"
)

// internalRPCError is a convenience function to convert an internal error to
// an RPC error with the appropriate code set. It also logs the error to the
// RPC server subsystem since internal errors really should not occur. The
// context parameter is only used in the log message and may be empty if it's
// not needed.
func internalRPCError(errStr, context string) *rpcmodel.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}
	log.Error(logStr)
	return rpcmodel.NewRPCError(rpcmodel.ErrRPCInternal.Code, errStr)
}

// rpcDecodeHexError is a convenience function for returning a nicely formatted
// RPC error which indicates the provided hex string failed to decode.
func rpcDecodeHexError(gotHex string) *rpcmodel.RPCError {
	return rpcmodel.NewRPCError(rpcmodel.ErrRPCDeserialization,
		"Argument must be hexadecimal string (not \""+gotHex+"\")")
}

// parseHash turns the hash parameter of a command into a chainhash.Hash. A
// malformed hash is reported as an invalid parameter.
func parseHash(hashStr string) (*chainhash.Hash, error) {
	hash, err := chainhash.NewHashFromStr(hashStr)
	if err != nil {
		return nil, rpcmodel.NewRPCError(rpcmodel.ErrRPCInvalidParameter,
			"Invalid block hash: "+err.Error())
	}
	return hash, nil
}

// convertRuleError maps a blocktree rule error to the matching RPC error.
// Errors that are not rule errors are reported as internal errors.
func convertRuleError(err error, context string) *rpcmodel.RPCError {
	var ruleErr blocktree.RuleError
	if !errors.As(err, &ruleErr) {
		return internalRPCError(err.Error(), context)
	}

	switch ruleErr.ErrorCode {
	case blocktree.ErrBlockNotFound:
		return rpcmodel.NewRPCError(rpcmodel.ErrRPCBlockNotFound,
			"Block not found")
	case blocktree.ErrFinalizeInvalidBlock, blocktree.ErrForkPriorFinalized:
		return rpcmodel.NewRPCError(rpcmodel.ErrRPCFinality, ruleErr.Error())
	case blocktree.ErrInvalidateGenesis:
		return rpcmodel.NewRPCError(rpcmodel.ErrRPCInvalidParameter,
			ruleErr.Error())
	}
	return rpcmodel.NewRPCError(rpcmodel.ErrRPCVerify, ruleErr.Error())
}
