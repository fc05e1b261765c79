// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcmodel

// Standard JSON-RPC 2.0 errors.
var (
	// ErrRPCInvalidRequest is returned when the request body could not be
	// interpreted as a JSON-RPC request.
	ErrRPCInvalidRequest = &RPCError{
		Code:    -32600,
		Message: "Invalid request",
	}

	// ErrRPCMethodNotFound is returned for unknown methods.
	ErrRPCMethodNotFound = &RPCError{
		Code:    -32601,
		Message: "Method not found",
	}

	// ErrRPCInvalidParams is returned when the request parameters do not
	// match the method.
	ErrRPCInvalidParams = &RPCError{
		Code:    -32602,
		Message: "Invalid parameters",
	}

	// ErrRPCInternal is returned for internal server failures.
	ErrRPCInternal = &RPCError{
		Code:    -32603,
		Message: "Internal error",
	}

	// ErrRPCParse is returned when the request body is not valid JSON.
	ErrRPCParse = &RPCError{
		Code:    -32700,
		Message: "Parse error",
	}
)

// General application defined JSON errors.
const (
	// ErrRPCMisc indicates a miscellaneous error.
	ErrRPCMisc RPCErrorCode = -1

	// ErrRPCInvalidParameter indicates an invalid, missing or duplicate
	// parameter.
	ErrRPCInvalidParameter RPCErrorCode = -8

	// ErrRPCBlockNotFound indicates the requested block does not exist.
	ErrRPCBlockNotFound RPCErrorCode = -5

	// ErrRPCDeserialization indicates the submitted hex could not be
	// decoded into a block or header.
	ErrRPCDeserialization RPCErrorCode = -22

	// ErrRPCVerify indicates a block was rejected by the tree, either by
	// the consensus verdict or by one of the admission rules.
	ErrRPCVerify RPCErrorCode = -25

	// ErrRPCFinality indicates an operation that is not permitted with
	// respect to the finality point: finalizing an invalid or
	// not-yet-valid block, or one that conflicts with the finality point.
	ErrRPCFinality RPCErrorCode = -20
)
