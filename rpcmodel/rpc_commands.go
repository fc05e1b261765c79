// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// an emberd rpc server.

package rpcmodel

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// SubmitHeaderCmd defines the submitHeader JSON-RPC command.
type SubmitHeaderCmd struct {
	HexHeader string
}

// NewSubmitHeaderCmd returns a new instance which can be used to issue a
// submitHeader JSON-RPC command.
func NewSubmitHeaderCmd(hexHeader string) *SubmitHeaderCmd {
	return &SubmitHeaderCmd{
		HexHeader: hexHeader,
	}
}

// SubmitBlockCmd defines the submitBlock JSON-RPC command.
type SubmitBlockCmd struct {
	HexBlock string
}

// NewSubmitBlockCmd returns a new instance which can be used to issue a
// submitBlock JSON-RPC command.
func NewSubmitBlockCmd(hexBlock string) *SubmitBlockCmd {
	return &SubmitBlockCmd{
		HexBlock: hexBlock,
	}
}

// FinalizeBlockCmd defines the finalizeBlock JSON-RPC command.
type FinalizeBlockCmd struct {
	Hash string
}

// NewFinalizeBlockCmd returns a new instance which can be used to issue a
// finalizeBlock JSON-RPC command.
func NewFinalizeBlockCmd(hash string) *FinalizeBlockCmd {
	return &FinalizeBlockCmd{
		Hash: hash,
	}
}

// InvalidateBlockCmd defines the invalidateBlock JSON-RPC command.
type InvalidateBlockCmd struct {
	Hash string
}

// NewInvalidateBlockCmd returns a new instance which can be used to issue an
// invalidateBlock JSON-RPC command.
func NewInvalidateBlockCmd(hash string) *InvalidateBlockCmd {
	return &InvalidateBlockCmd{
		Hash: hash,
	}
}

// ReconsiderBlockCmd defines the reconsiderBlock JSON-RPC command.
type ReconsiderBlockCmd struct {
	Hash string
}

// NewReconsiderBlockCmd returns a new instance which can be used to issue a
// reconsiderBlock JSON-RPC command.
func NewReconsiderBlockCmd(hash string) *ReconsiderBlockCmd {
	return &ReconsiderBlockCmd{
		Hash: hash,
	}
}

// GetBlockHeaderCmd defines the getBlockHeader JSON-RPC command. Verbose
// defaults to true when omitted.
type GetBlockHeaderCmd struct {
	Hash    string
	Verbose *bool
}

// NewGetBlockHeaderCmd returns a new instance which can be used to issue a
// getBlockHeader JSON-RPC command.
func NewGetBlockHeaderCmd(hash string, verbose *bool) *GetBlockHeaderCmd {
	return &GetBlockHeaderCmd{
		Hash:    hash,
		Verbose: verbose,
	}
}

// GetBestBlockHashCmd defines the getBestBlockHash JSON-RPC command.
type GetBestBlockHashCmd struct{}

// GetFinalizedBlockHashCmd defines the getFinalizedBlockHash JSON-RPC command.
type GetFinalizedBlockHashCmd struct{}

// GetChainTipsCmd defines the getChainTips JSON-RPC command.
type GetChainTipsCmd struct{}

// GetBlockCountCmd defines the getBlockCount JSON-RPC command.
type GetBlockCountCmd struct{}

// DebugLevelCmd defines the debugLevel JSON-RPC command.
type DebugLevelCmd struct {
	LevelSpec string
}

// NewDebugLevelCmd returns a new DebugLevelCmd which can be used to issue a
// debugLevel JSON-RPC command.
func NewDebugLevelCmd(levelSpec string) *DebugLevelCmd {
	return &DebugLevelCmd{
		LevelSpec: levelSpec,
	}
}

// HelpCmd defines the help JSON-RPC command.
type HelpCmd struct {
	Command *string
}

// StopCmd defines the stop JSON-RPC command.
type StopCmd struct{}

// VersionCmd defines the version JSON-RPC command.
type VersionCmd struct{}

// parseString unmarshals the param at the given index as a string. A missing
// required parameter is an error.
func parseString(params []json.RawMessage, index int, name string) (string, error) {
	if index >= len(params) {
		return "", errors.Errorf("missing required parameter %s", name)
	}
	var value string
	err := json.Unmarshal(params[index], &value)
	if err != nil {
		return "", errors.Errorf("parameter %s must be a string", name)
	}
	return value, nil
}

// parseOptionalBool unmarshals the param at the given index as a bool, when
// present.
func parseOptionalBool(params []json.RawMessage, index int, name string) (*bool, error) {
	if index >= len(params) {
		return nil, nil
	}
	var value bool
	err := json.Unmarshal(params[index], &value)
	if err != nil {
		return nil, errors.Errorf("parameter %s must be a boolean", name)
	}
	return &value, nil
}

// parseOptionalString unmarshals the param at the given index as a string,
// when present.
func parseOptionalString(params []json.RawMessage, index int, name string) (*string, error) {
	if index >= len(params) {
		return nil, nil
	}
	var value string
	err := json.Unmarshal(params[index], &value)
	if err != nil {
		return nil, errors.Errorf("parameter %s must be a string", name)
	}
	return &value, nil
}

// checkNoParams returns an error when a parameterless command was invoked
// with parameters.
func checkNoParams(method string, params []json.RawMessage) error {
	if len(params) != 0 {
		return errors.Errorf("%s takes no parameters", method)
	}
	return nil
}

// UnmarshalCommand unmarshals the positional parameters of a JSON-RPC request
// into the typed command struct registered for the method. Unknown methods
// return ErrRPCMethodNotFound in an RPCError; malformed parameters return a
// plain error.
func UnmarshalCommand(request *Request) (interface{}, error) {
	params := request.Params
	switch request.Method {
	case "submitHeader":
		hexHeader, err := parseString(params, 0, "hexHeader")
		if err != nil {
			return nil, err
		}
		return NewSubmitHeaderCmd(hexHeader), nil

	case "submitBlock":
		hexBlock, err := parseString(params, 0, "hexBlock")
		if err != nil {
			return nil, err
		}
		return NewSubmitBlockCmd(hexBlock), nil

	case "finalizeBlock":
		hash, err := parseString(params, 0, "hash")
		if err != nil {
			return nil, err
		}
		return NewFinalizeBlockCmd(hash), nil

	case "invalidateBlock":
		hash, err := parseString(params, 0, "hash")
		if err != nil {
			return nil, err
		}
		return NewInvalidateBlockCmd(hash), nil

	case "reconsiderBlock":
		hash, err := parseString(params, 0, "hash")
		if err != nil {
			return nil, err
		}
		return NewReconsiderBlockCmd(hash), nil

	case "getBlockHeader":
		hash, err := parseString(params, 0, "hash")
		if err != nil {
			return nil, err
		}
		verbose, err := parseOptionalBool(params, 1, "verbose")
		if err != nil {
			return nil, err
		}
		return NewGetBlockHeaderCmd(hash, verbose), nil

	case "debugLevel":
		levelSpec, err := parseString(params, 0, "levelSpec")
		if err != nil {
			return nil, err
		}
		return NewDebugLevelCmd(levelSpec), nil

	case "help":
		command, err := parseOptionalString(params, 0, "command")
		if err != nil {
			return nil, err
		}
		return &HelpCmd{Command: command}, nil

	case "getBestBlockHash":
		return &GetBestBlockHashCmd{}, checkNoParams(request.Method, params)

	case "getFinalizedBlockHash":
		return &GetFinalizedBlockHashCmd{}, checkNoParams(request.Method, params)

	case "getChainTips":
		return &GetChainTipsCmd{}, checkNoParams(request.Method, params)

	case "getBlockCount":
		return &GetBlockCountCmd{}, checkNoParams(request.Method, params)

	case "stop":
		return &StopCmd{}, checkNoParams(request.Method, params)

	case "version":
		return &VersionCmd{}, checkNoParams(request.Method, params)
	}

	return nil, ErrRPCMethodNotFound
}
