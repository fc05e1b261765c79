// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcmodel_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/emberchain/emberd/rpcmodel"
)

// TestUnmarshalCommand ensures requests for each supported method unmarshal
// into the expected typed command.
func TestUnmarshalCommand(t *testing.T) {
	boolTrue := true
	helpTopic := "getChainTips"

	tests := []struct {
		name     string
		method   string
		params   []interface{}
		expected interface{}
	}{
		{
			name:     "submitHeader",
			method:   "submitHeader",
			params:   []interface{}{"00112233"},
			expected: rpcmodel.NewSubmitHeaderCmd("00112233"),
		},
		{
			name:     "submitBlock",
			method:   "submitBlock",
			params:   []interface{}{"00112233"},
			expected: rpcmodel.NewSubmitBlockCmd("00112233"),
		},
		{
			name:     "finalizeBlock",
			method:   "finalizeBlock",
			params:   []interface{}{"123"},
			expected: rpcmodel.NewFinalizeBlockCmd("123"),
		},
		{
			name:     "invalidateBlock",
			method:   "invalidateBlock",
			params:   []interface{}{"123"},
			expected: rpcmodel.NewInvalidateBlockCmd("123"),
		},
		{
			name:     "reconsiderBlock",
			method:   "reconsiderBlock",
			params:   []interface{}{"123"},
			expected: rpcmodel.NewReconsiderBlockCmd("123"),
		},
		{
			name:     "getBlockHeader",
			method:   "getBlockHeader",
			params:   []interface{}{"123", true},
			expected: rpcmodel.NewGetBlockHeaderCmd("123", &boolTrue),
		},
		{
			name:     "getBlockHeader optional omitted",
			method:   "getBlockHeader",
			params:   []interface{}{"123"},
			expected: rpcmodel.NewGetBlockHeaderCmd("123", nil),
		},
		{
			name:     "getBestBlockHash",
			method:   "getBestBlockHash",
			params:   []interface{}{},
			expected: &rpcmodel.GetBestBlockHashCmd{},
		},
		{
			name:     "getFinalizedBlockHash",
			method:   "getFinalizedBlockHash",
			params:   []interface{}{},
			expected: &rpcmodel.GetFinalizedBlockHashCmd{},
		},
		{
			name:     "getChainTips",
			method:   "getChainTips",
			params:   []interface{}{},
			expected: &rpcmodel.GetChainTipsCmd{},
		},
		{
			name:     "getBlockCount",
			method:   "getBlockCount",
			params:   []interface{}{},
			expected: &rpcmodel.GetBlockCountCmd{},
		},
		{
			name:     "debugLevel",
			method:   "debugLevel",
			params:   []interface{}{"trace"},
			expected: rpcmodel.NewDebugLevelCmd("trace"),
		},
		{
			name:     "help with topic",
			method:   "help",
			params:   []interface{}{helpTopic},
			expected: &rpcmodel.HelpCmd{Command: &helpTopic},
		},
		{
			name:     "stop",
			method:   "stop",
			params:   []interface{}{},
			expected: &rpcmodel.StopCmd{},
		},
		{
			name:     "version",
			method:   "version",
			params:   []interface{}{},
			expected: &rpcmodel.VersionCmd{},
		},
	}

	for _, test := range tests {
		request, err := rpcmodel.NewRequest(1, test.method, test.params)
		if err != nil {
			t.Errorf("%s: NewRequest error: %s", test.name, err)
			continue
		}
		cmd, err := rpcmodel.UnmarshalCommand(request)
		if err != nil {
			t.Errorf("%s: UnmarshalCommand error: %s", test.name, err)
			continue
		}
		if !reflect.DeepEqual(cmd, test.expected) {
			t.Errorf("%s: unexpected command - got %+v, want %+v",
				test.name, cmd, test.expected)
		}
	}
}

// TestUnmarshalCommandErrors ensures malformed requests are rejected.
func TestUnmarshalCommandErrors(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		rawParams []string
		wantRPC   bool
	}{
		{
			name:    "unknown method",
			method:  "bogusMethod",
			wantRPC: true,
		},
		{
			name:   "missing required param",
			method: "finalizeBlock",
		},
		{
			name:      "wrong param type",
			method:    "submitBlock",
			rawParams: []string{"42"},
		},
		{
			name:      "params on parameterless command",
			method:    "getChainTips",
			rawParams: []string{`"extra"`},
		},
	}

	for _, test := range tests {
		params := make([]json.RawMessage, 0, len(test.rawParams))
		for _, p := range test.rawParams {
			params = append(params, json.RawMessage(p))
		}
		request := &rpcmodel.Request{
			JSONRPC: "1.0",
			Method:  test.method,
			Params:  params,
			ID:      1,
		}

		_, err := rpcmodel.UnmarshalCommand(request)
		if err == nil {
			t.Errorf("%s: expected an error", test.name)
			continue
		}
		_, isRPCError := err.(*rpcmodel.RPCError)
		if isRPCError != test.wantRPC {
			t.Errorf("%s: wrong error kind - got %T", test.name, err)
		}
	}
}
