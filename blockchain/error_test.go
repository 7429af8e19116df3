// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrNoTxInputs, "ErrNoTxInputs"},
		{ErrMissingTxOut, "ErrMissingTxOut"},
		{ErrBadTxInput, "ErrBadTxInput"},
		{ErrScriptValidation, "ErrScriptValidation"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	for i, test := range tests {
		require.Equal(t, test.want, test.in.String(), "test #%d", i)
	}
}

// TestRuleError tests the error output for the RuleError type.
func TestRuleError(t *testing.T) {
	t.Parallel()

	err := ruleError(ErrMissingTxOut, "output missing")
	require.Equal(t, "output missing", err.Error())
	require.Equal(t, ErrMissingTxOut, err.ErrorCode)
}
