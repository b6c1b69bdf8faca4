// Copyright 2024 The tinychain Authors
// This file is part of the tinychain library.
//
// The tinychain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tinychain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tinychain library. If not, see <http://www.gnu.org/licenses/>.

package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLengthPrefixedRoundTrip(t *testing.T) {
	req := &Request{
		Method: Method_BLOCKS,
		Body:   &Request_BlocksReq{BlocksReq: &BlocksReq{FromNumber: 42}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLengthPrefixed(&buf, req))

	var got Request
	require.NoError(t, ReadLengthPrefixed(&buf, &got, 0))
	require.Equal(t, Method_BLOCKS, got.Method)
	require.EqualValues(t, 42, got.GetBlocksReq().FromNumber)
}

func TestReadLengthPrefixedEnforcesSizeCap(t *testing.T) {
	resp := &Response{
		Method: Method_HEIGHT,
		Body:   &Response_BlockHeightResp{BlockHeightResp: &BlockHeightResp{BlockHeight: 7}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLengthPrefixed(&buf, resp))

	var got Response
	require.Error(t, ReadLengthPrefixed(&buf, &got, 1))
}

func TestReadLengthPrefixedTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	req := &Request{Method: Method_HEIGHT, Body: &Request_BlockHeightReq{BlockHeightReq: &BlockHeightReq{}}}
	require.NoError(t, WriteLengthPrefixed(&buf, req))

	truncated := buf.Bytes()[:buf.Len()-1]
	var got Request
	require.Error(t, ReadLengthPrefixed(bytes.NewReader(truncated), &got, 0))
}
