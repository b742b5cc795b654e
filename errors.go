// Licensed to Alexandre VILAIN under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Alexandre VILAIN licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package aiadapters

import "fmt"

// UnknownToolCallError reports a tool-input delta or end chunk that
// references a tool call id never opened in the same stream. The adapter
// leaves its conversion state untouched for the offending call.
type UnknownToolCallError struct {
	ID string
}

func (e *UnknownToolCallError) Error() string {
	return fmt.Sprintf("Unknown tool call id: %s", e.ID)
}

// UnsupportedChunkError reports a chunk kind an adapter has no handling
// for. The chunk vocabulary is closed, so this only fires if a new kind is
// added without updating every adapter.
type UnsupportedChunkError struct {
	Type ChunkType
}

func (e *UnsupportedChunkError) Error() string {
	return fmt.Sprintf("unsupported stream chunk type: %s", e.Type)
}

// ErrorMessage extracts a human-readable message from an error-chunk
// payload: an error value yields its Error() string, anything else its
// default string form.
func ErrorMessage(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", v)
}
