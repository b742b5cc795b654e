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

import "encoding/json"

// ChunkType identifies one kind of stream chunk.
type ChunkType string

const (
	ChunkTypeStart           ChunkType = "start"
	ChunkTypeStartStep       ChunkType = "start-step"
	ChunkTypeTextStart       ChunkType = "text-start"
	ChunkTypeTextDelta       ChunkType = "text-delta"
	ChunkTypeTextEnd         ChunkType = "text-end"
	ChunkTypeReasoningStart  ChunkType = "reasoning-start"
	ChunkTypeReasoningDelta  ChunkType = "reasoning-delta"
	ChunkTypeReasoningEnd    ChunkType = "reasoning-end"
	ChunkTypeToolInputStart  ChunkType = "tool-input-start"
	ChunkTypeToolInputDelta  ChunkType = "tool-input-delta"
	ChunkTypeToolInputEnd    ChunkType = "tool-input-end"
	ChunkTypeToolCall        ChunkType = "tool-call"
	ChunkTypeToolResult      ChunkType = "tool-result"
	ChunkTypeToolError       ChunkType = "tool-error"
	ChunkTypeFinishStep      ChunkType = "finish-step"
	ChunkTypeFinish          ChunkType = "finish"
	ChunkTypeAbort           ChunkType = "abort"
	ChunkTypeError           ChunkType = "error"
	ChunkTypeSource          ChunkType = "source"
	ChunkTypeFile            ChunkType = "file"
	ChunkTypeRaw             ChunkType = "raw"
)

// StreamChunk is one unit of generation progress in the neutral vocabulary.
// It is a closed union: every variant lives in this package, and the vendor
// adapters dispatch on the concrete type. Chunks are immutable; an upstream
// generation engine produces them and an adapter consumes each one exactly
// once.
type StreamChunk interface {
	ChunkType() ChunkType
	isStreamChunk()
}

// StartChunk signals the beginning of a stream.
type StartChunk struct{}

func (StartChunk) ChunkType() ChunkType { return ChunkTypeStart }
func (StartChunk) isStreamChunk()       {}

// StartStepChunk marks an internal step boundary. Adapters ignore it.
type StartStepChunk struct {
	Warnings []string
}

func (StartStepChunk) ChunkType() ChunkType { return ChunkTypeStartStep }
func (StartStepChunk) isStreamChunk()       {}

// TextStartChunk opens a text span identified by ID.
type TextStartChunk struct {
	ID string
}

func (TextStartChunk) ChunkType() ChunkType { return ChunkTypeTextStart }
func (TextStartChunk) isStreamChunk()       {}

// TextDeltaChunk carries a fragment of text for an open span.
type TextDeltaChunk struct {
	ID   string
	Text string
}

func (TextDeltaChunk) ChunkType() ChunkType { return ChunkTypeTextDelta }
func (TextDeltaChunk) isStreamChunk()       {}

// TextEndChunk closes a text span.
type TextEndChunk struct {
	ID string
}

func (TextEndChunk) ChunkType() ChunkType { return ChunkTypeTextEnd }
func (TextEndChunk) isStreamChunk()       {}

// ReasoningStartChunk opens a reasoning ("thinking") span.
type ReasoningStartChunk struct {
	ID string
}

func (ReasoningStartChunk) ChunkType() ChunkType { return ChunkTypeReasoningStart }
func (ReasoningStartChunk) isStreamChunk()       {}

// ReasoningDeltaChunk carries a fragment of reasoning text.
type ReasoningDeltaChunk struct {
	ID   string
	Text string
}

func (ReasoningDeltaChunk) ChunkType() ChunkType { return ChunkTypeReasoningDelta }
func (ReasoningDeltaChunk) isStreamChunk()       {}

// ReasoningEndChunk closes a reasoning span.
type ReasoningEndChunk struct {
	ID string
}

func (ReasoningEndChunk) ChunkType() ChunkType { return ChunkTypeReasoningEnd }
func (ReasoningEndChunk) isStreamChunk()       {}

// ToolInputStartChunk opens a streaming tool call. The ID is chosen by the
// upstream engine and must be unique among currently open tool calls.
type ToolInputStartChunk struct {
	ID       string
	ToolName string
}

func (ToolInputStartChunk) ChunkType() ChunkType { return ChunkTypeToolInputStart }
func (ToolInputStartChunk) isStreamChunk()       {}

// ToolInputDeltaChunk carries a raw partial-JSON fragment of a tool call's
// arguments. Fragments are forwarded verbatim; they need not be valid JSON
// on their own.
type ToolInputDeltaChunk struct {
	ID    string
	Delta string
}

func (ToolInputDeltaChunk) ChunkType() ChunkType { return ChunkTypeToolInputDelta }
func (ToolInputDeltaChunk) isStreamChunk()       {}

// ToolInputEndChunk closes a streaming tool call.
type ToolInputEndChunk struct {
	ID string
}

func (ToolInputEndChunk) ChunkType() ChunkType { return ChunkTypeToolInputEnd }
func (ToolInputEndChunk) isStreamChunk()       {}

// ToolCallChunk is a complete, non-streamed tool call arriving as one unit,
// with its input already serialized as JSON.
type ToolCallChunk struct {
	ToolCallID string
	ToolName   string
	Input      json.RawMessage
}

func (ToolCallChunk) ChunkType() ChunkType { return ChunkTypeToolCall }
func (ToolCallChunk) isStreamChunk()       {}

// ToolResultChunk reports the result of an executed tool call. It is never
// part of the model's own output stream, so adapters skip it.
type ToolResultChunk struct {
	ToolCallID string
	ToolName   string
	Input      json.RawMessage
	Output     json.RawMessage
}

func (ToolResultChunk) ChunkType() ChunkType { return ChunkTypeToolResult }
func (ToolResultChunk) isStreamChunk()       {}

// ToolErrorChunk reports a failed tool execution. Adapters skip it.
type ToolErrorChunk struct {
	ToolCallID string
	ToolName   string
	Input      json.RawMessage
	Err        any
}

func (ToolErrorChunk) ChunkType() ChunkType { return ChunkTypeToolError }
func (ToolErrorChunk) isStreamChunk()       {}

// FinishStepChunk ends an internal step and carries partial usage counters.
type FinishStepChunk struct {
	Usage        Usage
	FinishReason FinishReason
}

func (FinishStepChunk) ChunkType() ChunkType { return ChunkTypeFinishStep }
func (FinishStepChunk) isStreamChunk()       {}

// FinishChunk ends the stream with the final finish reason and total usage.
type FinishChunk struct {
	FinishReason FinishReason
	TotalUsage   Usage
}

func (FinishChunk) ChunkType() ChunkType { return ChunkTypeFinish }
func (FinishChunk) isStreamChunk()       {}

// AbortChunk signals that the stream was aborted upstream.
type AbortChunk struct{}

func (AbortChunk) ChunkType() ChunkType { return ChunkTypeAbort }
func (AbortChunk) isStreamChunk()       {}

// ErrorChunk carries a terminal error. Err may be any value; adapters
// extract a message with ErrorMessage.
type ErrorChunk struct {
	Err any
}

func (ErrorChunk) ChunkType() ChunkType { return ChunkTypeError }
func (ErrorChunk) isStreamChunk()       {}

// SourceChunk references an external source document. No vendor stream has
// an equivalent, so adapters skip it.
type SourceChunk struct {
	ID    string
	URL   string
	Title string
}

func (SourceChunk) ChunkType() ChunkType { return ChunkTypeSource }
func (SourceChunk) isStreamChunk()       {}

// FileChunk carries generated file data. Adapters skip it.
type FileChunk struct {
	MediaType string
	Data      []byte
}

func (FileChunk) ChunkType() ChunkType { return ChunkTypeFile }
func (FileChunk) isStreamChunk()       {}

// RawChunk is an inert pass-through payload from the upstream engine.
type RawChunk struct {
	Value any
}

func (RawChunk) ChunkType() ChunkType { return ChunkTypeRaw }
func (RawChunk) isStreamChunk()       {}

// FinishReason describes why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool-calls"
	FinishReasonContentFilter FinishReason = "content-filter"
	FinishReasonError         FinishReason = "error"
	FinishReasonOther         FinishReason = "other"
	FinishReasonUnknown       FinishReason = "unknown"
)

// Usage holds token counts for a step or a whole stream. Fields are
// pointers so that "not reported" is distinguishable from zero; adapters
// only overwrite their running counters from fields that are set.
type Usage struct {
	InputTokens  *int
	OutputTokens *int
	TotalTokens  *int
}

// Int returns a pointer to v, for building Usage values.
func Int(v int) *int {
	return &v
}
