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

package openai

import (
	"errors"
	"time"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

// StreamConfig carries the stable identifiers for one logical stream.
type StreamConfig struct {
	// ID identifies the completion. Defaults to "chatcmpl_<uuid>".
	ID string
	// Model is echoed on every chunk.
	Model string
	// Created stamps every chunk. Defaults to the construction time; this
	// is the only place wall-clock time enters the adapters.
	Created time.Time
}

// StreamState is the per-stream conversion context for the OpenAI adapter.
// It tracks the flat tool-call index assigned to each tool call id on
// first sight. One StreamState serves exactly one logical stream and is
// not safe for concurrent use.
type StreamState struct {
	id      string
	model   string
	created int64

	nextToolCallIndex int
	toolCallIndex     map[string]int
}

// NewStreamState creates a fresh conversion context with all accumulators
// at their zero value.
func NewStreamState(cfg StreamConfig) *StreamState {
	id := cfg.ID
	if id == "" {
		id = aiadapters.DefaultIDGenerator("chatcmpl")
	}
	created := cfg.Created
	if created.IsZero() {
		created = time.Now()
	}
	return &StreamState{
		id:            id,
		model:         cfg.Model,
		created:       created.Unix(),
		toolCallIndex: make(map[string]int),
	}
}

// ConvertResult is the outcome of converting one stream chunk. Exactly one
// branch applies: Chunk holds the vendor chunk to emit, Err reports a
// conversion failure, and both nil means the chunk produced no output.
type ConvertResult struct {
	Chunk *ChatCompletionChunk
	Err   error
}

// Skip reports whether the chunk produced no output.
func (r ConvertResult) Skip() bool {
	return r.Err == nil && r.Chunk == nil
}

func emit(chunk ChatCompletionChunk) ConvertResult {
	return ConvertResult{Chunk: &chunk}
}

func fail(err error) ConvertResult {
	return ConvertResult{Err: err}
}

// ConvertChunk converts one neutral stream chunk into at most one OpenAI
// chat completion chunk, mutating the state in place. Chunks must be fed
// in upstream order; results never panic and callers must branch on the
// result.
func (s *StreamState) ConvertChunk(chunk aiadapters.StreamChunk) ConvertResult {
	switch c := chunk.(type) {
	case aiadapters.TextStartChunk:
		// The role rides on the span-opening chunk, not on the envelope.
		return emit(s.chunk(Delta{Role: "assistant", Content: strptr("")}, nil, nil))

	case aiadapters.TextDeltaChunk:
		return emit(s.chunk(Delta{Content: strptr(c.Text)}, nil, nil))

	case aiadapters.ToolInputStartChunk:
		index := s.assignIndex(c.ID)
		return emit(s.chunk(Delta{
			ToolCalls: []ToolCallDelta{{
				Index:    index,
				ID:       c.ID,
				Type:     "function",
				Function: FunctionDelta{Name: c.ToolName},
			}},
		}, nil, nil))

	case aiadapters.ToolInputDeltaChunk:
		index, ok := s.toolCallIndex[c.ID]
		if !ok {
			return fail(&aiadapters.UnknownToolCallError{ID: c.ID})
		}
		return emit(s.chunk(Delta{
			ToolCalls: []ToolCallDelta{{
				Index:    index,
				Function: FunctionDelta{Arguments: c.Delta},
			}},
		}, nil, nil))

	case aiadapters.ToolCallChunk:
		index := s.assignIndex(c.ToolCallID)
		return emit(s.chunk(Delta{
			ToolCalls: []ToolCallDelta{{
				Index:    index,
				ID:       c.ToolCallID,
				Type:     "function",
				Function: FunctionDelta{Name: c.ToolName, Arguments: string(c.Input)},
			}},
		}, nil, nil))

	case aiadapters.FinishStepChunk:
		reason := mapFinishReason(c.FinishReason)
		return emit(s.chunk(Delta{}, &reason, chunkUsage(c.Usage)))

	case aiadapters.FinishChunk:
		reason := mapFinishReason(c.FinishReason)
		return emit(s.chunk(Delta{}, &reason, chunkUsage(c.TotalUsage)))

	case aiadapters.ErrorChunk:
		return fail(errors.New(aiadapters.ErrorMessage(c.Err)))

	case aiadapters.StartChunk, aiadapters.StartStepChunk, aiadapters.AbortChunk,
		aiadapters.TextEndChunk, aiadapters.ToolInputEndChunk,
		aiadapters.ReasoningStartChunk, aiadapters.ReasoningDeltaChunk, aiadapters.ReasoningEndChunk,
		aiadapters.ToolResultChunk, aiadapters.ToolErrorChunk,
		aiadapters.SourceChunk, aiadapters.FileChunk, aiadapters.RawChunk:
		return ConvertResult{}

	default:
		return fail(&aiadapters.UnsupportedChunkError{Type: chunk.ChunkType()})
	}
}

// chunk wraps a delta in the stream's fixed envelope.
func (s *StreamState) chunk(delta Delta, finishReason *string, usage *ChunkUsage) ChatCompletionChunk {
	return ChatCompletionChunk{
		ID:      s.id,
		Object:  "chat.completion.chunk",
		Created: s.created,
		Model:   s.model,
		Choices: []ChunkChoice{{
			Index:        0,
			Delta:        delta,
			FinishReason: finishReason,
		}},
		Usage: usage,
	}
}

// assignIndex returns the flat index for a tool call id, assigning the
// next free one on first sight.
func (s *StreamState) assignIndex(id string) int {
	if index, ok := s.toolCallIndex[id]; ok {
		return index
	}
	index := s.nextToolCallIndex
	s.nextToolCallIndex++
	s.toolCallIndex[id] = index
	return index
}

// chunkUsage builds the wire usage object from neutral usage counts.
// Missing counts default to zero and the total to the input+output sum.
func chunkUsage(usage aiadapters.Usage) *ChunkUsage {
	out := &ChunkUsage{}
	if usage.InputTokens != nil {
		out.PromptTokens = *usage.InputTokens
	}
	if usage.OutputTokens != nil {
		out.CompletionTokens = *usage.OutputTokens
	}
	if usage.TotalTokens != nil {
		out.TotalTokens = *usage.TotalTokens
	} else {
		out.TotalTokens = out.PromptTokens + out.CompletionTokens
	}
	return out
}

func strptr(s string) *string {
	return &s
}

// mapFinishReason maps a neutral finish reason to OpenAI's enumeration.
// Reasons outside the mapped set collapse to stop.
func mapFinishReason(reason aiadapters.FinishReason) string {
	switch reason {
	case aiadapters.FinishReasonStop:
		return FinishReasonStop
	case aiadapters.FinishReasonLength:
		return FinishReasonLength
	case aiadapters.FinishReasonContentFilter:
		return FinishReasonContentFilter
	case aiadapters.FinishReasonToolCalls:
		return FinishReasonToolCalls
	default:
		return FinishReasonStop
	}
}
