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
	"encoding/json"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

func testStreamState() *StreamState {
	return NewStreamState(StreamConfig{
		ID:      "chatcmpl_test",
		Model:   "gpt-4o",
		Created: time.Unix(1700000000, 0),
	})
}

func TestStreamState_TextStream(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := testStreamState()

	result := state.ConvertChunk(aiadapters.TextStartChunk{ID: "t1"})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk).NotTo(BeNil())
	g.Expect(result.Chunk.ID).To(Equal("chatcmpl_test"))
	g.Expect(result.Chunk.Object).To(Equal("chat.completion.chunk"))
	g.Expect(result.Chunk.Created).To(Equal(int64(1700000000)))
	g.Expect(result.Chunk.Model).To(Equal("gpt-4o"))
	g.Expect(result.Chunk.Choices).To(HaveLen(1))
	g.Expect(result.Chunk.Choices[0].Delta.Role).To(Equal("assistant"))
	g.Expect(*result.Chunk.Choices[0].Delta.Content).To(Equal(""))
	g.Expect(result.Chunk.Choices[0].FinishReason).To(BeNil())

	result = state.ConvertChunk(aiadapters.TextDeltaChunk{ID: "t1", Text: "Hello"})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.Role).To(BeEmpty())
	g.Expect(*result.Chunk.Choices[0].Delta.Content).To(Equal("Hello"))

	result = state.ConvertChunk(aiadapters.TextEndChunk{ID: "t1"})
	g.Expect(result.Skip()).To(BeTrue())
}

func TestStreamState_ToolCallIndexStability(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := testStreamState()

	result := state.ConvertChunk(aiadapters.ToolInputStartChunk{ID: "call_1", ToolName: "get_weather"})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls).To(Equal([]ToolCallDelta{{
		Index:    0,
		ID:       "call_1",
		Type:     "function",
		Function: FunctionDelta{Name: "get_weather"},
	}}))

	// Continuation chunks carry only the index and the argument fragment.
	result = state.ConvertChunk(aiadapters.ToolInputDeltaChunk{ID: "call_1", Delta: `{"location"`})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls).To(Equal([]ToolCallDelta{{
		Index:    0,
		Function: FunctionDelta{Arguments: `{"location"`},
	}}))

	result = state.ConvertChunk(aiadapters.ToolInputDeltaChunk{ID: "call_1", Delta: `:"SF"}`})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls).To(Equal([]ToolCallDelta{{
		Index:    0,
		Function: FunctionDelta{Arguments: `:"SF"}`},
	}}))

	// A second id takes the next free index.
	result = state.ConvertChunk(aiadapters.ToolInputStartChunk{ID: "call_2", ToolName: "search"})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls[0].Index).To(Equal(1))

	result = state.ConvertChunk(aiadapters.ToolCallChunk{ToolCallID: "call_3", ToolName: "calculate", Input: json.RawMessage("{}")})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls[0].Index).To(Equal(2))
}

func TestStreamState_CompleteToolCall(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := testStreamState()

	result := state.ConvertChunk(aiadapters.ToolCallChunk{
		ToolCallID: "call_1",
		ToolName:   "search",
		Input:      json.RawMessage(`{"query":"test"}`),
	})

	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls).To(Equal([]ToolCallDelta{{
		Index:    0,
		ID:       "call_1",
		Type:     "function",
		Function: FunctionDelta{Name: "search", Arguments: `{"query":"test"}`},
	}}))
}

func TestStreamState_UnknownToolCallID(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := testStreamState()
	state.ConvertChunk(aiadapters.ToolInputStartChunk{ID: "call_1", ToolName: "get_weather"})

	result := state.ConvertChunk(aiadapters.ToolInputDeltaChunk{ID: "call_missing", Delta: "{}"})
	g.Expect(result.Chunk).To(BeNil())
	g.Expect(result.Err).To(MatchError("Unknown tool call id: call_missing"))

	// The failing call must not consume an index.
	result = state.ConvertChunk(aiadapters.ToolInputStartChunk{ID: "call_2", ToolName: "search"})
	g.Expect(result.Err).NotTo(HaveOccurred())
	g.Expect(result.Chunk.Choices[0].Delta.ToolCalls[0].Index).To(Equal(1))
}

func TestStreamState_Finish(t *testing.T) {
	tests := map[string]struct {
		chunk          aiadapters.StreamChunk
		expectedReason string
		expectedUsage  ChunkUsage
	}{
		"finish with full usage": {
			chunk: aiadapters.FinishChunk{
				FinishReason: aiadapters.FinishReasonStop,
				TotalUsage: aiadapters.Usage{
					InputTokens:  aiadapters.Int(10),
					OutputTokens: aiadapters.Int(5),
					TotalTokens:  aiadapters.Int(15),
				},
			},
			expectedReason: FinishReasonStop,
			expectedUsage:  ChunkUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
		"missing counts default to zero and total to the sum": {
			chunk: aiadapters.FinishChunk{
				FinishReason: aiadapters.FinishReasonToolCalls,
				TotalUsage: aiadapters.Usage{
					OutputTokens: aiadapters.Int(8),
				},
			},
			expectedReason: FinishReasonToolCalls,
			expectedUsage:  ChunkUsage{PromptTokens: 0, CompletionTokens: 8, TotalTokens: 8},
		},
		"finish step carries its own reason and usage": {
			chunk: aiadapters.FinishStepChunk{
				FinishReason: aiadapters.FinishReasonLength,
				Usage: aiadapters.Usage{
					InputTokens:  aiadapters.Int(3),
					OutputTokens: aiadapters.Int(4),
				},
			},
			expectedReason: FinishReasonLength,
			expectedUsage:  ChunkUsage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7},
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			state := testStreamState()
			result := state.ConvertChunk(test.chunk)

			g.Expect(result.Err).NotTo(HaveOccurred())
			g.Expect(result.Chunk.Choices[0].Delta).To(Equal(Delta{}))
			g.Expect(result.Chunk.Choices[0].FinishReason).To(HaveValue(Equal(test.expectedReason)))
			g.Expect(result.Chunk.Usage).To(HaveValue(Equal(test.expectedUsage)))
		})
	}
}

func TestStreamState_SkippedChunks(t *testing.T) {
	tests := map[string]aiadapters.StreamChunk{
		"start":           aiadapters.StartChunk{},
		"start-step":      aiadapters.StartStepChunk{},
		"reasoning-start": aiadapters.ReasoningStartChunk{ID: "r1"},
		"reasoning-delta": aiadapters.ReasoningDeltaChunk{ID: "r1", Text: "thinking"},
		"reasoning-end":   aiadapters.ReasoningEndChunk{ID: "r1"},
		"tool-input-end":  aiadapters.ToolInputEndChunk{ID: "call_1"},
		"tool-result":     aiadapters.ToolResultChunk{ToolCallID: "call_1"},
		"abort":           aiadapters.AbortChunk{},
		"raw":             aiadapters.RawChunk{Value: "anything"},
	}

	for name, chunk := range tests {
		chunk := chunk
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			state := testStreamState()
			g.Expect(state.ConvertChunk(chunk).Skip()).To(BeTrue())
		})
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := map[aiadapters.FinishReason]string{
		aiadapters.FinishReasonStop:          FinishReasonStop,
		aiadapters.FinishReasonLength:        FinishReasonLength,
		aiadapters.FinishReasonToolCalls:     FinishReasonToolCalls,
		aiadapters.FinishReasonContentFilter: FinishReasonContentFilter,
		aiadapters.FinishReasonError:         FinishReasonStop,
		aiadapters.FinishReasonOther:         FinishReasonStop,
		aiadapters.FinishReasonUnknown:       FinishReasonStop,
	}

	for reason, expected := range tests {
		reason := reason
		expected := expected
		t.Run(string(reason), func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(mapFinishReason(reason)).To(Equal(expected))
		})
	}
}
