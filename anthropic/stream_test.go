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

package anthropic

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

var errTest = errors.New("boom")

func collectEvents(t *testing.T, state *StreamState, chunks []aiadapters.StreamChunk) []StreamEvent {
	t.Helper()
	g := NewWithT(t)

	var events []StreamEvent
	for _, chunk := range chunks {
		result := state.ConvertChunk(chunk)
		g.Expect(result.Err).NotTo(HaveOccurred())
		events = append(events, result.Events...)
	}
	return events
}

func TestStreamState_TextOnlyStream(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := NewStreamState(StreamConfig{MessageID: "msg_test", Model: "claude-sonnet-4-5"})

	events := collectEvents(t, state, []aiadapters.StreamChunk{
		aiadapters.StartChunk{},
		aiadapters.StartStepChunk{},
		aiadapters.TextStartChunk{ID: "t1"},
		aiadapters.TextDeltaChunk{ID: "t1", Text: "Hello"},
		aiadapters.TextDeltaChunk{ID: "t1", Text: ", "},
		aiadapters.TextDeltaChunk{ID: "t1", Text: "world!"},
		aiadapters.TextEndChunk{ID: "t1"},
		aiadapters.FinishStepChunk{Usage: aiadapters.Usage{
			InputTokens:  aiadapters.Int(10),
			OutputTokens: aiadapters.Int(5),
			TotalTokens:  aiadapters.Int(15),
		}},
		aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonStop, TotalUsage: aiadapters.Usage{
			InputTokens:  aiadapters.Int(10),
			OutputTokens: aiadapters.Int(5),
			TotalTokens:  aiadapters.Int(15),
		}},
	})

	g.Expect(events).To(Equal([]StreamEvent{
		newMessageStartEvent("msg_test", "claude-sonnet-4-5"),
		newTextBlockStart(0),
		newTextDelta(0, "Hello"),
		newTextDelta(0, ", "),
		newTextDelta(0, "world!"),
		newContentBlockStop(0),
		newMessageDeltaEvent(StopReasonEndTurn, MessageUsage{InputTokens: 10, OutputTokens: 5}),
		newMessageStopEvent(),
	}))
}

func TestStreamState_EnvelopeOpensExactlyOnce(t *testing.T) {
	tests := map[string][]aiadapters.StreamChunk{
		"start then text": {
			aiadapters.StartChunk{},
			aiadapters.TextStartChunk{ID: "t1"},
			aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonStop},
		},
		"text opens the envelope": {
			aiadapters.TextStartChunk{ID: "t1"},
			aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonStop},
		},
		"reasoning opens the envelope": {
			aiadapters.ReasoningStartChunk{ID: "r1"},
			aiadapters.ReasoningEndChunk{ID: "r1"},
			aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonStop},
		},
		"tool input opens the envelope": {
			aiadapters.ToolInputStartChunk{ID: "call_1", ToolName: "get_weather"},
			aiadapters.ToolInputEndChunk{ID: "call_1"},
			aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonToolCalls},
		},
		"complete tool call opens the envelope": {
			aiadapters.ToolCallChunk{ToolCallID: "call_1", ToolName: "get_weather", Input: json.RawMessage(`{"city":"NYC"}`)},
			aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonToolCalls},
		},
		"finish alone opens the envelope": {
			aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonStop},
		},
	}

	for name, chunks := range tests {
		chunks := chunks
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			state := NewStreamState(StreamConfig{Model: "claude-sonnet-4-5"})
			events := collectEvents(t, state, chunks)

			starts := 0
			for i, event := range events {
				if event.StreamEventType() == EventTypeMessageStart {
					starts++
					g.Expect(i).To(Equal(0), "message_start must come first")
				}
			}
			g.Expect(starts).To(Equal(1))
		})
	}
}

func TestStreamState_GaplessBlockIndices(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := NewStreamState(StreamConfig{Model: "claude-sonnet-4-5"})

	events := collectEvents(t, state, []aiadapters.StreamChunk{
		aiadapters.ReasoningStartChunk{ID: "r1"},
		aiadapters.ReasoningDeltaChunk{ID: "r1", Text: "thinking..."},
		aiadapters.ReasoningEndChunk{ID: "r1"},
		aiadapters.TextStartChunk{ID: "t1"},
		aiadapters.TextDeltaChunk{ID: "t1", Text: "Checking the weather."},
		aiadapters.TextEndChunk{ID: "t1"},
		aiadapters.ToolInputStartChunk{ID: "call_1", ToolName: "get_weather"},
		aiadapters.ToolInputDeltaChunk{ID: "call_1", Delta: `{"city":"NYC"}`},
		aiadapters.ToolInputEndChunk{ID: "call_1"},
		aiadapters.ToolCallChunk{ToolCallID: "call_2", ToolName: "search", Input: json.RawMessage(`{"q":"x"}`)},
	})

	var order []int
	seen := map[int]bool{}
	for _, event := range events {
		var index int
		switch e := event.(type) {
		case ContentBlockStartEvent:
			index = e.Index
		default:
			continue
		}
		g.Expect(seen[index]).To(BeFalse(), "index %d reused", index)
		seen[index] = true
		order = append(order, index)
	}

	g.Expect(order).To(Equal([]int{0, 1, 2, 3}))
}

func TestStreamState_CompleteToolCall(t *testing.T) {
	tests := map[string]struct {
		input    json.RawMessage
		expected string
	}{
		"object input": {
			input:    json.RawMessage(`{"query":"test"}`),
			expected: `{"query":"test"}`,
		},
		"empty input becomes empty object": {
			input:    nil,
			expected: "{}",
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			state := NewStreamState(StreamConfig{MessageID: "msg_test", Model: "claude-sonnet-4-5"})

			result := state.ConvertChunk(aiadapters.ToolCallChunk{
				ToolCallID: "call_1",
				ToolName:   "search",
				Input:      test.input,
			})

			g.Expect(result.Err).NotTo(HaveOccurred())
			g.Expect(result.Events).To(Equal([]StreamEvent{
				newMessageStartEvent("msg_test", "claude-sonnet-4-5"),
				newToolUseBlockStart(0, "call_1", "search"),
				newInputJSONDelta(0, test.expected),
				newContentBlockStop(0),
			}))
		})
	}
}

func TestStreamState_UnknownToolCallID(t *testing.T) {
	tests := map[string]aiadapters.StreamChunk{
		"delta for unknown id": aiadapters.ToolInputDeltaChunk{ID: "call_missing", Delta: `{"x":1}`},
		"end for unknown id":   aiadapters.ToolInputEndChunk{ID: "call_missing"},
	}

	for name, chunk := range tests {
		chunk := chunk
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			state := NewStreamState(StreamConfig{MessageID: "msg_test", Model: "claude-sonnet-4-5"})
			collectEvents(t, state, []aiadapters.StreamChunk{
				aiadapters.ToolInputStartChunk{ID: "call_1", ToolName: "get_weather"},
			})

			result := state.ConvertChunk(chunk)

			g.Expect(result.Events).To(BeEmpty())
			g.Expect(result.Err).To(MatchError("Unknown tool call id: call_missing"))

			// The failing call must not have mutated anything: the open
			// tool call still streams at its original index.
			next := state.ConvertChunk(aiadapters.ToolInputDeltaChunk{ID: "call_1", Delta: "{}"})
			g.Expect(next.Err).NotTo(HaveOccurred())
			g.Expect(next.Events).To(Equal([]StreamEvent{newInputJSONDelta(0, "{}")}))
		})
	}
}

func TestStreamState_UpstreamError(t *testing.T) {
	tests := map[string]struct {
		err      any
		expected string
	}{
		"error value":     {err: errTest, expected: "boom"},
		"arbitrary value": {err: 42, expected: "42"},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			state := NewStreamState(StreamConfig{})
			result := state.ConvertChunk(aiadapters.ErrorChunk{Err: test.err})

			g.Expect(result.Events).To(BeEmpty())
			g.Expect(result.Err).To(MatchError(test.expected))
		})
	}
}

func TestMapStopReason(t *testing.T) {
	tests := map[aiadapters.FinishReason]StopReason{
		aiadapters.FinishReasonStop:          StopReasonEndTurn,
		aiadapters.FinishReasonLength:        StopReasonMaxTokens,
		aiadapters.FinishReasonToolCalls:     StopReasonToolUse,
		aiadapters.FinishReasonContentFilter: StopReasonRefusal,
		aiadapters.FinishReasonError:         StopReasonEndTurn,
		aiadapters.FinishReasonOther:         StopReasonEndTurn,
		aiadapters.FinishReasonUnknown:       StopReasonEndTurn,
	}

	for reason, expected := range tests {
		reason := reason
		expected := expected
		t.Run(string(reason), func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(mapStopReason(reason)).To(Equal(expected))
		})
	}
}

func TestStreamState_UsageFallsBackToRunningCounters(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := NewStreamState(StreamConfig{MessageID: "msg_test"})

	collectEvents(t, state, []aiadapters.StreamChunk{
		aiadapters.FinishStepChunk{Usage: aiadapters.Usage{
			InputTokens:  aiadapters.Int(12),
			OutputTokens: aiadapters.Int(7),
		}},
	})

	result := state.ConvertChunk(aiadapters.FinishChunk{FinishReason: aiadapters.FinishReasonStop})
	g.Expect(result.Err).NotTo(HaveOccurred())

	var delta MessageDeltaEvent
	for _, event := range result.Events {
		if e, ok := event.(MessageDeltaEvent); ok {
			delta = e
		}
	}
	g.Expect(delta.Usage).To(Equal(MessageUsage{InputTokens: 12, OutputTokens: 7}))
}
