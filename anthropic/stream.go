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
	"errors"

	aiadapters "github.com/alexandrevilain/tanstack-ai-adapters-go"
)

// StreamConfig carries the stable identifiers for one logical stream.
type StreamConfig struct {
	// MessageID identifies the message envelope. Defaults to "msg_<uuid>".
	MessageID string
	// Model is echoed on the message_start event.
	Model string
}

// StreamState is the per-stream conversion context for the Anthropic
// adapter. It tracks the running content-block index, whether the message
// envelope has been opened, and the block index plus accumulated raw JSON
// for every streaming tool call. One StreamState serves exactly one
// logical stream and is not safe for concurrent use.
type StreamState struct {
	messageID string
	model     string

	messageStarted    bool
	contentBlockIndex int

	toolCallBlockIndex map[string]int
	toolCallJSON       map[string]string

	inputTokens  int
	outputTokens int
}

// NewStreamState creates a fresh conversion context with all accumulators
// at their zero value.
func NewStreamState(cfg StreamConfig) *StreamState {
	id := cfg.MessageID
	if id == "" {
		id = aiadapters.DefaultIDGenerator("msg")
	}
	return &StreamState{
		messageID:          id,
		model:              cfg.Model,
		toolCallBlockIndex: make(map[string]int),
		toolCallJSON:       make(map[string]string),
	}
}

// ConvertResult is the outcome of converting one stream chunk. Exactly one
// branch applies: Events holds vendor events to emit, Err reports a
// conversion failure, and both empty means the chunk produced no output.
type ConvertResult struct {
	Events []StreamEvent
	Err    error
}

// Skip reports whether the chunk produced no output.
func (r ConvertResult) Skip() bool {
	return r.Err == nil && len(r.Events) == 0
}

func emit(events ...StreamEvent) ConvertResult {
	return ConvertResult{Events: events}
}

func fail(err error) ConvertResult {
	return ConvertResult{Err: err}
}

// ConvertChunk converts one neutral stream chunk into zero or more
// Anthropic stream events, mutating the state in place. Chunks must be fed
// in upstream order; results never panic and callers must branch on the
// result.
func (s *StreamState) ConvertChunk(chunk aiadapters.StreamChunk) ConvertResult {
	switch c := chunk.(type) {
	case aiadapters.StartChunk:
		if s.messageStarted {
			return ConvertResult{}
		}
		return emit(s.openEnvelope()...)

	case aiadapters.TextStartChunk:
		events := s.openEnvelope()
		events = append(events, newTextBlockStart(s.contentBlockIndex))
		return emit(events...)

	case aiadapters.TextDeltaChunk:
		return emit(newTextDelta(s.contentBlockIndex, c.Text))

	case aiadapters.TextEndChunk:
		event := newContentBlockStop(s.contentBlockIndex)
		s.contentBlockIndex++
		return emit(event)

	case aiadapters.ReasoningStartChunk:
		events := s.openEnvelope()
		events = append(events, newThinkingBlockStart(s.contentBlockIndex))
		return emit(events...)

	case aiadapters.ReasoningDeltaChunk:
		return emit(newThinkingDelta(s.contentBlockIndex, c.Text))

	case aiadapters.ReasoningEndChunk:
		event := newContentBlockStop(s.contentBlockIndex)
		s.contentBlockIndex++
		return emit(event)

	case aiadapters.ToolInputStartChunk:
		events := s.openEnvelope()
		s.toolCallBlockIndex[c.ID] = s.contentBlockIndex
		s.toolCallJSON[c.ID] = ""
		events = append(events, newToolUseBlockStart(s.contentBlockIndex, c.ID, c.ToolName))
		return emit(events...)

	case aiadapters.ToolInputDeltaChunk:
		index, ok := s.toolCallBlockIndex[c.ID]
		if !ok {
			return fail(&aiadapters.UnknownToolCallError{ID: c.ID})
		}
		s.toolCallJSON[c.ID] += c.Delta
		return emit(newInputJSONDelta(index, c.Delta))

	case aiadapters.ToolInputEndChunk:
		index, ok := s.toolCallBlockIndex[c.ID]
		if !ok {
			return fail(&aiadapters.UnknownToolCallError{ID: c.ID})
		}
		s.contentBlockIndex++
		return emit(newContentBlockStop(index))

	case aiadapters.ToolCallChunk:
		// A complete call arriving as one unit becomes the full
		// start/delta/stop triple at a freshly allocated index.
		events := s.openEnvelope()
		index := s.contentBlockIndex
		s.contentBlockIndex++
		input := string(c.Input)
		if input == "" {
			input = "{}"
		}
		events = append(events,
			newToolUseBlockStart(index, c.ToolCallID, c.ToolName),
			newInputJSONDelta(index, input),
			newContentBlockStop(index),
		)
		return emit(events...)

	case aiadapters.ToolResultChunk, aiadapters.ToolErrorChunk:
		return ConvertResult{}

	case aiadapters.FinishStepChunk:
		s.recordUsage(c.Usage)
		return ConvertResult{}

	case aiadapters.FinishChunk:
		events := s.openEnvelope()
		usage := MessageUsage{
			InputTokens:  s.inputTokens,
			OutputTokens: s.outputTokens,
		}
		if c.TotalUsage.InputTokens != nil {
			usage.InputTokens = *c.TotalUsage.InputTokens
		}
		if c.TotalUsage.OutputTokens != nil {
			usage.OutputTokens = *c.TotalUsage.OutputTokens
		}
		events = append(events,
			newMessageDeltaEvent(mapStopReason(c.FinishReason), usage),
			newMessageStopEvent(),
		)
		return emit(events...)

	case aiadapters.ErrorChunk:
		return fail(errors.New(aiadapters.ErrorMessage(c.Err)))

	case aiadapters.StartStepChunk, aiadapters.AbortChunk,
		aiadapters.SourceChunk, aiadapters.FileChunk, aiadapters.RawChunk:
		return ConvertResult{}

	default:
		return fail(&aiadapters.UnsupportedChunkError{Type: chunk.ChunkType()})
	}
}

// openEnvelope returns the message_start event on the first call and nil
// afterwards, so the envelope opens exactly once per stream.
func (s *StreamState) openEnvelope() []StreamEvent {
	if s.messageStarted {
		return nil
	}
	s.messageStarted = true
	return []StreamEvent{newMessageStartEvent(s.messageID, s.model)}
}

// recordUsage folds step usage into the running counters, touching only
// the fields the step reported.
func (s *StreamState) recordUsage(usage aiadapters.Usage) {
	if usage.InputTokens != nil {
		s.inputTokens = *usage.InputTokens
	}
	if usage.OutputTokens != nil {
		s.outputTokens = *usage.OutputTokens
	}
}

// mapStopReason maps a neutral finish reason to Anthropic's stop-reason
// enumeration. Reasons outside the mapped set collapse to end_turn.
func mapStopReason(reason aiadapters.FinishReason) StopReason {
	switch reason {
	case aiadapters.FinishReasonStop:
		return StopReasonEndTurn
	case aiadapters.FinishReasonLength:
		return StopReasonMaxTokens
	case aiadapters.FinishReasonToolCalls:
		return StopReasonToolUse
	case aiadapters.FinishReasonContentFilter:
		return StopReasonRefusal
	default:
		return StopReasonEndTurn
	}
}
