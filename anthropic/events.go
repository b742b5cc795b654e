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

import "encoding/json"

// StreamEventType represents an Anthropic Messages stream event type.
type StreamEventType string

const (
	EventTypeMessageStart      StreamEventType = "message_start"
	EventTypeContentBlockStart StreamEventType = "content_block_start"
	EventTypeContentBlockDelta StreamEventType = "content_block_delta"
	EventTypeContentBlockStop  StreamEventType = "content_block_stop"
	EventTypeMessageDelta      StreamEventType = "message_delta"
	EventTypeMessageStop       StreamEventType = "message_stop"
)

// StreamEvent is the interface all Anthropic stream events implement.
type StreamEvent interface {
	StreamEventType() StreamEventType
}

// StopReason indicates why the model stopped generating, in Anthropic's
// enumeration.
type StopReason string

const (
	StopReasonEndTurn   StopReason = "end_turn"
	StopReasonMaxTokens StopReason = "max_tokens"
	StopReasonToolUse   StopReason = "tool_use"
	StopReasonRefusal   StopReason = "refusal"
)

// MessageUsage carries token counts on the message envelope.
type MessageUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessageStart describes the message envelope opened by a message_start
// event. Content is empty at this point; stop reason and stop sequence stay
// null until the message_delta event.
type MessageStart struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"` // always "message"
	Role         string       `json:"role"` // always "assistant"
	Model        string       `json:"model"`
	Content      []any        `json:"content"`
	StopReason   any          `json:"stop_reason"`
	StopSequence any          `json:"stop_sequence"`
	Usage        MessageUsage `json:"usage"`
}

// ContentBlock is the union of block payloads a content_block_start event
// can open: "text", "thinking", or "tool_use". Pointer fields let the
// "empty but present" wire shape round-trip (e.g. text:"" on a fresh text
// block).
type ContentBlock struct {
	Type string `json:"type"`

	// text blocks
	Text *string `json:"text,omitempty"`

	// thinking blocks
	Thinking  *string `json:"thinking,omitempty"`
	Signature *string `json:"signature,omitempty"`

	// tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// Delta is the union of content_block_delta payloads.
type Delta struct {
	Type string `json:"type"` // "text_delta" | "thinking_delta" | "input_json_delta"

	Text        *string `json:"text,omitempty"`
	Thinking    *string `json:"thinking,omitempty"`
	PartialJSON *string `json:"partial_json,omitempty"`
}

// MessageDelta carries message-level changes: the stop reason and a null
// stop sequence.
type MessageDelta struct {
	StopReason   StopReason `json:"stop_reason"`
	StopSequence any        `json:"stop_sequence"`
}

// MessageStartEvent opens the message envelope.
type MessageStartEvent struct {
	Type    StreamEventType `json:"type"`
	Message MessageStart    `json:"message"`
}

func (e MessageStartEvent) StreamEventType() StreamEventType { return e.Type }

// ContentBlockStartEvent opens a content block at an index.
type ContentBlockStartEvent struct {
	Type         StreamEventType `json:"type"`
	Index        int             `json:"index"`
	ContentBlock ContentBlock    `json:"content_block"`
}

func (e ContentBlockStartEvent) StreamEventType() StreamEventType { return e.Type }

// ContentBlockDeltaEvent carries incremental content for an open block.
type ContentBlockDeltaEvent struct {
	Type  StreamEventType `json:"type"`
	Index int             `json:"index"`
	Delta Delta           `json:"delta"`
}

func (e ContentBlockDeltaEvent) StreamEventType() StreamEventType { return e.Type }

// ContentBlockStopEvent closes a content block.
type ContentBlockStopEvent struct {
	Type  StreamEventType `json:"type"`
	Index int             `json:"index"`
}

func (e ContentBlockStopEvent) StreamEventType() StreamEventType { return e.Type }

// MessageDeltaEvent reports the stop reason and final usage.
type MessageDeltaEvent struct {
	Type  StreamEventType `json:"type"`
	Delta MessageDelta    `json:"delta"`
	Usage MessageUsage    `json:"usage"`
}

func (e MessageDeltaEvent) StreamEventType() StreamEventType { return e.Type }

// MessageStopEvent closes the message envelope.
type MessageStopEvent struct {
	Type StreamEventType `json:"type"`
}

func (e MessageStopEvent) StreamEventType() StreamEventType { return e.Type }

func strptr(s string) *string {
	return &s
}

func newMessageStartEvent(id, model string) MessageStartEvent {
	return MessageStartEvent{
		Type: EventTypeMessageStart,
		Message: MessageStart{
			ID:      id,
			Type:    "message",
			Role:    "assistant",
			Model:   model,
			Content: []any{},
		},
	}
}

func newTextBlockStart(index int) ContentBlockStartEvent {
	return ContentBlockStartEvent{
		Type:  EventTypeContentBlockStart,
		Index: index,
		ContentBlock: ContentBlock{
			Type: "text",
			Text: strptr(""),
		},
	}
}

func newThinkingBlockStart(index int) ContentBlockStartEvent {
	return ContentBlockStartEvent{
		Type:  EventTypeContentBlockStart,
		Index: index,
		ContentBlock: ContentBlock{
			Type:      "thinking",
			Thinking:  strptr(""),
			Signature: strptr(""),
		},
	}
}

func newToolUseBlockStart(index int, id, name string) ContentBlockStartEvent {
	return ContentBlockStartEvent{
		Type:  EventTypeContentBlockStart,
		Index: index,
		ContentBlock: ContentBlock{
			Type:  "tool_use",
			ID:    id,
			Name:  name,
			Input: json.RawMessage("{}"),
		},
	}
}

func newTextDelta(index int, text string) ContentBlockDeltaEvent {
	return ContentBlockDeltaEvent{
		Type:  EventTypeContentBlockDelta,
		Index: index,
		Delta: Delta{Type: "text_delta", Text: strptr(text)},
	}
}

func newThinkingDelta(index int, thinking string) ContentBlockDeltaEvent {
	return ContentBlockDeltaEvent{
		Type:  EventTypeContentBlockDelta,
		Index: index,
		Delta: Delta{Type: "thinking_delta", Thinking: strptr(thinking)},
	}
}

func newInputJSONDelta(index int, partial string) ContentBlockDeltaEvent {
	return ContentBlockDeltaEvent{
		Type:  EventTypeContentBlockDelta,
		Index: index,
		Delta: Delta{Type: "input_json_delta", PartialJSON: strptr(partial)},
	}
}

func newContentBlockStop(index int) ContentBlockStopEvent {
	return ContentBlockStopEvent{Type: EventTypeContentBlockStop, Index: index}
}

func newMessageDeltaEvent(stopReason StopReason, usage MessageUsage) MessageDeltaEvent {
	return MessageDeltaEvent{
		Type:  EventTypeMessageDelta,
		Delta: MessageDelta{StopReason: stopReason},
		Usage: usage,
	}
}

func newMessageStopEvent() MessageStopEvent {
	return MessageStopEvent{Type: EventTypeMessageStop}
}
