// Package wire implements the control-message codec: HELLO and LSA
// messages are serialized as a tagged textual envelope; INTENT messages
// are a bare JSON object. Envelopes of an unknown type decode without
// error; the caller (daemon.dispatchProtocol) drops and logs them.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MsgType identifies the kind of control message carried by an Envelope.
type MsgType string

const (
	MsgHello  MsgType = "HELLO"
	MsgLSA    MsgType = "LSA"
	MsgIntent MsgType = "INTENT"
)

// Envelope is the outer `{"type": ..., "payload": ...}` wire record for
// the protocol endpoint (HELLO, LSA). The control endpoint (INTENT)
// carries no envelope, per spec.md §6.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HelloPayload is the HELLO message payload: `{"from": <NodeId>}`.
type HelloPayload struct {
	From string `json:"from"`
}

// LinkEntry is the tagged union spec.md Design Notes §9 calls for: a
// link is either a PeerLink (a live adjacency) or a StubLink (an
// announced, non-traversable local network). Discriminated by the
// "stub" field at parse time.
type LinkEntry struct {
	Stub bool `json:"stub"`

	// PeerLink fields (Stub == false)
	Cost      int  `json:"cost"`
	Latency   int  `json:"latency"`
	Bandwidth int  `json:"bandwidth"`
	Up        bool `json:"up"`

	// StubLink fields (Stub == true); Cost is shared with PeerLink.
	Prefix string `json:"prefix,omitempty"`
}

// LSAPayload is the full LSA object carried (as a JSON string) inside an
// Envelope's payload field: `{"origin","links","seq"}`.
type LSAPayload struct {
	Origin string               `json:"origin"`
	Links  map[string]LinkEntry `json:"links"`
	Seq    uint64               `json:"seq"`
}

// IntentMessage is the control-channel INTENT message. It is not
// wrapped in an Envelope (spec.md §6): `{"type":"INTENT", "src":...}`.
type IntentMessage struct {
	Type         MsgType `json:"type"`
	Src          string  `json:"src"`
	Dst          string  `json:"dst"`
	MaxLatency   *int    `json:"max_latency,omitempty"`
	MinBandwidth *int    `json:"min_bandwidth,omitempty"`
}

// EncodeHello serializes a HELLO envelope.
func EncodeHello(from string) ([]byte, error) {
	return encodeEnvelope(MsgHello, HelloPayload{From: from})
}

// EncodeLSA serializes an LSA envelope. The LSA object itself is
// embedded as a JSON string inside the payload field, per spec.md §6
// ("LSA payload: serialized LSA object ... as a string inside the
// envelope").
func EncodeLSA(lsa LSAPayload) ([]byte, error) {
	inner, err := json.Marshal(lsa)
	if err != nil {
		return nil, err
	}
	return encodeEnvelope(MsgLSA, string(inner))
}

func encodeEnvelope(t MsgType, payload any) ([]byte, error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: t, Payload: rawPayload})
}

// EncodeIntent serializes an INTENT control-channel message (no envelope).
func EncodeIntent(msg IntentMessage) ([]byte, error) {
	msg.Type = MsgIntent
	return json.Marshal(msg)
}

var ErrUnknownType = errors.New("wire: unknown or malformed envelope")

// DecodeEnvelope parses the outer envelope and returns its type and raw
// payload. Malformed datagrams are reported as ErrUnknownType so the
// caller can drop-and-log per spec.md §7.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrUnknownType, err)
	}
	return env, nil
}

// DecodeHello parses a HELLO payload.
func DecodeHello(raw json.RawMessage) (HelloPayload, error) {
	var p HelloPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

// DecodeLSA parses an LSA payload, which is itself a JSON string
// containing the LSA object.
func DecodeLSA(raw json.RawMessage) (LSAPayload, error) {
	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return LSAPayload{}, err
	}
	var lsa LSAPayload
	if err := json.Unmarshal([]byte(inner), &lsa); err != nil {
		return LSAPayload{}, err
	}
	return lsa, nil
}

// DecodeIntent parses an INTENT control-channel message.
func DecodeIntent(data []byte) (IntentMessage, error) {
	var msg IntentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return IntentMessage{}, err
	}
	if msg.Type != MsgIntent {
		return IntentMessage{}, ErrUnknownType
	}
	return msg, nil
}
