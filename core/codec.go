package core

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
)

// Codec serializes events to and from the opaque frames exchanged with
// the broker. Decode(Encode(e)) must round-trip every payload the codec
// can represent, including nested containers and nil. Codecs are
// stateless and reentrant. Both ends of a namespace must use the same
// codec; this is an operational requirement, not enforced at runtime.
type Codec interface {
	Encode(e Event) ([]byte, error)
	Decode(frame []byte) (Event, error)
}

// envelope is the wire shape shared by the built-in codecs.
type envelope struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// JSONCodec is the default codec. Payloads round-trip through JSON's
// value model: maps keyed by string, slices, strings, float64 numbers,
// booleans and nil. It is the interoperable choice when the peer
// process is not written in Go.
type JSONCodec struct{}

func (JSONCodec) Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(envelope{Name: e.Name, Payload: e.Payload})
	if err != nil {
		return nil, &CodecError{Err: err}
	}
	return data, nil
}

func (JSONCodec) Decode(frame []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return Event{}, &CodecError{Err: err}
	}
	return Event{Name: env.Name, Payload: env.Payload}, nil
}

// GobCodec round-trips arbitrary Go values, preserving concrete types
// across processes that share type definitions. Payload types carried
// inside interfaces must be registered with gob.Register on both ends.
type GobCodec struct{}

func (GobCodec) Encode(e Event) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope{Name: e.Name, Payload: e.Payload}); err != nil {
		return nil, &CodecError{Err: err}
	}
	return buf.Bytes(), nil
}

func (GobCodec) Decode(frame []byte) (Event, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(frame)).Decode(&env); err != nil {
		return Event{}, &CodecError{Err: err}
	}
	return Event{Name: env.Name, Payload: env.Payload}, nil
}
