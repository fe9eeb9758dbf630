// Package models defines the data structures shared between the store,
// service, and HTTP layers of the Weave Sync server: Weave Basic Objects,
// Sync user records, and protocol-level response payloads.
package models

// WBO is a Weave Basic Object: a single record stored within a collection.
//
// All fields except ID are optional on input. Pointer fields distinguish
// "absent" from "zero": an upsert only touches the fields that were present
// in the client's JSON, and the JSON encoder omits nil fields entirely
// (the protocol never serializes null values).
type WBO struct {
	// ID is the client-chosen identifier, unique within its collection.
	ID string `json:"id"`

	// Modified is the server-assigned modification time in Weave format
	// (Unix seconds with two-decimal precision). On PUT input a client may
	// supply its own value which is then used verbatim.
	Modified *float64 `json:"modified,omitempty"`

	// SortIndex is an optional client-assigned ordering weight.
	SortIndex *int `json:"sortindex,omitempty"`

	// Payload is the opaque record body, typically JSON-encoded ciphertext.
	Payload *string `json:"payload,omitempty"`

	// TTL is the record's time-to-live in seconds, relative to Modified.
	// A record with TTL > 0 expires once Modified+TTL is in the past.
	TTL *int64 `json:"ttl,omitempty"`

	// ParentID is an optional reference to another record's ID.
	// It is stored verbatim and not enforced as a foreign key.
	ParentID *string `json:"parentid,omitempty"`

	// PredecessorID is an optional reference to the directly preceding
	// record's ID. Stored verbatim, not enforced as a foreign key.
	PredecessorID *string `json:"predecessorid,omitempty"`
}
