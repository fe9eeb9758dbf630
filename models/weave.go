package models

// Weave protocol response codes. A 400 response carries one of these numeric
// codes as its entire body so that Sync clients can distinguish rejection
// reasons.
//
// The values are fixed by the Mozilla Sync 1.1 API and must not be renumbered.
const (
	// WeaveErrorUserExists: account creation for an already-registered hash.
	WeaveErrorUserExists = 4

	// WeaveErrorJSONParse: the request body could not be parsed as JSON.
	WeaveErrorJSONParse = 6

	// WeaveErrorMissingPassword: account creation without a password field.
	WeaveErrorMissingPassword = 7

	// WeaveErrorNoEmail: account creation without an email field, or no
	// identity could be mapped to the supplied email.
	WeaveErrorNoEmail = 12

	// WeaveErrorOverQuota: a write would push the account over its quota.
	WeaveErrorOverQuota = 14
)

// HTTP headers defined by the Weave protocol.
const (
	// HeaderTimestamp carries the server time (or the modification time of
	// the affected resource) on every response.
	HeaderTimestamp = "X-Weave-Timestamp"

	// HeaderRecords carries the number of records returned by a collection GET.
	HeaderRecords = "X-Weave-Records"

	// HeaderConfirmDelete must be present (any value) on a full-storage
	// DELETE for it to proceed.
	HeaderConfirmDelete = "X-Confirm-Delete"
)
