// Package capture parses a "Copy as fetch" snippet for the messages endpoint
// into a structured request record.
//
// A snippet is only recognized when it targets
// <scheme>://<host>/api/v<N>/channels/<id>/messages, carries a parseable
// headers object and an escaped JSON body, and the body contains a nonce.
// Anything else yields an error, never a partial record.
package capture
