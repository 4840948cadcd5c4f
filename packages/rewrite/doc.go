// Package rewrite turns a captured send-message request into an edit of an
// existing message.
//
// The single semantic move lives here: the body's nonce, normally a
// client-side dedup token for a fresh message, is replaced with the id of an
// existing message, which makes the service treat the POST as an edit of that
// message instead of a creation. The rewritten request is materialized twice:
// as a fetch snippet for a browser console and as a payload for direct
// dispatch.
package rewrite
