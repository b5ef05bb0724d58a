// Package transport exposes the chat gateway over HTTP. Counterparts
// connect through a websocket and exchange JSON envelopes; the gateway
// feeds inbound text to the dialogue engine and delivers outbound text
// and media on behalf of core.ChatTransport.
package transport
