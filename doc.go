// Package moqt implements the wire-protocol codec for Media over QUIC
// Transport (MoQT, draft-07): the VarInt62 codec, wire-type combinators, the
// control-message framer and parser, the object/datagram framer and
// data-stream parser, and the subscriber/publisher priority ordering
// function.
//
// This package contains no session, transport, or application logic; those
// concerns belong to the QUIC or WebTransport session that owns a Framer,
// ControlParser, or DataStreamParser instance.
package moqt
