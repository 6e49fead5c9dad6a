// Package iscas89 implements the ISCAS-89 (.bench) interchange
// surface for bnet.Network: a Writer that emits "INPUT(...)"/
// "OUTPUT(...)"/gate-assignment statements, and a Handler callback
// contract a caller-supplied tokenizer drives while reading (the
// statement tokenizer itself is out of scope, §SPEC_FULL.md).
//
// Grounded on Iscas89Writer.cc and BnIscas89Handler.{h,cc}.
package iscas89

import "errors"

// ErrNotConvertible is returned by Write when net has a Latch/Cell-kind
// dff or a TvFunc/Bdd/Cell-kind logic node: ISCAS-89 can express only a
// plain D-FF (one clock, no clear/preset) and the ten fixed primitives,
// mirroring write_iscas89's early-reject check in Iscas89Writer.cc.
var ErrNotConvertible = errors.New("iscas89: network cannot be converted to iscas89")
