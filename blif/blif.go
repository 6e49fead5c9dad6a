// Package blif implements the BLIF (Berkeley Logic Interchange Format)
// interchange surface for bnet.Network: a Writer that emits ".model"/
// ".inputs"/".outputs"/".latch"/".names" statements, and a Handler
// contract a caller-supplied tokenizer drives while reading (parsing
// BLIF's own token grammar is out of scope, §SPEC_FULL.md; only the
// callback contract and the deferred-fanin resolution it implies are
// built here).
//
// Grounded on BlifWriter.cc.
package blif

import "errors"

// ErrNotConvertible is returned by Write when net contains a dff or
// logic node BLIF cannot express: a Latch/Cell-kind dff, or a TvFunc/
// Bdd/Cell-kind logic node. write_blif (BlifWriter.cc) reports this by
// printing "Cannot convert to blif" and returning without writing
// anything; Write reports it the same way, as a Go error, before
// writing any output.
var ErrNotConvertible = errors.New("blif: network cannot be converted to blif")
