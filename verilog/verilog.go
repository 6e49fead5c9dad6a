// Package verilog implements a Verilog-HDL writer for bnet.Network:
// write-only, since the library's Verilog surface is a supplemented
// feature (the interchange formats proper are blif/iscas89/aiger) with
// no corresponding original reader to ground one on.
//
// Grounded on VerilogWriter.{h,cc}.
package verilog
