// Package expr implements the calculator language evaluated by the
// command line, the workbench and the HTTP service.
//
// A line is either an expression or an assignment:
//
//	x = (1/3 + 2^-4) * 7
//	x * 3 >= 2
//	dump(0x100000000 ^ 3)
//
// Integer literals are decimal or 0x hexadecimal. Division builds exact
// fractions. The names zero, one, nan and undefined denote the special
// values, and ans holds the last numeric result. Relations evaluate to
// booleans and cannot be used as operands.
package expr
