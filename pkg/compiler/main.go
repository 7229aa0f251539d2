// Package compiler translates Locomotive BASIC (CPC dialect) into JavaScript.
//
// Pipeline: BASIC source → Lex → Parse → Generate → JavaScript function body
//
// The generated code is the body of an async function receiving the runtime
// object _o. Subroutines ending in RETURN become functions, and functions
// that can suspend are declared async and awaited by their callers.
package compiler
