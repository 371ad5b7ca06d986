/*
Package hecalc is an interactive calculator over homomorphically encrypted integers.
It encrypts every input independently with the BFV scheme, folds the ciphertexts under an
arithmetic operation without decrypting any intermediate value, and finally decrypts and
displays the result.

The homomorphic primitives are provided by the lattigo library. The packages of this module
are layered as follows, leaves first: params, helib, session, reduce, report, cli and config.
The command is in cmd/hecalc.
*/
package hecalc
