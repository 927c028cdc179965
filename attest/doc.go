/*
Package attest is the boundary to the zero-knowledge proof engine.

A Program is the journal circuit compiled to R1CS over BN254 together with
its groth16 proving and verifying keys. Proving takes a private Input
tuple and returns a Receipt whose journal is the concatenation of the
input characters. Verifying checks the groth16 proof against the journal
and the verifying key identified by the program ID, the SHA-256 of the
serialized verifying key.

Any error returned by Prove or Verify means the statement was not
established; callers must not retry with the same receipt.
*/
package attest
