/*
Package internal contains the batched level hasher used while rebuilding a
tree. It wraps gohashtree, which hashes many 64-byte sibling pairs in one
call using the vectorized SHA-256 routines available on the host.

This is an internal package s.t. its types can't be exposed to the publicly visible API.
see: https://dave.cheney.net/2019/10/06/use-internal-packages-to-reduce-your-public-api-surface
*/
package internal
