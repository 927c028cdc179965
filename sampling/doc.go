// Package sampling builds independent Merkle trees over related datasets,
// samples one key across all of them and hands the sampled values to an
// attestation program.
package sampling
