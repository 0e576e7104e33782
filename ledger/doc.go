// Package ledger implements an append-only, hash-linked ledger kept in memory.
//
// # Core Components
//
// Blockchain: An ordered log of blocks starting from a fixed genesis block.
// Blocks are only ever added at the end.
//
// Block: A sealed record holding an index, a timestamp, an opaque payload,
// the hash of the previous block and its own hash.
//
// Scheme: The digest algorithm and payload encoding a chain is sealed with.
//
// # Fingerprints
//
// A block hash is the hex digest of the concatenation of
//
//	decimal index | previous hash | RFC 3339 UTC timestamp | canonical payload
//
// with the payload encoded by the canon package. SHA-256 with canonical JSON
// is the default.
//
// # Security Properties
//
// The blockchain provides:
//   - Tamper detection: editing any field of a block breaks its own hash
//   - Link detection: resealing an edited block breaks the next block's link
//   - Auditability: Verify reports the first failing position and why
//
// # Usage
//
// Create a blockchain, build blocks with NewBlock and Append them. IsValid or
// Verify can be called at any time to check that the chain is intact.
// Blocks are values: editing one means deriving a copy with a With* method
// and, optionally, resealing it with Reseal.
package ledger
