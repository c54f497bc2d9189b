// Package blobstore provides the destinations generated kernel artifacts are
// written to.
//
// Store is the interface for writing and reading named artifacts (kernel
// sources, headers, the generation manifest). Implementations must be safe
// for concurrent use: the generator uploads degrees in parallel.
//
// # Built-in Implementations
//
//   - LocalStore: a directory on the local filesystem
//   - MemoryStore: in-memory, for tests and dry runs
//   - CompressingStore: zstd-compresses artifacts written to another Store
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error          // Atomic write
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
