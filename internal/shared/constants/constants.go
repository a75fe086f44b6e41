package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultFetchTimeout bounds the single page GET an audit starts from.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultMaxRedirects caps how many redirects the fetcher follows before
	// reporting a fetch failure.
	DefaultMaxRedirects = 10
	// MaxBodyBytes caps how much of a response body the fetcher reads.
	MaxBodyBytes = 10 << 20
	// RawCaptureLimitBytes caps how many bytes of fetched HTML we keep as a
	// raw capture next to saved results.
	RawCaptureLimitBytes = 4096
)

// DefaultUserAgent is sent on every fetch so pages serve the same markup a
// desktop browser would receive.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	// DefaultBatchWorkers is the worker-pool size for batch audits.
	DefaultBatchWorkers = 3
	// DefaultBatchRateLimit is the global requests-per-second ceiling for
	// batch audits.
	DefaultBatchRateLimit = 5
)
