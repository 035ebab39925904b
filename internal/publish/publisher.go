// Package publish holds the artifact hand-off contracts the pipeline uses
// at the documentation-transfer and packaging stages. The pipeline depends
// only on the interfaces, so the transfer mechanism and archive format can
// change independently; all it needs back is success or failure.
package publish

import "context"

// Publisher transfers a local file or directory tree to a remote
// destination descriptor (host:path for the rsync implementation).
type Publisher interface {
	Publish(ctx context.Context, localPath, remote string) error
}

// Archiver bundles one or more names under a base directory into a single
// archive file. Entries are stored relative to baseDir, matching what the
// unpacking side expects.
type Archiver interface {
	Archive(ctx context.Context, baseDir string, names []string, dest string) error
}
