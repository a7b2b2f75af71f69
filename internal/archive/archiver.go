// Package archive stores raw webhook payloads for forensic comparison
// against the signature manifests logged on verification failures.
package archive

import "context"

// Archiver persists one raw notification payload under the given key.
type Archiver interface {
	Archive(ctx context.Context, key string, payload []byte) error
}

// noopArchiver is used when archiving is disabled.
type noopArchiver struct{}

// NewNoopArchiver creates an archiver that discards every payload.
func NewNoopArchiver() Archiver {
	return noopArchiver{}
}

func (noopArchiver) Archive(ctx context.Context, key string, payload []byte) error {
	return nil
}
