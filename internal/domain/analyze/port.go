package analyze

import "context"

// UploadStore persists raw upload bytes and returns the stored location.
type UploadStore interface {
	Save(ctx context.Context, fileName string, data []byte) (string, error)
}

// TextExtractor pulls the full text out of a stored document.
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// ObjectMirror copies a stored upload to remote object storage.
type ObjectMirror interface {
	Mirror(ctx context.Context, localPath, key string) (string, error)
}
