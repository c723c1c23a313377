package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// FsGetter resolves tracks already present on disk under Root, named
// "<artist>/<title>.<Ext>".
type FsGetter struct {
	Root string
	Ext  string
}

// NewFsGetter returns an FsGetter rooted at root for files with the given
// extension (without a leading dot).
func NewFsGetter(root, ext string) *FsGetter {
	return &FsGetter{Root: root, Ext: ext}
}

func (f *FsGetter) path(meta track.SongMetadata) string {
	return filepath.Join(f.Root, meta.Artist, meta.Title+"."+f.Ext)
}

// CanGet reports whether the track's file already exists.
func (f *FsGetter) CanGet(meta track.SongMetadata) bool {
	_, err := os.Stat(f.path(meta))
	return err == nil
}

// Get opens the track's file.
func (f *FsGetter) Get(_ context.Context, meta track.SongMetadata) (io.ReadCloser, error) {
	file, err := os.Open(f.path(meta))
	if err != nil {
		return nil, &Error{Kind: KindIO, Err: err}
	}
	return file, nil
}
