// Package dirwalk seeds a playlist by walking a music directory laid out
// as <root>/<artist>/<title>.mp3, with a deterministic but non-alphabetical
// insertion order so a freshly-populated station doesn't play strictly
// alphabetically.
package dirwalk

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

var supportedExt = map[string]bool{
	".mp3": true,
}

// Scan walks root (one level of artist directories, one level of track
// files within each) and returns SongMetadata in the order they should be
// queued.
//
// Placement alternates between the front and back of the list using
// i%11%7%5%3%2, the same arithmetic the directory scanner this package is
// modeled on uses to avoid a strictly alphabetical playback order without
// pulling in a real shuffle.
func Scan(root string) ([]track.SongMetadata, error) {
	artists, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var deque []track.SongMetadata
	i := 0
	for _, artistEntry := range artists {
		if !artistEntry.IsDir() {
			continue
		}
		artist := artistEntry.Name()
		artistPath := filepath.Join(root, artist)

		files, err := os.ReadDir(artistPath)
		if err != nil {
			slog.Warn("dirwalk: could not read artist directory", "path", artistPath, "error", err)
			continue
		}

		for _, fileEntry := range files {
			if fileEntry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(fileEntry.Name()))
			if !supportedExt[ext] {
				continue
			}

			path := filepath.Join(artistPath, fileEntry.Name())
			title := strings.TrimSuffix(fileEntry.Name(), filepath.Ext(fileEntry.Name()))
			meta := track.SongMetadata{Title: title, Artist: artist}
			meta = enrichWithTags(path, meta)

			if placeAtBack(i) {
				deque = append(deque, meta)
			} else {
				deque = append([]track.SongMetadata{meta}, deque...)
			}
			i++
		}
	}
	return deque, nil
}

func placeAtBack(i int) bool {
	return (((i%11)%7)%5)%3%2 == 0
}

// enrichWithTags overlays title/artist from the file's own ID3/tag data
// when present, falling back to the directory/filename-derived values.
func enrichWithTags(path string, meta track.SongMetadata) track.SongMetadata {
	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return meta
	}
	if title := m.Title(); title != "" {
		meta.Title = title
	}
	if artist := m.Artist(); artist != "" {
		meta.Artist = artist
	}
	return meta
}
