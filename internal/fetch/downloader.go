package fetch

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// DownloaderGetter resolves tracks by shelling out to yt-dlp. If Fs is
// set, yt-dlp's output is transcoded to MP3 with ffmpeg and written
// through to disk so later requests hit FsGetter instead; if not,
// yt-dlp's stdout is captured directly into memory, untranscoded.
type DownloaderGetter struct {
	YtdlpPath  string
	FfmpegPath string
	Fs         *FsGetter
}

// NewDownloaderGetter returns a DownloaderGetter using the given yt-dlp
// and ffmpeg executables, writing through to fs if non-nil.
func NewDownloaderGetter(ytdlpPath, ffmpegPath string, fs *FsGetter) *DownloaderGetter {
	return &DownloaderGetter{YtdlpPath: ytdlpPath, FfmpegPath: ffmpegPath, Fs: fs}
}

// CanGet reports whether meta carries a source hint (a video URL) to
// download.
func (d *DownloaderGetter) CanGet(meta track.SongMetadata) bool {
	return meta.SourceHint != ""
}

// Get downloads meta's source. With Fs set, the download is transcoded to
// MP3 and opened from disk; without it, yt-dlp's output is returned as-is.
func (d *DownloaderGetter) Get(ctx context.Context, meta track.SongMetadata) (io.ReadCloser, error) {
	if d.Fs != nil {
		return d.getViaFs(ctx, meta)
	}
	return d.getBuffered(ctx, meta)
}

func (d *DownloaderGetter) getViaFs(ctx context.Context, meta track.SongMetadata) (io.ReadCloser, error) {
	finalPath := d.Fs.path(meta)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return nil, &Error{Kind: KindIO, Err: err}
	}
	dlPath := strings.TrimSuffix(finalPath, filepath.Ext(finalPath)) + ".dl"

	if err := runCmd(ctx, d.YtdlpPath, meta.SourceHint, "-f", "bestaudio", "-o", dlPath); err != nil {
		return nil, &Error{Kind: KindDownload, Err: err}
	}
	defer os.Remove(dlPath)

	if err := runCmd(ctx, d.FfmpegPath, "-y", "-i", dlPath, finalPath); err != nil {
		return nil, &Error{Kind: KindTranscode, Err: err}
	}
	return d.Fs.Get(ctx, meta)
}

func (d *DownloaderGetter) getBuffered(ctx context.Context, meta track.SongMetadata) (io.ReadCloser, error) {
	dl := exec.CommandContext(ctx, d.YtdlpPath, meta.SourceHint, "-f", "bestaudio", "-o", "-")
	dlOut, err := dl.StdoutPipe()
	if err != nil {
		return nil, &Error{Kind: KindDownload, Err: err}
	}
	drainStderr(dl, "yt-dlp")
	if err := dl.Start(); err != nil {
		return nil, &Error{Kind: KindDownload, Err: err}
	}

	data, err := io.ReadAll(dlOut)
	if err != nil {
		return nil, &Error{Kind: KindDownload, Err: err}
	}
	if err := dl.Wait(); err != nil {
		return nil, &Error{Kind: KindDownload, Err: err}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// runCmd runs name with args to completion, draining its stderr to the log
// as it goes rather than buffering it all for a failure message.
func runCmd(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	drainStderr(cmd, name)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Wait()
}

// drainStderr wires cmd's stderr through a background goroutine so the
// subprocess never blocks on a full pipe while we're only interested in
// stdout or exit status.
func drainStderr(cmd *exec.Cmd, label string) {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return
	}
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			slog.Debug("subprocess output", "cmd", label, "line", scanner.Text())
		}
	}()
}
