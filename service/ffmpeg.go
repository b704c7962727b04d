package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"os/exec"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FFmpeg runs the ffmpeg/ffprobe binaries found on the host. It
// implements Transcoder.
type FFmpeg struct{}

const (
	// Frame grabbed one second in so we skip black lead-ins
	thumbOffset = "00:00:01"
	toolTimeout = 5 * time.Minute
)

// Probe returns the width and height of the first video stream of the
// file at p
func (FFmpeg) Probe(ctx context.Context, p string) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	zap.L().Debug("Running FFprobe to determine video dimensions")

	cmd := exec.CommandContext(ctx, viper.GetString("ffmpeg.probe_path"),
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		"-i", p,
	)

	var stdOut, stdErr bytes.Buffer
	cmd.Stdout = &stdOut
	cmd.Stderr = &stdErr

	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("ffprobe failed, %w (%s)", err, stdErr.String())
	}

	dims := strings.TrimSpace(stdOut.String())
	if dims == "" {
		return 0, 0, errors.New("no video stream found")
	}

	// Some containers report a trailing line per extra disposition,
	// only the first stream matters
	if i := strings.IndexByte(dims, '\n'); i >= 0 {
		dims = dims[:i]
	}

	w, h, ok := strings.Cut(dims, "x")
	if !ok {
		return 0, 0, fmt.Errorf("malformed dimensions %q", dims)
	}

	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed width: %w", err)
	}

	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed height: %w", err)
	}

	return width, height, nil
}

// ExtractThumbnail grabs a single frame into the out path
func (FFmpeg) ExtractThumbnail(ctx context.Context, in, out string) error {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	return runFFmpeg(ctx,
		"-ss", thumbOffset,
		"-i", in,
		"-frames:v", "1",
		"-loglevel", "error",
		"-y", out,
	)
}

// Transcode re-encodes in to the target height. Width follows the
// aspect ratio, rounded to an even number as the encoder requires.
func (FFmpeg) Transcode(ctx context.Context, in, out string, height int) error {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	return runFFmpeg(ctx,
		"-i", in,
		"-vf", fmt.Sprintf("scale=-2:%d", height),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "28",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-loglevel", "error",
		"-y", out,
	)
}

func runFFmpeg(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, viper.GetString("ffmpeg.path"), args...)

	zap.L().Debug("Running FFmpeg command", zap.String("cmd", cmd.String()))

	stderrBuf := &bytes.Buffer{}
	cmd.Stderr = stderrBuf

	if err := cmd.Run(); err != nil {
		zap.L().Error("FFmpeg failed", zap.Error(err), zap.String("stderr", stderrBuf.String()))
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	return nil
}
