package video

import (
	"bytes"
	"image"
	"slices"
	"strings"
	"testing"

	"github.com/ivlev/shapeanim/internal/config"
)

func TestBuildFFmpegArgs(t *testing.T) {
	e := &FFmpegEncoder{}
	params := config.FrameParams{Width: 360, Height: 240, FPS: 24}

	tests := []struct {
		encoder string
		quality int
		want    []string
	}{
		{"libx264", 23, []string{"-crf", "23", "-preset", "medium"}},
		{"h264_nvenc", 28, []string{"-cq", "28"}},
		{"h264_videotoolbox", 75, []string{"-b:v", "7500k"}},
	}

	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			args := e.buildFFmpegArgs("out.mp4", params, tt.encoder, tt.quality)
			joined := strings.Join(args, " ")

			if !strings.Contains(joined, strings.Join(tt.want, " ")) {
				t.Errorf("expected %v in %q", tt.want, joined)
			}
			if !strings.Contains(joined, "-video_size 360x240") || !strings.Contains(joined, "-framerate 24") {
				t.Errorf("input geometry missing: %q", joined)
			}
			if args[len(args)-1] != "out.mp4" {
				t.Errorf("output path should come last, got %q", args[len(args)-1])
			}
			if slices.Contains(args, "-vf") {
				t.Errorf("even sizes need no padding: %q", joined)
			}
		})
	}

	odd := e.buildFFmpegArgs("out.mp4", config.FrameParams{Width: 101, Height: 50, FPS: 1}, "libx264", 23)
	if !slices.Contains(odd, "-vf") {
		t.Errorf("odd sizes should be padded: %v", odd)
	}
}

func TestWriteRawRGBA(t *testing.T) {
	e := &FFmpegEncoder{}

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Pix[0] = 7
	if err := e.writeRawRGBA(&buf, img, 4, 3); err != nil {
		t.Fatalf("writeRawRGBA failed: %v", err)
	}
	if buf.Len() != 4*3*4 || buf.Bytes()[0] != 7 {
		t.Errorf("unexpected payload of %d bytes", buf.Len())
	}

	// a sub-image is copied into a tightly packed buffer
	buf.Reset()
	sub := image.NewRGBA(image.Rect(0, 0, 8, 8)).SubImage(image.Rect(2, 2, 6, 5)).(*image.RGBA)
	if err := e.writeRawRGBA(&buf, sub, 4, 3); err != nil {
		t.Fatalf("writeRawRGBA failed: %v", err)
	}
	if buf.Len() != 4*3*4 {
		t.Errorf("expected %d bytes, got %d", 4*3*4, buf.Len())
	}
}
