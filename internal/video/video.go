package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"

	"github.com/ivlev/shapeanim/internal/config"
	"github.com/ivlev/shapeanim/internal/system"
)

type VideoEncoder interface {
	EncodeFrames(ctx context.Context, frames <-chan *image.RGBA, videoPath string, params config.FrameParams, encoderName string, quality int) error
}

// FFmpegEncoder передаёт кадры в ffmpeg как rawvideo через stdin.
type FFmpegEncoder struct{}

// EncodeFrames пишет кадры из канала в порядке поступления, пока канал не
// закроется. Каждый кадр после записи возвращается в пул изображений.
func (e *FFmpegEncoder) EncodeFrames(
	ctx context.Context,
	frames <-chan *image.RGBA,
	videoPath string,
	params config.FrameParams,
	encoderName string,
	quality int,
) error {
	args := e.buildFFmpegArgs(videoPath, params, encoderName, quality)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	written := 0
	for img := range frames {
		err := e.writeRawRGBA(stdin, img, params.Width, params.Height)
		system.PutImage(img)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw error at frame %d: %w\nLog: %s", written, err, out.String())
		}
		written++
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, out.String())
	}
	if written == 0 {
		return fmt.Errorf("no frames were written to %s", videoPath)
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(
	videoPath string,
	params config.FrameParams,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	// yuv420p требует чётных размеров
	if params.Width%2 != 0 || params.Height%2 != 0 {
		args = append(args, "-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2")
	}

	// Качество в зависимости от энкодера
	switch encoderName {
	case "h264_videotoolbox":
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

func (e *FFmpegEncoder) writeRawRGBA(w io.Writer, img *image.RGBA, width, height int) error {
	bounds := image.Rect(0, 0, width, height)
	if img.Rect != bounds || img.Stride != width*4 {
		rgba := image.NewRGBA(bounds)
		draw.Draw(rgba, bounds, img, img.Rect.Min, draw.Src)
		img = rgba
	}
	_, err := w.Write(img.Pix)
	return err
}
