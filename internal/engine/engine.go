package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/shapeanim/internal/config"
	"github.com/ivlev/shapeanim/internal/director"
	"github.com/ivlev/shapeanim/internal/renderer"
	"github.com/ivlev/shapeanim/internal/system"
	"github.com/ivlev/shapeanim/internal/timeline"
	"github.com/ivlev/shapeanim/internal/video"
)

// Project связывает модель анимации с выбранным режимом вывода.
type Project struct {
	Config  *config.Config
	Model   *timeline.Model
	Encoder video.VideoEncoder
	Stdout  io.Writer
}

func NewProject(cfg *config.Config, m *timeline.Model, ve video.VideoEncoder) *Project {
	return &Project{
		Config:  cfg,
		Model:   m,
		Encoder: ve,
		Stdout:  os.Stdout,
	}
}

// FrameName returns the file name of frame i in a PNG export.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%05d.png", i)
}

func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()

	maxFrame, err := p.Model.MaximumFrame()
	if err != nil {
		return err
	}

	fmt.Println("--- [PROJECT: SHAPE TIMELINE] ---")
	fmt.Printf("[*] Сценарий: %s | Фигур: %d | Кадров: %d\n", p.Config.InputPath, len(p.Model.Shapes()), maxFrame+1)
	fmt.Printf("[*] Режим: %s | %d FPS\n", p.Config.View, p.Config.FPS)
	fmt.Println("-----------------------------")

	var frames int
	switch p.Config.View {
	case "text":
		err = p.ExportText()
	case "svg":
		err = p.ExportSVG()
	case "png":
		frames, err = p.ExportPNG(ctx, p.Config.OutputPath)
	case "video":
		frames, err = p.ExportVideo(ctx, p.Config.OutputPath)
	case "scenario":
		err = p.ExportScenario(p.Config.OutputPath)
	default:
		err = fmt.Errorf("неизвестный режим вывода %q", p.Config.View)
	}
	if err != nil {
		return err
	}

	if p.Config.ShowStats {
		p.report(time.Since(startTime), frames)
	}
	return nil
}

// ExportText пишет журнал направлений в OutputPath или в Stdout.
func (p *Project) ExportText() error {
	return p.writeView(func(w io.Writer) error {
		return renderer.WriteText(w, p.Model, p.Config.FPS)
	})
}

// ExportSVG пишет SVG-анимацию в OutputPath или в Stdout.
func (p *Project) ExportSVG() error {
	return p.writeView(func(w io.Writer) error {
		return renderer.WriteSVG(w, p.Model, p.Config.FPS)
	})
}

func (p *Project) writeView(write func(io.Writer) error) error {
	if p.Config.OutputPath == "" {
		return write(p.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(p.Config.OutputPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(p.Config.OutputPath)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportScenario сохраняет модель как YAML-сценарий.
func (p *Project) ExportScenario(path string) error {
	scenario, err := director.Capture(p.Model)
	if err != nil {
		return fmt.Errorf("ошибка захвата сценария: %w", err)
	}
	if path == "" {
		path = director.GenerateScenarioPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := director.WriteScenario(scenario, path); err != nil {
		return err
	}
	fmt.Printf("[+++] Сценарий сохранен: %s\n", path)
	return nil
}

// ExportPNG рендерит все кадры в dir параллельно, не более Workers одновременно.
func (p *Project) ExportPNG(ctx context.Context, dir string) (int, error) {
	frames, err := p.Model.Frames()
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	raster := renderer.NewRaster(p.Model.Bounds(), p.Config.Width, p.Config.Height)
	total := frames.Len()
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Config.Workers, 1))
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			img := raster.Render(frames.ShapesAt(i))
			defer system.PutImage(img)

			if err := writePNG(filepath.Join(dir, FrameName(i)), img); err != nil {
				return fmt.Errorf("кадр %d: %w", i, err)
			}
			if n := done.Add(1); n%100 == 0 || int(n) == total {
				fmt.Printf("[>] Ready: %d/%d\n", n, total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(done.Load()), err
	}
	return total, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportVideo проигрывает модель по счётчику кадров и передаёт кадры энкодеру.
func (p *Project) ExportVideo(ctx context.Context, path string) (int, error) {
	maxFrame, err := p.Model.MaximumFrame()
	if err != nil {
		return 0, err
	}

	raster := renderer.NewRaster(p.Model.Bounds(), p.Config.Width, p.Config.Height)
	params := config.FrameParams{
		Width:  raster.Width,
		Height: raster.Height,
		FPS:    p.Config.FPS,
		Frames: maxFrame + 1,
	}

	g, ctx := errgroup.WithContext(ctx)
	out := make(chan *image.RGBA, max(p.Config.Workers, 1))

	var sent int
	g.Go(func() error {
		defer close(out)
		p.Model.ResetFrame()
		for p.Model.CurrentFrame() <= maxFrame {
			shapes, err := p.Model.ShapesAtCurrentFrame()
			if err != nil {
				return err
			}
			img := raster.Render(shapes)
			select {
			case out <- img:
				sent++
			case <-ctx.Done():
				system.PutImage(img)
				return ctx.Err()
			}
			p.Model.AdvanceFrame()
		}
		return nil
	})
	g.Go(func() error {
		return p.Encoder.EncodeFrames(ctx, out, path, params, p.Config.VideoEncoder, p.Config.Quality)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[!] Экспорт видео прерван после %d кадров", sent)
		return sent, fmt.Errorf("ошибка сборки видео: %w", err)
	}
	fmt.Printf("[+++] Видео сохранено: %s\n", path)
	return sent, nil
}

func (p *Project) report(total time.Duration, frames int) {
	fps := 0.0
	if frames > 0 {
		fps = float64(frames) / total.Seconds()
	}

	st, err := system.CollectStats()
	if err != nil {
		log.Printf("[!] Не удалось получить статистику процесса: %v", err)
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"Process: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, total.Seconds(), frames, fps, st,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | View: %s | Frames: %d | Total: %.2fs | FPS: %.2f | RSS: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		p.Config.View,
		frames,
		total.Seconds(),
		fps,
		st.RSS,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
