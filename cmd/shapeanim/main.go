package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ivlev/shapeanim/internal/config"
	"github.com/ivlev/shapeanim/internal/director"
	"github.com/ivlev/shapeanim/internal/engine"
	"github.com/ivlev/shapeanim/internal/system"
	"github.com/ivlev/shapeanim/internal/timeline"
	"github.com/ivlev/shapeanim/internal/video"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{director.ScenariosDir, "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("in", "", "Путь к YAML-сценарию (по умолчанию: самый свежий файл в input/scenarios/)")
	outputPtr := flag.String("out", "", "Путь вывода (если пусто: stdout для text, иначе генерируется в output/)")
	viewPtr := flag.String("view", "text", "Режим вывода: text, svg, png, video, scenario")
	speedPtr := flag.Int("speed", 1, "Скорость анимации в кадрах в секунду")
	workersPtr := flag.Int("workers", system.DefaultWorkers(), "Потоки рендеринга кадров")
	widthPtr := flag.Int("width", 0, "Ширина кадра (0 - ширина холста)")
	heightPtr := flag.Int("height", 0, "Высота кадра (0 - высота холста)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Показать отчёт о производительности")
	debugPtr := flag.Bool("debug", false, "Отладочный журнал движка в stderr")

	flag.Parse()

	if *debugPtr {
		timeline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	view := strings.ToLower(*viewPtr)
	if !slices.Contains(config.Views, view) {
		log.Fatalf("[-] Ошибка: неизвестный режим %q, доступны: %s", *viewPtr, strings.Join(config.Views, ", "))
	}
	if *speedPtr < 1 {
		log.Fatalf("[-] Ошибка: -speed должен быть не меньше 1, получено %d", *speedPtr)
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestScenario(director.ScenariosDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите сценарий в %s/", err, director.ScenariosDir)
		}
		inputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", inputPath)
	}

	model, err := director.Load(inputPath)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки сценария: %v", err)
	}

	finalOutput := *outputPtr
	if finalOutput == "" && view != "text" {
		finalOutput = defaultOutput(inputPath, view)
	}

	cfg := &config.Config{
		InputPath:    inputPath,
		OutputPath:   finalOutput,
		View:         view,
		FPS:          *speedPtr,
		Workers:      *workersPtr,
		Width:        *widthPtr,
		Height:       *heightPtr,
		Quality:      *qualityPtr,
		ShowStats:    *statsPtr,
		Debug:        *debugPtr,
		BuildVersion: buildVersion,
	}

	if view == "video" {
		encoderName, _ := system.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
		cfg.VideoEncoder = encoderName
		if cfg.Quality == 0 {
			switch encoderName {
			case "h264_videotoolbox":
				cfg.Quality = 75 // Хорошее качество для VideoToolbox
			case "h264_nvenc":
				cfg.Quality = 28 // Эквивалент CRF для NVENC
			default:
				cfg.Quality = 23 // Стандартный CRF для x264
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, model, &video.FFmpegEncoder{})
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	if cfg.OutputPath != "" {
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputPath)
	}
}

func defaultOutput(inputPath, view string) string {
	if view == "scenario" {
		return director.GenerateScenarioPath()
	}

	baseName := filepath.Base(inputPath)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	name := fmt.Sprintf("%s_%s", cleanName, timestamp)
	switch view {
	case "video":
		name += ".mp4"
	case "svg":
		name += ".svg"
	}
	return filepath.Join("output", name)
}
