package config

// Config собирает параметры CLI shapeanim.
type Config struct {
	InputPath    string
	OutputPath   string
	View         string // text, svg, png, video, scenario
	FPS          int
	Workers      int
	Width        int // 0 - ширина холста
	Height       int // 0 - высота холста
	VideoEncoder string
	Quality      int
	ShowStats    bool
	Debug        bool
	BuildVersion string
}

// Views перечисляет поддерживаемые режимы вывода.
var Views = []string{"text", "svg", "png", "video", "scenario"}

// FrameParams описывает один проход экспорта кадров.
type FrameParams struct {
	Width, Height int
	FPS           int
	Frames        int
}
