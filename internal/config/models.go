package config

import (
	"image"
	"image/color"

	"github.com/capdeco/capdeco/internal/decor"
)

// RGBA is the wire form of a color: [r, g, b, a] byte quadruplet, matching
// the plugin config files users already have.
type RGBA [4]uint8

// Color converts the wire form to a color.RGBA.
func (c RGBA) Color() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// BorderConfig is the user-facing configuration of the borders plugin.
type BorderConfig struct {
	Enabled         bool          `json:"enabled" yaml:"enabled"`
	Style           string        `json:"style" yaml:"style"`
	Size            int           `json:"size" yaml:"size"`
	Color           RGBA          `json:"color" yaml:"color"`
	CornerRadius    int           `json:"corner_radius" yaml:"corner_radius"`
	Padding         int           `json:"padding" yaml:"padding"`
	BackgroundColor *RGBA         `json:"background_color,omitempty" yaml:"background_color,omitempty"`
	Shadow          *ShadowConfig `json:"shadow,omitempty" yaml:"shadow,omitempty"`
	OnlyModes       []string      `json:"only_modes,omitempty" yaml:"only_modes,omitempty"`
}

// ShadowConfig describes the drop shadow cast behind the framed capture.
type ShadowConfig struct {
	OffsetX    int     `json:"offset_x" yaml:"offset_x"`
	OffsetY    int     `json:"offset_y" yaml:"offset_y"`
	BlurRadius int     `json:"blur_radius" yaml:"blur_radius"`
	Color      RGBA    `json:"color" yaml:"color"`
	Opacity    float64 `json:"opacity" yaml:"opacity"`
}

// ToStyle maps the user configuration onto a validated compositing style.
func (b BorderConfig) ToStyle() (decor.Style, error) {
	s := decor.Style{
		Border:       decor.BorderStyle(b.Style),
		Thickness:    b.Size,
		Color:        b.Color.Color(),
		CornerRadius: b.CornerRadius,
		Padding:      b.Padding,
	}
	if b.BackgroundColor != nil {
		bg := b.BackgroundColor.Color()
		s.Background = &bg
	}
	if b.Shadow != nil {
		s.ShadowOffset = image.Pt(b.Shadow.OffsetX, b.Shadow.OffsetY)
		s.ShadowBlur = b.Shadow.BlurRadius
		s.ShadowColor = b.Shadow.Color.Color()
		s.ShadowOpacity = b.Shadow.Opacity
	}
	if err := s.Validate(); err != nil {
		return decor.Style{}, err
	}
	return s, nil
}

// SoundEntry maps one capture-lifecycle event to an audio file.
type SoundEntry struct {
	Path      string   `json:"path" yaml:"path"`
	Volume    *float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
	OnlyModes []string `json:"only_modes,omitempty" yaml:"only_modes,omitempty"`
}

// SoundsConfig is the user-facing configuration of the sounds plugin.
type SoundsConfig struct {
	Enabled     bool        `json:"enabled" yaml:"enabled"`
	Volume      float64     `json:"volume" yaml:"volume"`
	PreCapture  *SoundEntry `json:"pre_capture,omitempty" yaml:"pre_capture,omitempty"`
	PostCapture *SoundEntry `json:"post_capture,omitempty" yaml:"post_capture,omitempty"`
	PostSave    *SoundEntry `json:"post_save,omitempty" yaml:"post_save,omitempty"`
	PostUpload  *SoundEntry `json:"post_upload,omitempty" yaml:"post_upload,omitempty"`
}

// HotbarButton is one action button on the floating toolbar.
type HotbarButton struct {
	Action  string `json:"action" yaml:"action"`
	Label   string `json:"label" yaml:"label"`
	Tooltip string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// GlassConfig controls the acrylic backdrop behind the hotbar.
type GlassConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	BlurAmount int  `json:"blur_amount" yaml:"blur_amount"`
	TintColor  RGBA `json:"tint_color" yaml:"tint_color"`
}

// HotbarConfig is the user-facing configuration of the hotbar plugin.
type HotbarConfig struct {
	Enabled      bool           `json:"enabled" yaml:"enabled"`
	Position     string         `json:"position" yaml:"position"`
	Buttons      []HotbarButton `json:"buttons" yaml:"buttons"`
	ButtonWidth  int            `json:"button_width" yaml:"button_width"`
	ButtonHeight int            `json:"button_height" yaml:"button_height"`
	Spacing      int            `json:"spacing" yaml:"spacing"`
	Padding      int            `json:"padding" yaml:"padding"`
	CornerRadius int            `json:"corner_radius" yaml:"corner_radius"`
	Glass        GlassConfig    `json:"glass" yaml:"glass"`
}

// Config is the whole on-disk configuration.
type Config struct {
	ServerPort int    `json:"server_port" yaml:"server_port"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`

	Border BorderConfig `json:"border" yaml:"border"`
	Sounds SoundsConfig `json:"sounds" yaml:"sounds"`
	Hotbar HotbarConfig `json:"hotbar" yaml:"hotbar"`
}
