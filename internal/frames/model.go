package frames

type Example struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Frame is one selectable icon style. Single frames come from the
// catalogue; mixed frames are generated from a top and bottom colour.
type Frame struct {
	ID               string    `yaml:"id" json:"id"`
	Name             string    `yaml:"name" json:"name"`
	Src              string    `yaml:"src,omitempty" json:"src,omitempty"`
	Usage            string    `yaml:"usage" json:"usage"`
	Description      string    `yaml:"description,omitempty" json:"description,omitempty"`
	UsesAlpha        bool      `yaml:"uses_alpha,omitempty" json:"uses_alpha"`
	FullSizePortrait bool      `yaml:"full_size_portrait,omitempty" json:"full_size_portrait"`
	Filename         string    `yaml:"filename,omitempty" json:"filename_template,omitempty"`
	OutputSize       int       `yaml:"output_size,omitempty" json:"output_size,omitempty"`
	Examples         []Example `yaml:"examples,omitempty" json:"examples,omitempty"`

	IsMixed bool   `yaml:"-" json:"is_mixed"`
	Top     string `yaml:"-" json:"top,omitempty"`
	Bottom  string `yaml:"-" json:"bottom,omitempty"`
}

type Colour struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type MixedMeta struct {
	Usage       string    `yaml:"usage" json:"usage"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Examples    []Example `yaml:"examples,omitempty" json:"examples,omitempty"`
}

type Catalogue struct {
	Singles           []Frame              `yaml:"singles"`
	MixedColours      []Colour             `yaml:"mixed_colours"`
	MixedDescriptions map[string]MixedMeta `yaml:"mixed_descriptions"`
	// MixedBorder is the file name of the shared border overlay.
	MixedBorder string `yaml:"mixed_border"`
}
