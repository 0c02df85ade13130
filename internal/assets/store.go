package assets

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/youruser/iconframe/internal/frames"
	imagepkg "github.com/youruser/iconframe/internal/image"
)

// Store holds the decoded frame images and their derived halves. It
// implements imagepkg.AssetSource. Published images are never modified;
// a reload swaps in new maps.
type Store struct {
	dir       string
	cat       *frames.Catalogue
	resampler imagepkg.Resampler
	log       *slog.Logger

	mu       sync.RWMutex
	frames   map[string]image.Image
	halves   map[string]imagepkg.HalfPair
	border   image.Image
	failures map[string]error
}

type Options struct {
	Dir       string
	Catalogue *frames.Catalogue
	Resampler imagepkg.Resampler
	Logger    *slog.Logger
}

// Load decodes every frame the catalogue names. A file that fails to load
// is logged and recorded; compositions using it skip that layer.
func Load(opts Options) *Store {
	s := &Store{
		dir:       opts.Dir,
		cat:       opts.Catalogue,
		resampler: opts.Resampler,
		log:       opts.Logger,
		frames:    map[string]image.Image{},
		halves:    map[string]imagepkg.HalfPair{},
		failures:  map[string]error{},
	}
	if s.cat == nil {
		s.cat = frames.Default()
	}
	if s.resampler == nil {
		s.resampler = imagepkg.Lanczos{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	for _, name := range s.Files() {
		s.Reload(name)
	}
	s.log.Info("frame assets loaded", "dir", s.dir, "frames", len(s.frames), "failures", len(s.failures))
	return s
}

// Files lists the asset file names the catalogue refers to.
func (s *Store) Files() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range s.cat.Singles {
		if f.Src != "" && !seen[f.Src] {
			seen[f.Src] = true
			out = append(out, f.Src)
		}
	}
	if b := s.cat.MixedBorder; b != "" && !seen[b] {
		out = append(out, b)
	}
	return out
}

// Reload re-reads one asset file and re-derives everything built from it.
// It reports whether the file is known to the catalogue.
func (s *Store) Reload(name string) bool {
	var ids []string
	for _, f := range s.cat.Singles {
		if f.Src == name {
			ids = append(ids, f.ID)
		}
	}
	isBorder := name != "" && name == s.cat.MixedBorder
	if len(ids) == 0 && !isBorder {
		return false
	}

	img, err := s.decode(name)
	var pair imagepkg.HalfPair
	if err == nil && len(ids) > 0 {
		pair = imagepkg.NewHalfPair(imagepkg.ToSize(s.resampler, img, imagepkg.FrameSize))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	framesNext := make(map[string]image.Image, len(s.frames))
	for k, v := range s.frames {
		framesNext[k] = v
	}
	halvesNext := make(map[string]imagepkg.HalfPair, len(s.halves))
	for k, v := range s.halves {
		halvesNext[k] = v
	}
	for _, id := range ids {
		if err != nil {
			delete(framesNext, id)
			delete(halvesNext, id)
			continue
		}
		framesNext[id] = img
		halvesNext[id] = pair
	}
	if isBorder {
		if err != nil {
			s.border = nil
		} else {
			s.border = img
		}
	}
	s.frames, s.halves = framesNext, halvesNext

	if err != nil {
		s.failures[name] = err
		s.log.Warn("frame asset unavailable", "file", name, "err", err)
	} else {
		delete(s.failures, name)
		s.log.Debug("frame asset loaded", "file", name, "frames", ids, "border", isBorder)
	}
	return true
}

// decode reads a frame file at its native size. Compositions resample it
// once to their output size; halves are cut from a FrameSize copy.
func (s *Store) decode(name string) (*image.NRGBA, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := imagepkg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return imaging.Clone(img), nil
}

func (s *Store) Frame(id string) (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.frames[id]
	return img, ok
}

func (s *Store) Halves(colour string) (imagepkg.HalfPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.halves[colour]
	return p, ok
}

func (s *Store) Border() (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.border, s.border != nil
}

// Failures returns the files that could not be loaded, sorted.
func (s *Store) Failures() []Failure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Failure, 0, len(s.failures))
	for name, err := range s.failures {
		out = append(out, Failure{File: name, Err: err.Error()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].File < out[j].File })
	return out
}

type Failure struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// Available reports which single frame ids have a loaded image.
func (s *Store) Available() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.frames))
	for id := range s.frames {
		out[id] = true
	}
	return out
}
