// Command iconframe renders a portrait into every selected icon frame and
// writes the PNGs to a directory, optionally with a PDF contact sheet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/youruser/iconframe/internal/assets"
	"github.com/youruser/iconframe/internal/config"
	"github.com/youruser/iconframe/internal/export"
	"github.com/youruser/iconframe/internal/frames"
	imagepkg "github.com/youruser/iconframe/internal/image"
	"github.com/youruser/iconframe/internal/naming"
	"github.com/youruser/iconframe/internal/util"
)

type options struct {
	config   string
	portrait string
	mask     string
	unit     string
	out      string
	frames   string
	tops     string
	bottoms  string
	quick    string
	sheet    bool
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "iconframe.toml", "path to the TOML config file")
	flag.StringVar(&o.portrait, "portrait", "", "portrait image (required)")
	flag.StringVar(&o.mask, "mask", "", "alpha mask image")
	flag.StringVar(&o.unit, "unit", "", "unit name used in output file names")
	flag.StringVar(&o.out, "o", "out", "output directory")
	flag.StringVar(&o.frames, "frames", "", `comma separated single frame ids, or "all"`)
	flag.StringVar(&o.tops, "top", "", `mixed frame top colours, or "all"`)
	flag.StringVar(&o.bottoms, "bottom", "", `mixed frame bottom colours, or "all"`)
	flag.StringVar(&o.quick, "quick", "", "quick exports: game, portrait, mask")
	flag.BoolVar(&o.sheet, "sheet", false, "also write a PDF contact sheet")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "iconframe:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.portrait == "" {
		return errors.New("-portrait is required")
	}
	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	log := cfg.NewLogger()
	slog.SetDefault(log)
	imagepkg.SetLogger(log)

	cat, err := frames.Load(cfg.Assets.Catalogue)
	if err != nil {
		return err
	}
	resampler, err := imagepkg.ResamplerByName(cfg.Render.Filter)
	if err != nil {
		return err
	}

	var missing []imagepkg.MissingAsset
	compositor := imagepkg.NewCompositor(
		imagepkg.WithResampler(resampler),
		imagepkg.WithMissingHook(func(m imagepkg.MissingAsset) { missing = append(missing, m) }),
	)
	store := assets.Load(assets.Options{Dir: cfg.Assets.Dir, Catalogue: cat, Resampler: resampler, Logger: log})
	runner := &export.Runner{Compositor: compositor, Assets: store, Log: log}

	portrait, err := readImage(o.portrait)
	if err != nil {
		return err
	}
	var mask image.Image
	if o.mask != "" {
		if mask, err = readImage(o.mask); err != nil {
			return err
		}
	}
	portrait, mask = imagepkg.PrepareInputs(portrait, mask, false)
	unit := naming.Unit(o.unit, naming.DeriveUnitName(o.portrait))

	selected, wantMask, err := selectFrames(cat, o)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := runner.Run(ctx, export.Jobs(selected, unit), portrait, mask)
	if err != nil && !errors.Is(err, export.ErrNothingRendered) {
		return err
	}
	n, werr := export.WriteDir(o.out, results)
	if werr != nil {
		return werr
	}

	if wantMask {
		b, err := runner.RenderMask(mask)
		if err != nil {
			log.Warn("mask export failed", "err", err)
		} else if err := util.WriteFileAtomic(filepath.Join(o.out, naming.MaskFilename(unit)), b); err != nil {
			return err
		} else {
			n++
		}
	}

	if o.sheet && export.Succeeded(results) > 0 {
		f, err := os.Create(filepath.Join(o.out, naming.SheetFilename(unit)))
		if err != nil {
			return err
		}
		if err := export.ContactSheet(f, unit, results); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	for _, m := range missing {
		log.Warn("rendered without layer", "asset", m.String())
	}
	log.Info("export finished", "unit", unit, "written", n, "failed", len(results)-export.Succeeded(results), "dir", o.out)
	if n == 0 {
		return export.ErrNothingRendered
	}
	return nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := imagepkg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func splitList(s string, all []string) []string {
	if strings.TrimSpace(s) == "all" {
		return all
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// selectFrames resolves the frame flags. With none given every single
// frame is rendered. The mask quick export is reported separately as it
// is not a composition.
func selectFrames(cat *frames.Catalogue, o options) ([]frames.Frame, bool, error) {
	sel := frames.Selection{
		Singles: splitList(o.frames, cat.AllSingleIDs()),
		Tops:    splitList(o.tops, cat.AllColourIDs()),
		Bottoms: splitList(o.bottoms, cat.AllColourIDs()),
	}
	quick := splitList(o.quick, []string{frames.GameFormatID, frames.PortraitOnlyID, "mask"})
	if len(sel.Singles) == 0 && len(sel.Tops) == 0 && len(sel.Bottoms) == 0 && len(quick) == 0 {
		sel.Singles = cat.AllSingleIDs()
	}

	// unknown single ids are an error rather than silently skipped
	if _, err := cat.Select(sel.Singles); err != nil {
		return nil, false, err
	}
	out := cat.Resolve(sel)

	wantMask := false
	for _, id := range quick {
		if id == "mask" {
			wantMask = true
			continue
		}
		f, err := cat.Lookup(id)
		if err != nil {
			return nil, false, err
		}
		out = append(out, f)
	}
	return out, wantMask, nil
}
