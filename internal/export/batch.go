package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/youruser/iconframe/internal/frames"
	imagepkg "github.com/youruser/iconframe/internal/image"
	"github.com/youruser/iconframe/internal/naming"
	"github.com/youruser/iconframe/internal/util"
)

// ErrNothingRendered is returned when every item of a batch failed.
var ErrNothingRendered = errors.New("no valid frames to export")

type Job struct {
	Frame    frames.Frame
	Filename string
}

type Result struct {
	Job Job
	PNG []byte
	Err error
}

func (r Result) OK() bool { return r.Err == nil && r.PNG != nil }

// Jobs names each frame's output for the given unit.
func Jobs(fs []frames.Frame, unit string) []Job {
	jobs := make([]Job, len(fs))
	for i, f := range fs {
		jobs[i] = Job{Frame: f, Filename: naming.Filename(f.Filename, f.ID, unit)}
	}
	return jobs
}

// Runner renders frames to PNG bytes.
type Runner struct {
	Compositor *imagepkg.Compositor
	Assets     imagepkg.AssetSource
	Log        *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Render composes one frame and encodes it.
func (r *Runner) Render(ctx context.Context, f frames.Frame, portrait, mask image.Image) ([]byte, error) {
	img, err := r.Compositor.Compose(ctx, f.Descriptor(), portrait, mask, r.Assets)
	if err != nil {
		return nil, err
	}
	return imagepkg.PNGBytes(img)
}

// RenderMask is the mask-only quick export: the mask stretched to the
// quick export size.
func (r *Runner) RenderMask(mask image.Image) ([]byte, error) {
	if mask == nil {
		return nil, &imagepkg.InvalidInputError{Frame: "mask", What: "alpha mask is required"}
	}
	return imagepkg.PNGBytes(imagepkg.StretchMask(r.Compositor.Resampler(), mask, imagepkg.QuickExportSize))
}

// Run renders jobs one after another. A failed item is recorded in its
// Result and the batch moves on. Cancelling ctx stops the batch between
// items; the results so far are returned along with ctx's error.
func (r *Runner) Run(ctx context.Context, jobs []Job, portrait, mask image.Image) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		b, err := r.Render(ctx, j.Frame, portrait, mask)
		if err != nil {
			r.logger().Warn("frame export failed", "frame", j.Frame.ID, "err", err)
		}
		results = append(results, Result{Job: j, PNG: b, Err: err})
	}
	if len(jobs) > 0 && Succeeded(results) == 0 {
		return results, ErrNothingRendered
	}
	return results, nil
}

// Succeeded counts the successful results.
func Succeeded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}

// WriteDir writes every successful result into dir.
func WriteDir(dir string, results []Result) (int, error) {
	if err := util.EnsureDir(dir); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range results {
		if !r.OK() {
			continue
		}
		path := filepath.Join(dir, filepath.Base(r.Job.Filename))
		if err := util.WriteFileAtomic(path, r.PNG); err != nil {
			return n, fmt.Errorf("writing %s: %w", path, err)
		}
		n++
	}
	return n, nil
}
