package imagepkg

import (
	"image"
	"image/color"
	"testing"
)

func TestDim(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 1},
		{-3, 1},
		{0.4, 1},
		{1.5, 2},
		{56.99999, 57},
		{113.5, 114},
	}
	for _, tt := range tests {
		if got := Dim(tt.in); got != tt.want {
			t.Errorf("Dim(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFitSquare(t *testing.T) {
	w, h := FitSquare(image.NewNRGBA(image.Rect(0, 0, 100, 50)), 114)
	if Dim(w) != 114 || Dim(h) != 57 {
		t.Errorf("100x50 in 114 = %vx%v, want 114x57", w, h)
	}
	w, h = FitSquare(image.NewNRGBA(image.Rect(0, 0, 30, 90)), 90)
	if Dim(w) != 30 || Dim(h) != 90 {
		t.Errorf("30x90 in 90 = %vx%v, want 30x90", w, h)
	}
	w, h = FitSquare(&image.NRGBA{}, 64)
	if w != 64 || h != 64 {
		t.Errorf("empty image = %vx%v, want 64x64", w, h)
	}
}

func TestResamplerByName(t *testing.T) {
	for _, name := range []string{"", "lanczos", "Lanczos", "catmullrom", "bicubic"} {
		if _, err := ResamplerByName(name); err != nil {
			t.Errorf("ResamplerByName(%q): %v", name, err)
		}
	}
	if _, err := ResamplerByName("nearest"); err == nil {
		t.Error("nearest neighbour should be rejected")
	}
}

func TestResamplers_KeepUniformColour(t *testing.T) {
	src := solid(20, 10, color.NRGBA{R: 90, G: 180, B: 45, A: 255})
	for _, r := range []Resampler{Lanczos{}, CatmullRom{}} {
		out := ResizeTo(r, src, 57.2, 28.6)
		if out.Rect.Dx() != 57 || out.Rect.Dy() != 29 {
			t.Fatalf("%T: got %v, want 57x29", r, out.Rect)
		}
		assertPixel(t, out, 28, 14, color.NRGBA{R: 90, G: 180, B: 45, A: 255})
	}
}
