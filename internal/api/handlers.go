package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/youruser/iconframe/internal/assets"
	"github.com/youruser/iconframe/internal/export"
	"github.com/youruser/iconframe/internal/frames"
	imagepkg "github.com/youruser/iconframe/internal/image"
	"github.com/youruser/iconframe/internal/naming"
	"github.com/youruser/iconframe/internal/util"
)

// maskFrameID selects the mask-only quick export in /api/compose.
const maskFrameID = "mask"

type Handler struct {
	Catalogue *frames.Catalogue
	Store     *assets.Store
	Runner    *export.Runner
	Log       *slog.Logger

	// AllowRemote enables portrait_url and mask_url.
	AllowRemote bool
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var codec *imagepkg.CodecError
	switch {
	case errors.Is(err, errNoPortrait), errors.Is(err, errBadForm), errors.Is(err, util.ErrUnsupportedURL),
		errors.Is(err, imagepkg.ErrInvalidInput), errors.As(err, &codec):
		status = http.StatusBadRequest
	case errors.Is(err, errNoRemote):
		status = http.StatusForbidden
	case errors.Is(err, frames.ErrUnknownFrame):
		status = http.StatusNotFound
	case errors.Is(err, export.ErrNothingRendered):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger().Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "asset_failures": h.Store.Failures()})
}

// framesHandler lists the catalogue singles, the quick exports and the
// mixed combinations for the requested top and bottom colours.
func (h *Handler) framesHandler(c *gin.Context) {
	tops := formList(c.QueryArray("top"))
	bottoms := formList(c.QueryArray("bottom"))
	mixed := h.Catalogue.MixedCombos(tops, bottoms)
	c.JSON(http.StatusOK, gin.H{
		"singles":   h.Catalogue.Singles,
		"mixed":     mixed,
		"quick":     frames.QuickExports,
		"colours":   h.Catalogue.MixedColours,
		"available": h.Store.Available(),
	})
}

// composeHandler renders one frame and returns it as a PNG download.
func (h *Handler) composeHandler(c *gin.Context) {
	in, err := readInputs(c, h.AllowRemote)
	if err != nil {
		h.fail(c, err)
		return
	}
	id := c.DefaultPostForm("frame", frames.GameFormatID)

	var (
		b        []byte
		filename string
	)
	if id == maskFrameID {
		b, err = h.Runner.RenderMask(in.mask)
		filename = naming.MaskFilename(in.unit)
	} else {
		var f frames.Frame
		f, err = h.Catalogue.Lookup(id)
		if err != nil {
			h.fail(c, err)
			return
		}
		if size := c.PostForm("size"); size != "" {
			n, convErr := strconv.Atoi(size)
			if convErr != nil || n < 1 || n > 4096 {
				h.fail(c, fmt.Errorf("%w: size must be 1..4096", imagepkg.ErrInvalidInput))
				return
			}
			f.OutputSize = n
		}
		b, err = h.Runner.Render(c.Request.Context(), f, in.portrait, in.mask)
		filename = naming.Filename(f.Filename, f.ID, in.unit)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "image/png", b)
}

type batchItem struct {
	Frame    string `json:"frame"`
	Filename string `json:"filename"`
	PNG      []byte `json:"png,omitempty"`
	Error    string `json:"error,omitempty"`
}

// batchHandler renders a selection of frames. format=pdf returns a
// contact sheet, anything else a JSON list with base64 PNGs.
func (h *Handler) batchHandler(c *gin.Context) {
	in, err := readInputs(c, h.AllowRemote)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.fail(c, fmt.Errorf("%w: %v", errBadForm, err))
		return
	}
	tops := formList(c.PostFormArray("top"))
	bottoms := formList(c.PostFormArray("bottom"))
	selected, err := h.Catalogue.Select(formList(c.PostFormArray("frames")))
	if err != nil {
		h.fail(c, err)
		return
	}
	selected = append(selected, h.Catalogue.MixedCombos(tops, bottoms)...)

	results, err := h.Runner.Run(c.Request.Context(), export.Jobs(selected, in.unit), in.portrait, in.mask)
	if err != nil {
		h.fail(c, err)
		return
	}

	if c.PostForm("format") == "pdf" {
		var buf bytes.Buffer
		if err := export.ContactSheet(&buf, in.unit, results); err != nil {
			h.fail(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", naming.SheetFilename(in.unit)))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
		return
	}

	items := make([]batchItem, len(results))
	for i, r := range results {
		items[i] = batchItem{Frame: r.Job.Frame.ID, Filename: r.Job.Filename, PNG: r.PNG}
		if r.Err != nil {
			items[i].Error = r.Err.Error()
		}
	}
	c.JSON(http.StatusOK, gin.H{"unit": in.unit, "count": export.Succeeded(results), "results": items})
}

// qrHandler returns a QR code PNG linking to one of a frame's examples.
func (h *Handler) qrHandler(c *gin.Context) {
	f, err := h.Catalogue.Lookup(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 0 || n >= len(f.Examples) || f.Examples[n].URL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such example link"})
		return
	}
	size := 256
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 && v <= 2048 {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(f.Examples[n].URL, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
