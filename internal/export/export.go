// Package export writes POV-Ray 3.7 scene descriptions that rebuild an
// image as simulated textile, one small parametric object per pixel. Two
// independent styles exist: a linen weave and a cross-stitch. Both are pure
// text emitters; they read the image and never feed anything back.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"povthread/internal/logger"
	"povthread/internal/models"
)

const generatorName = "povthread"

// Exporter emits POV-Ray scenes. The random source drives the scene seed
// and the cross-stitch alpha dithering; tests may replace it for
// reproducible output.
type Exporter struct {
	logger logger.Logger
	now    func() time.Time
	rand   *rand.Rand
}

func NewExporter(log logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{
		logger: log,
		now:    time.Now,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// view wraps an image with the clamp-edge accessor both exporters share.
type view struct {
	d *models.ImageData
}

// src returns channel z of pixel (x, y), saturating coordinates at the
// image edges.
func (v view) src(x, y, z int) int32 {
	if x < 0 {
		x = 0
	}
	if x >= v.d.Width {
		x = v.d.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= v.d.Height {
		y = v.d.Height - 1
	}
	return v.d.At(y, x)[z]
}

// rgb returns the pixel color normalized to [0, 1], replicating the single
// channel of grayscale sources.
func (v view) rgb(x, y int) (r, g, b float64) {
	maxc := float64(v.d.MaxColors)
	if v.d.Channels > 2 {
		return float64(v.src(x, y, 0)) / maxc,
			float64(v.src(x, y, 1)) / maxc,
			float64(v.src(x, y, 2)) / maxc
	}
	l := float64(v.src(x, y, 0)) / maxc
	return l, l, l
}

// alpha returns the normalized alpha of pixel (x, y), 1 for images without
// an alpha channel.
func (v view) alpha(x, y int) float64 {
	if !v.d.HasAlpha() {
		return 1
	}
	return float64(v.src(x, y, v.d.Channels-1)) / float64(v.d.MaxColors)
}

// sceneWriter wraps the output with buffering and sticky error handling so
// the long emit sequences stay readable.
type sceneWriter struct {
	w   *bufio.Writer
	err error
}

func newSceneWriter(w io.Writer) *sceneWriter {
	return &sceneWriter{w: bufio.NewWriter(w)}
}

func (s *sceneWriter) printf(format string, args ...interface{}) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *sceneWriter) print(text string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.WriteString(text)
}

func (s *sceneWriter) flush() error {
	if s.err != nil {
		return errors.Wrap(s.err, "scene write failed")
	}
	return errors.Wrap(s.w.Flush(), "scene write failed")
}

func validateForExport(d *models.ImageData) error {
	if d == nil {
		return errors.Wrap(models.ErrInvalidDimensions, "no image to export")
	}
	return d.Validate()
}
