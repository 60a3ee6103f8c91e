package camera

import (
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/camgeom/utils"
)

// PixelIndex is a continuous position on the image, in pixels. (0, 0) is the top left corner of
// the top left pixel's sample; U grows to the right and V grows down.
type PixelIndex struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

// NewPixelIndexFromPoint converts an r2.Point to a PixelIndex.
func NewPixelIndexFromPoint(p r2.Point) PixelIndex {
	return PixelIndex{U: p.X, V: p.Y}
}

// Point returns the pixel index as an r2.Point.
func (p PixelIndex) Point() r2.Point {
	return r2.Point{X: p.U, Y: p.V}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p PixelIndex) IsFinite() bool {
	return utils.IsFinite(p.U, p.V)
}

// Distance returns the euclidean distance to other in pixels.
func (p PixelIndex) Distance(other PixelIndex) float64 {
	return p.Point().Sub(other.Point()).Norm()
}

// Nearest rounds each coordinate to the nearest integer, halves away from zero, and returns the
// discrete pixel. Coordinates that round to a negative value, exceed math.MaxUint32 or are not
// finite return ErrInvalidPixel.
func (p PixelIndex) Nearest() (Pixel, error) {
	u, err := toPixelCoordinate(math.Round(p.U))
	if err != nil {
		return Pixel{}, errors.Wrapf(err, "u = %v", p.U)
	}
	v, err := toPixelCoordinate(math.Round(p.V))
	if err != nil {
		return Pixel{}, errors.Wrapf(err, "v = %v", p.V)
	}
	return Pixel{U: u, V: v}, nil
}

func toPixelCoordinate(c float64) (uint32, error) {
	if !utils.IsFinite(c) || c < 0 || c > math.MaxUint32 {
		return 0, ErrInvalidPixel
	}
	return uint32(c), nil
}

func (p PixelIndex) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.U, p.V)
}

// Pixel is a discrete pixel position.
type Pixel struct {
	U uint32 `json:"u"`
	V uint32 `json:"v"`
}

// Continuous returns the pixel as a PixelIndex.
func (p Pixel) Continuous() PixelIndex {
	return PixelIndex{U: float64(p.U), V: float64(p.V)}
}

// In reports whether the pixel lies in an image of the given size.
func (p Pixel) In(width, height int) bool {
	return int64(p.U) < int64(width) && int64(p.V) < int64(height)
}

// ImagePoint returns the pixel as an image.Point.
func (p Pixel) ImagePoint() image.Point {
	return image.Point{X: int(p.U), Y: int(p.V)}
}
