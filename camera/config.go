package camera

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	cgutils "go.viam.com/camgeom/utils"
)

// Config describes a Model.
//
//	{
//	  "projection": {"type": "pinhole", "width_px": 1280, "height_px": 720, "fov_x_deg": 90, "fov_y_deg": 60},
//	  "distortion": {"type": "brown_conrady", "parameters": [-0.1, 0.01, 0, 0, 0]}
//	}
type Config struct {
	Projection ProjectionConfig  `json:"projection"`
	Distortion *DistortionConfig `json:"distortion,omitempty"`
}

// ProjectionConfig holds the image size and either explicit intrinsics or fields of view from
// which they are derived.
type ProjectionConfig struct {
	Type    ProjectionType `json:"type"`
	Width   int            `json:"width_px"`
	Height  int            `json:"height_px"`
	Fx      float64        `json:"fx"`
	Fy      float64        `json:"fy"`
	Ppx     float64        `json:"ppx"`
	Ppy     float64        `json:"ppy"`
	Skew    float64        `json:"skew"`
	FovXDeg float64        `json:"fov_x_deg"`
	FovYDeg float64        `json:"fov_y_deg"`
}

// DistortionConfig names a distortion model and its parameter list.
type DistortionConfig struct {
	Type       DistortionType `json:"type"`
	Parameters []float64      `json:"parameters"`
}

func newFieldRequiredError(path, field string) error {
	return errors.Errorf("%s: %q is required", path, field)
}

// projectionType defaults an empty type to pinhole.
func (pc *ProjectionConfig) projectionType() ProjectionType {
	if pc.Type == "" {
		return PinholeProjectionType
	}
	return pc.Type
}

func (pc *ProjectionConfig) usesFOV() bool {
	return pc.Fx == 0 && pc.Fy == 0
}

// Validate checks the projection config, returning every problem found.
func (pc *ProjectionConfig) Validate(path string) error {
	var errs error
	switch pc.projectionType() {
	case PinholeProjectionType, FisheyeProjectionType:
	default:
		errs = multierr.Append(errs, errors.Errorf("%s: unknown projection type %q", path, pc.Type))
	}
	if pc.Width <= 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "width_px"))
	}
	if pc.Height <= 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "height_px"))
	}
	if pc.usesFOV() {
		if pc.FovXDeg <= 0 {
			errs = multierr.Append(errs, newFieldRequiredError(path, "fov_x_deg"))
		}
		if pc.FovYDeg <= 0 {
			errs = multierr.Append(errs, newFieldRequiredError(path, "fov_y_deg"))
		}
	}
	if errs != nil {
		return errs
	}
	_, err := pc.projection()
	return errors.Wrap(err, path)
}

func (pc *ProjectionConfig) projection() (Projection, error) {
	if !pc.usesFOV() {
		return NewProjection(pc.projectionType(), Intrinsics{Fx: pc.Fx, Fy: pc.Fy, Cx: pc.Ppx, Cy: pc.Ppy, Skew: pc.Skew})
	}
	fovX, fovY := cgutils.DegToRad(pc.FovXDeg), cgutils.DegToRad(pc.FovYDeg)
	switch pc.projectionType() {
	case PinholeProjectionType:
		return NewPinholeFromResolutionFOV(pc.Width, pc.Height, fovX, fovY)
	case FisheyeProjectionType:
		return NewFisheyeFromResolutionFOV(pc.Width, pc.Height, fovX, fovY)
	default:
		return nil, errors.Errorf("do not know how to parse %q projection model", pc.Type)
	}
}

// Validate checks the distortion config.
func (dc *DistortionConfig) Validate(path string) error {
	if dc == nil {
		return nil
	}
	_, err := NewDistorter(dc.Type, dc.Parameters)
	return errors.Wrap(err, path)
}

func (dc *DistortionConfig) distorter() (Distorter, error) {
	if dc == nil {
		return Ideal{}, nil
	}
	return NewDistorter(dc.Type, dc.Parameters)
}

// Validate checks the whole config, returning every problem found.
func (conf *Config) Validate() error {
	if conf == nil {
		return errors.New("camera config not provided")
	}
	return multierr.Combine(
		conf.Projection.Validate("projection"),
		conf.Distortion.Validate("distortion"),
	)
}

// NewModelFromConfig validates conf and builds the model it describes.
func NewModelFromConfig(conf *Config) (*Model, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	projection, err := conf.Projection.projection()
	if err != nil {
		return nil, err
	}
	distorter, err := conf.Distortion.distorter()
	if err != nil {
		return nil, err
	}
	return NewModel(projection, distorter)
}

// NewConfigFromJSONFile takes in a file path to a JSON and turns it into a Config.
func NewConfigFromJSONFile(jsonPath string) (*Config, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	conf := &Config{}
	if err := json.Unmarshal(byteValue, conf); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return conf, nil
}

// DecodeConfig converts a generic attribute map, e.g. from a larger JSON document, into a Config.
// Unknown attributes are an error.
func DecodeConfig(attributes map[string]interface{}) (*Config, error) {
	var conf Config
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &conf, Metadata: &md})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "error decoding camera config")
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return nil, errors.Errorf("unknown camera config attributes %v", md.Unused)
	}
	return &conf, nil
}

func (conf *Config) String() string {
	out, err := json.Marshal(conf)
	if err != nil {
		return fmt.Sprintf("%#v", *conf)
	}
	return string(out)
}
