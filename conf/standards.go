package conf

import (
	"encoding/json"
	"os"
	fpath "path/filepath"
	"strings"

	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type standardsFile struct {
	Standards map[string]*standard.Settings `json:"standards" yaml:"standards"`
}

// ReadStandardsFile reads a standalone standards file, the shape of the
// "standards" block of the main configuration. The processor uses it to
// reload settings from the pulled standards repository.
func ReadStandardsFile(filepath string) (map[string]*standard.Settings, error) {

	err := checkFileExtension(filepath)
	if err != nil {
		return nil, err
	}

	file, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	standards := &standardsFile{}
	extension := fpath.Ext(strings.ToLower(filepath))

	switch extension {
	case ".json":
		err = json.Unmarshal(file, standards)
	case ".yml", ".yaml":
		err = yaml.Unmarshal(file, standards)
	}
	if err != nil {
		return nil, err
	}

	if len(standards.Standards) == 0 {
		return nil, errors.Errorf("Standards file[%s] does not contain any standard settings.", filepath)
	}

	return standards.Standards, nil
}
