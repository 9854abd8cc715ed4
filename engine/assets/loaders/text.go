package loaders

import (
	"os"

	"github.com/spaghettifunk/anima2d/engine/renderer/metadata"
)

// TextLoader reads a file verbatim. Text resources carry a string, binary
// resources the raw bytes.
type TextLoader struct{}

func (tl *TextLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res := &metadata.Resource{
		ResourceType: assetType,
		FullPath:     path,
		DataSize:     uint64(len(data)),
		Data:         data,
	}
	if assetType == metadata.ResourceTypeText {
		res.Data = string(data)
	}
	return res, nil
}

func (tl *TextLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	res.DataSize = 0
	return nil
}
