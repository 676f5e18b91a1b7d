package installation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	utilyaml "k8s.io/apimachinery/pkg/util/yaml"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
)

// ErrNoInstallation is returned when a manifest declares no ClickHouseInstallation.
var ErrNoInstallation = errors.New("manifest declares no " + chiv1.KindInstallation)

// ResolvePath resolves a relative manifest path against the client's manifest directory.
func ResolvePath(c *client.Client, path string) string {
	dir := c.Config().ManifestDir
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// ReadManifest returns the first ClickHouseInstallation declared in a YAML or JSON
// manifest. Other documents of a multi-document manifest are skipped.
func ReadManifest(path string) (*chiv1.ClickHouseInstallation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return DecodeManifest(data)
}

// DecodeManifest is ReadManifest for manifest content already in memory.
func DecodeManifest(data []byte) (*chiv1.ClickHouseInstallation, error) {
	decoder := utilyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)
	for {
		var chi chiv1.ClickHouseInstallation
		if err := decoder.Decode(&chi); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoInstallation
			}
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
		if chi.IsInstallation() {
			return &chi, nil
		}
	}
}

// ReadName returns the name of the installation declared in a manifest.
func ReadName(path string) (string, error) {
	chi, err := ReadManifest(path)
	if err != nil {
		return "", err
	}
	if chi.Name == "" {
		return "", fmt.Errorf("manifest %s: %s has no metadata.name", path, chiv1.KindInstallation)
	}
	return chi.Name, nil
}
