// Package gradle reads and writes the java properties files of a gradle project:
// gradle.properties, where sdk versions can be defined, and local.properties, where
// gradle looks for the android sdk location.
package gradle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/magiconair/properties"
)

const (
	// ProjectFile holds project wide settings, checked into version control.
	ProjectFile = "gradle.properties"
	// LocalFile holds machine specific settings.
	LocalFile = "local.properties"

	SDKDirKey            = "sdk.dir"
	CompileSDKVersionKey = "compile_sdk_version"
	BuildToolsVersionKey = "build_tools_version"
)

// LoadProject reads gradle.properties from the project dir.
// The file is optional; when it doesn't exist an empty set of properties is returned.
// ${key} references are kept verbatim.
func LoadProject(dir string) (*properties.Properties, error) {
	return load(filepath.Join(dir, ProjectFile), properties.ISO_8859_1)
}

// PersistSDKDir sets the sdk.dir key of the given properties file to root.
// Other keys and comments already in the file are kept. Nothing is written when
// override is false. Returns whether the file was written.
func PersistSDKDir(file, root string, override bool) (bool, error) {
	if !override {
		return false, nil
	}

	props, err := load(file, properties.ISO_8859_1)
	if err != nil {
		return false, err
	}

	if _, _, err := props.Set(SDKDirKey, root); err != nil {
		return false, fmt.Errorf("failed to set %s: %w", SDKDirKey, err)
	}

	if err := store(props, file); err != nil {
		return false, err
	}

	return true, nil
}

func load(file string, enc properties.Encoding) (*properties.Properties, error) {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		props := properties.NewProperties()
		props.DisableExpansion = true
		return props, nil
	}

	loader := properties.Loader{
		Encoding:         enc,
		DisableExpansion: true,
	}

	props, err := loader.LoadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}

	return props, nil
}

// store writes the properties next to the destination and moves them in place,
// so gradle never sees a half written file.
func store(props *properties.Properties, file string) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := props.WriteComment(tmp, "# ", properties.ISO_8859_1); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", file, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}

	return os.Rename(tmp.Name(), file)
}
