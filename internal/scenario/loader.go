package scenario

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/groupsense/internal/errors"
)

// Loader reads scenario files from a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader returns a Loader over fs. A nil fs means the OS filesystem.
func NewLoader(fs afero.Fs) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Loader{fs: fs}
}

// isScenarioFile reports whether name has a YAML extension.
func isScenarioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads every scenario under each path. A directory is walked
// recursively for .yaml and .yml files, in lexical order.
func (l *Loader) Load(paths ...string) ([]Scenario, error) {
	var out []Scenario
	for _, p := range paths {
		files, err := l.files(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			scenarios, err := l.LoadFile(f)
			if err != nil {
				return nil, err
			}
			out = append(out, scenarios...)
		}
	}
	return out, nil
}

func (l *Loader) files(path string) ([]string, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, errors.NewScenarioError("cannot read "+path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = afero.Walk(l.fs, path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && isScenarioFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewScenarioError("cannot walk "+path, err)
	}
	slices.Sort(files)
	return files, nil
}

// LoadFile decodes all YAML documents in one file. Every scenario is
// validated; the first invalid one fails the whole file.
func (l *Loader) LoadFile(path string) ([]Scenario, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.NewScenarioError("cannot read "+path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var out []Scenario
	for i := 1; ; i++ {
		var s Scenario
		err := dec.Decode(&s)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewScenarioError("cannot parse "+path, errors.Join(errors.ErrScenarioInvalid, err)).
				WithStep(i)
		}
		s.Source = path
		if s.Name == "" {
			s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if i > 1 {
				s.Name += "#" + strconv.Itoa(i)
			}
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Save writes scenarios to path as a multi-document YAML file.
func (l *Loader) Save(path string, scenarios ...Scenario) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, s := range scenarios {
		if err := enc.Encode(s); err != nil {
			return errors.Wrapf(err, "failed to encode scenario %q", s.Name)
		}
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to encode scenarios")
	}
	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create scenario directory")
	}
	return afero.WriteFile(l.fs, path, buf.Bytes(), 0o644)
}
