package scenario

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	gserrors "github.com/Iron-Ham/groupsense/internal/errors"
)

func writeFile(t *testing.T, fs afero.Fs, path, data string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoader_Directory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/s/b.yaml", "name: second\nlines: [x]\n")
	writeFile(t, fs, "/s/a.yml", "name: first\nlines: [x]\n---\nlines: [y]\n")
	writeFile(t, fs, "/s/nested/c.yaml", "name: third\nlines: [z]\n")
	writeFile(t, fs, "/s/notes.txt", "not a scenario")

	scenarios, err := NewLoader(fs).Load("/s")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	want := []string{"first", "a#2", "second", "third"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if scenarios[0].Source != "/s/a.yml" {
		t.Errorf("Source = %q", scenarios[0].Source)
	}
}

func TestLoader_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/bad-yaml.yaml", "name: [unterminated\n")
	writeFile(t, fs, "/unknown-field.yaml", "name: x\nlines: [a]\nexpected: {}\n")
	writeFile(t, fs, "/no-lines.yaml", "name: x\n")

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", "/nope.yaml", nil},
		{"bad yaml", "/bad-yaml.yaml", gserrors.ErrScenarioInvalid},
		{"unknown field", "/unknown-field.yaml", gserrors.ErrScenarioInvalid},
		{"no lines", "/no-lines.yaml", gserrors.ErrScenarioInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader(fs).Load(tc.path)
			var se *gserrors.ScenarioError
			if !errors.As(err, &se) {
				t.Fatalf("Load() error = %v, want ScenarioError", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("Load() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoader_InvalidFixture(t *testing.T) {
	_, err := NewLoader(nil).Load("testdata/invalid")
	if !errors.Is(err, gserrors.ErrScenarioInvalid) {
		t.Errorf("Load() error = %v, want ErrScenarioInvalid", err)
	}
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewLoader(fs)
	in := Scenario{
		Name:   "saved",
		Lines:  []string{"You disband your group."},
		Expect: Expect{Leader: "self", Checked: boolPtr(false)},
	}

	if err := l.Save("/out/saved.yaml", in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, err := l.LoadFile("/out/saved.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(out) != 1 || out[0].Name != "saved" || out[0].Expect.Leader != "self" || *out[0].Expect.Checked {
		t.Errorf("round trip = %+v", out)
	}
}
