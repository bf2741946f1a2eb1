package signal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// maxLineSize bounds a single line of a macro dump.
const maxLineSize = 1 << 20

// Profile is the YAML or TOML form of a signal set. Defines carries macros
// with values; Flags lists macros defined as 1.
//
//	name: gcc-13-linux-amd64
//	defines:
//	  __GNUC__: 13
//	  __GNUC_MINOR__: 2
//	flags: [__linux__, __x86_64__, __LP64__]
type Profile struct {
	Name        string                 `yaml:"name" toml:"name"`
	Description string                 `yaml:"description,omitempty" toml:"description,omitempty"`
	Defines     map[string]interface{} `yaml:"defines,omitempty" toml:"defines,omitempty"`
	Flags       []string               `yaml:"flags,omitempty" toml:"flags,omitempty"`
}

// ParseDump reads the output of `cc -dM -E` (one `#define NAME VALUE` per
// line). Function-like macros are ignored, `#undef` removes a name and line
// markers are skipped.
func ParseDump(r io.Reader) (Set, error) {
	defines := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return Set{}, errors.ErrSignalParseAtLine(lineNo, line)
		}

		directive := strings.TrimSpace(line[1:])
		switch {
		case strings.HasPrefix(directive, "define"):
			name, value, ok := splitDefine(strings.TrimPrefix(directive, "define"))
			if !ok {
				return Set{}, errors.ErrSignalParseAtLine(lineNo, line)
			}
			if name != "" {
				defines[name] = value
			}
		case strings.HasPrefix(directive, "undef"):
			name := strings.TrimSpace(strings.TrimPrefix(directive, "undef"))
			if name == "" {
				return Set{}, errors.ErrSignalParseAtLine(lineNo, line)
			}
			delete(defines, name)
		default:
			// Line markers and pragmas carry no signals.
		}
	}
	if err := scanner.Err(); err != nil {
		return Set{}, errors.Wrap(errors.ErrSignalParse, err.Error())
	}

	return Set{defines: defines}, nil
}

// splitDefine splits the remainder of a #define directive. An empty name
// with ok=true marks a function-like macro that should be skipped.
func splitDefine(rest string) (name, value string, ok bool) {
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", false
	}

	end := strings.IndexAny(rest, " \t(")
	if end < 0 {
		return rest, "", true
	}
	if rest[end] == '(' {
		return "", "", true
	}
	return rest[:end], strings.TrimSpace(rest[end:]), true
}

// ParseProfile reads a YAML signal profile and returns its name and set.
func ParseProfile(r io.Reader) (string, Set, error) {
	var profile Profile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&profile); err != nil {
		return "", Set{}, errors.Wrap(errors.ErrSignalProfile, err.Error())
	}
	return profile.resolve()
}

// ParseTOMLProfile reads the TOML form of a profile.
func ParseTOMLProfile(r io.Reader) (string, Set, error) {
	var profile Profile
	if err := toml.NewDecoder(r).Decode(&profile); err != nil {
		return "", Set{}, errors.Wrap(errors.ErrSignalProfile, err.Error())
	}
	return profile.resolve()
}

func (profile Profile) resolve() (string, Set, error) {
	defines := make(map[string]string, len(profile.Defines)+len(profile.Flags))
	for _, flag := range profile.Flags {
		if flag == "" {
			return "", Set{}, errors.Wrap(errors.ErrSignalProfile, "empty flag name")
		}
		defines[flag] = "1"
	}
	for name, raw := range profile.Defines {
		switch v := raw.(type) {
		case nil:
			defines[name] = ""
		case bool:
			// false leaves the macro undefined, mirroring `-UNAME`.
			if v {
				defines[name] = "1"
			} else {
				delete(defines, name)
			}
		case int, int64, uint64, float64, string:
			defines[name] = fmt.Sprint(v)
		default:
			return "", Set{}, fmt.Errorf("%w: define %s has unsupported value %v", errors.ErrSignalProfile, name, raw)
		}
	}

	return profile.Name, Set{defines: defines}, nil
}

// IsProfileFile reports whether path names a YAML or TOML profile rather
// than a dump.
func IsProfileFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}

// Load reads a signal set from r, choosing the format by the file name.
// The returned name is the profile name, or the base file name for dumps.
func Load(name string, r io.Reader) (string, Set, error) {
	if IsProfileFile(name) {
		parse := ParseProfile
		if strings.EqualFold(filepath.Ext(name), ".toml") {
			parse = ParseTOMLProfile
		}
		profileName, set, err := parse(r)
		if err != nil {
			return "", Set{}, errors.Wrapf(err, "loading %s", name)
		}
		if profileName == "" {
			profileName = filepath.Base(name)
		}
		return profileName, set, nil
	}

	set, err := ParseDump(r)
	if err != nil {
		return "", Set{}, errors.Wrapf(err, "loading %s", name)
	}
	return filepath.Base(name), set, nil
}

// LoadFile reads a signal set from a dump or profile on disk.
func LoadFile(path string) (string, Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", Set{}, fmt.Errorf("failed to open signal file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return Load(path, file)
}
