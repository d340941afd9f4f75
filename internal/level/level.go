// Package level loads ordered practice levels from YAML files.
package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/level*.yaml
var embedded embed.FS

// Level is an ordered list of practice lines with a display name.
type Level struct {
	Key   string
	Name  string
	Tasks []string
}

// Repository holds all levels in drill order.
type Repository struct {
	levels []Level
	byKey  map[string]int
}

var levelFilePattern = regexp.MustCompile(`^level(\d+)\.yaml$`)

// LoadEmbedded loads the levels shipped with the binary.
func LoadEmbedded() (*Repository, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return loadFS(sub)
}

// LoadDir loads levels from a user-supplied directory instead of the
// embedded set.
func LoadDir(dir string) (*Repository, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("levels directory: %w", err)
	}
	return loadFS(os.DirFS(dir))
}

func loadFS(fsys fs.FS) (*Repository, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read levels: %w", err)
	}

	type numbered struct {
		num  int
		name string
	}
	var files []numbered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := levelFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, numbered{num: num, name: entry.Name()})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no level files (level*.yaml) found")
	}
	sort.Slice(files, func(i, j int) bool { return files[i].num < files[j].num })

	repo := &Repository{byKey: map[string]int{}}
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.name, err)
		}
		lvl, err := parseLevel(strings.TrimSuffix(file.name, ".yaml"), raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.name, err)
		}
		repo.byKey[lvl.Key] = len(repo.levels)
		repo.levels = append(repo.levels, lvl)
	}
	return repo, nil
}

type levelFile struct {
	Title   string `yaml:"title"`
	Content any    `yaml:"content"`
}

func parseLevel(key string, raw []byte) (Level, error) {
	var file levelFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Level{}, fmt.Errorf("failed to decode level: %w", err)
	}
	if strings.TrimSpace(file.Title) == "" {
		return Level{}, fmt.Errorf("missing or invalid 'title'")
	}
	tasks, err := contentTasks(file.Content)
	if err != nil {
		return Level{}, err
	}
	return Level{Key: key, Name: strings.TrimSpace(file.Title), Tasks: tasks}, nil
}

// contentTasks accepts 'content' as either a list of lines or one
// multiline string.
func contentTasks(content any) ([]string, error) {
	var tasks []string
	switch v := content.(type) {
	case nil:
		return nil, fmt.Errorf("missing 'content'")
	case []any:
		for _, item := range v {
			line := strings.TrimSpace(fmt.Sprint(item))
			if line != "" {
				tasks = append(tasks, line)
			}
		}
	case string:
		for _, line := range strings.Split(v, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				tasks = append(tasks, line)
			}
		}
	default:
		return nil, fmt.Errorf("'content' must be a list or a string")
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("'content' has no tasks")
	}
	return tasks, nil
}

// All returns every level in drill order.
func (r *Repository) All() []Level {
	out := make([]Level, len(r.levels))
	copy(out, r.levels)
	return out
}

// Get looks a level up by key.
func (r *Repository) Get(key string) (Level, error) {
	idx, ok := r.byKey[key]
	if !ok {
		return Level{}, fmt.Errorf("unknown level %q", key)
	}
	return r.levels[idx], nil
}

// Count returns the number of levels.
func (r *Repository) Count() int {
	return len(r.levels)
}
