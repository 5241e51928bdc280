package seed

import (
	"embed"
	"fmt"
	"io/fs"

	"dealboard/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yml
var fixtureFS embed.FS

// DefaultFixtures is the fixture file shipped with the binary.
const DefaultFixtures = "fixtures/deals.yml"

// Fixtures are hand-written records loaded before any generated filler.
type Fixtures struct {
	Users []UserFixture `yaml:"users"`
	Posts []PostFixture `yaml:"posts"`
}

type UserFixture struct {
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Role  models.Role `yaml:"role"`
}

type PostFixture struct {
	Title     string   `yaml:"title"`
	Content   string   `yaml:"content"`
	ImageURL  string   `yaml:"imageUrl"`
	Tags      []string `yaml:"tags"`
	Published bool     `yaml:"published"`
	ExpiresOn string   `yaml:"expiresOn"`
}

// LoadFixtures reads and validates a fixture file from fsys. A nil fsys reads
// the embedded fixtures.
func LoadFixtures(fsys fs.FS, path string) (*Fixtures, error) {
	if fsys == nil {
		fsys = fixtureFS
	}
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures %s: %w", path, err)
	}

	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixtures %s: %w", path, err)
	}
	for i, u := range fx.Users {
		if u.Email == "" {
			return nil, fmt.Errorf("fixture user %d: email is required", i)
		}
		if u.Role == "" {
			fx.Users[i].Role = models.RoleUser
		} else if !u.Role.Valid() {
			return nil, fmt.Errorf("fixture user %s: unknown role %q", u.Email, u.Role)
		}
	}
	for i, p := range fx.Posts {
		if p.Title == "" || p.Content == "" || p.ImageURL == "" {
			return nil, fmt.Errorf("fixture post %d: title, content and imageUrl are required", i)
		}
	}
	return &fx, nil
}
