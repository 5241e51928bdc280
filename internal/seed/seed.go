// Package seed fills a development database with fixture deals and generated
// users, posts, comments and likes.
package seed

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"dealboard/internal/middleware"
	"dealboard/internal/models"
	"dealboard/internal/service"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	Clean           bool
	// Seed makes generated data reproducible. Zero means random.
	Seed int64
	// FixturesFS and FixturesPath select the fixture file. Nil FixturesFS
	// reads the embedded fixtures.
	FixturesFS   fs.FS
	FixturesPath string
}

// Report counts what a run inserted.
type Report struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
}

// Seeder populates the database.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.FixturesPath == "" {
		opts.FixturesPath = DefaultFixtures
	}
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts.Seed)}
}

// Run loads the fixtures, then generated filler, and reports what was written.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	fx, err := LoadFixtures(s.opts.FixturesFS, s.opts.FixturesPath)
	if err != nil {
		return nil, err
	}
	if s.opts.Clean {
		if err := ClearAll(ctx, s.db); err != nil {
			return nil, fmt.Errorf("clearing data: %w", err)
		}
	}

	report := &Report{}
	users, author, err := s.seedUsers(fx)
	if err != nil {
		return nil, fmt.Errorf("seeding users: %w", err)
	}
	report.Users = len(users)

	posts := make([]*models.Post, 0, len(fx.Posts)+s.opts.Posts)
	for _, p := range fx.Posts {
		p := p
		posts = append(posts, s.factory.BuildPost(author, func(post *models.Post) {
			post.Title = p.Title
			post.Content = p.Content
			post.ImageURL = p.ImageURL
			post.Tags = p.Tags
			post.Published = p.Published
			post.ExpiresOn = service.ParseExpiresOn(p.ExpiresOn)
		}))
	}
	for i := 0; i < s.opts.Posts; i++ {
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePosts(posts); err != nil {
		return nil, fmt.Errorf("seeding posts: %w", err)
	}
	report.Posts = len(posts)

	for _, p := range posts {
		n, err := s.factory.CreateComments(p, users, s.opts.CommentsPerPost)
		if err != nil {
			return nil, fmt.Errorf("seeding comments for post %d: %w", p.ID, err)
		}
		report.Comments += n

		n, err = s.factory.CreateLikes(p, users)
		if err != nil {
			return nil, fmt.Errorf("seeding likes for post %d: %w", p.ID, err)
		}
		report.Likes += n
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("users", report.Users), slog.Int("posts", report.Posts),
		slog.Int("comments", report.Comments), slog.Int("likes", report.Likes))
	return report, nil
}

// seedUsers creates the fixture users and generated users. Posts are authored
// by the first fixture admin, or the first user when there is none.
func (s *Seeder) seedUsers(fx *Fixtures) ([]*models.User, *models.User, error) {
	users := make([]*models.User, 0, len(fx.Users)+s.opts.Users)
	var author *models.User

	for _, u := range fx.Users {
		u := u
		user, err := s.factory.CreateUser(func(m *models.User) {
			if u.Name != "" {
				m.Name = u.Name
			}
			m.Email = strings.ToLower(strings.TrimSpace(u.Email))
			m.Role = u.Role
			m.ProviderSubject = "fixture:" + m.Email
		})
		if err != nil {
			return nil, nil, err
		}
		if author == nil && user.Role == models.RoleAdmin {
			author = user
		}
		users = append(users, user)
	}
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, nil, err
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		return nil, nil, fmt.Errorf("at least one user is required to author posts")
	}
	if author == nil {
		author = users[0]
	}
	return users, author, nil
}

// ClearAll removes every row the seeder writes, children first.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Like{}, &models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
