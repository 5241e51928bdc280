package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"dealboard/internal/models"
	"dealboard/internal/slug"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var dealTags = []string{"food", "fashion", "travel", "ramadan", "eid", "books", "london", "family", "charity", "tech"}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	rng   *rand.Rand
	slugs map[string]int
	now   time.Time
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	rng := rand.New(rand.NewSource(seed))
	return &Factory{
		db:    db,
		faker: gofakeit.New(seed),
		rng:   rng,
		slugs: make(map[string]int),
		now:   time.Now(),
	}
}

// uniqueSlug derives a slug from title, suffixing repeats with -2, -3...
func (f *Factory) uniqueSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "deal"
	}
	if slug.Numeric(base) {
		base = "deal-" + base
	}
	f.slugs[base]++
	if n := f.slugs[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

// CreateUser persists a user with generated profile fields. Overrides run
// before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Name:            f.faker.Name(),
		Email:           strings.ToLower(f.faker.Email()),
		Image:           fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Role:            models.RoleUser,
		Provider:        "seed",
		ProviderSubject: f.faker.UUID(),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post by author without persisting it.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	title := strings.TrimSuffix(f.faker.Sentence(f.rng.Intn(4)+3), ".")
	post := &models.Post{
		Title:     title,
		Content:   f.faker.Paragraph(1, 3, 12, "\n"),
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID()),
		Tags:      f.pickTags(),
		Published: f.rng.Intn(5) > 0,
		AuthorID:  author.ID,
		CreatedAt: f.now.Add(-time.Duration(f.rng.Intn(90*24)) * time.Hour),
	}
	if f.rng.Intn(3) == 0 {
		expires := f.now.Add(time.Duration(f.rng.Intn(60)-15) * 24 * time.Hour)
		post.ExpiresOn = &expires
	}
	for _, override := range overrides {
		override(post)
	}
	post.Slug = f.uniqueSlug(post.Title)
	return post
}

func (f *Factory) pickTags() []string {
	n := f.rng.Intn(3) + 1
	perm := f.rng.Perm(len(dealTags))
	tags := make([]string, 0, n)
	for _, i := range perm[:n] {
		tags = append(tags, dealTags[i])
	}
	return tags
}

// CreatePosts persists posts in a single insert.
func (f *Factory) CreatePosts(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComments adds up to max comments to post from random users.
func (f *Factory) CreateComments(post *models.Post, users []*models.User, max int) (int, error) {
	if max <= 0 || len(users) == 0 {
		return 0, nil
	}
	n := f.rng.Intn(max + 1)
	comments := make([]*models.Comment, 0, n)
	for i := 0; i < n; i++ {
		comments = append(comments, &models.Comment{
			Content:   f.faker.Sentence(f.rng.Intn(12) + 3),
			PostID:    post.ID,
			AuthorID:  users[f.rng.Intn(len(users))].ID,
			CreatedAt: post.CreatedAt.Add(time.Duration(i+1) * time.Hour),
		})
	}
	if len(comments) == 0 {
		return 0, nil
	}
	return len(comments), f.db.Create(&comments).Error
}

// CreateLikes makes a random subset of users like post, at most once each.
func (f *Factory) CreateLikes(post *models.Post, users []*models.User) (int, error) {
	likes := make([]*models.Like, 0, len(users))
	for _, u := range users {
		if f.rng.Intn(2) == 0 {
			likes = append(likes, &models.Like{PostID: post.ID, UserID: u.ID})
		}
	}
	if len(likes) == 0 {
		return 0, nil
	}
	return len(likes), f.db.Create(&likes).Error
}
