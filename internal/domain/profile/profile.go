package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for user")
	ErrVersionConflict = errors.New("profile was modified concurrently")
)

// Owner is the display slice of the user who owns a profile.
type Owner struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Merge overwrites only the networks set in other.
func (s Social) Merge(other Social) Social {
	if other.YouTube != "" {
		s.YouTube = other.YouTube
	}
	if other.Twitter != "" {
		s.Twitter = other.Twitter
	}
	if other.Facebook != "" {
		s.Facebook = other.Facebook
	}
	if other.LinkedIn != "" {
		s.LinkedIn = other.LinkedIn
	}
	if other.Instagram != "" {
		s.Instagram = other.Instagram
	}
	return s
}

type Experience struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

func (e Experience) EntryID() uuid.UUID { return e.ID }

type Education struct {
	ID           uuid.UUID  `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

func (e Education) EntryID() uuid.UUID { return e.ID }

type Profile struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Owner          *Owner       `json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Version        int64        `json:"version"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Update is a sparse profile document: nil pointers and a nil Skills slice
// mean "leave as is". Social is always present; empty networks are skipped.
type Update struct {
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GitHubUsername *string
	Skills         []string
	Social         Social
}

// New seeds a profile for userID from u. The caller is expected to have
// validated that Status and Skills are present.
func New(userID uuid.UUID, u Update, now time.Time) *Profile {
	p := &Profile{
		ID:         uuid.New(),
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.Apply(u, now)
	return p
}

// Apply merges u into p. Keys absent from u keep their prior value.
func (p *Profile) Apply(u Update, now time.Time) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Company, u.Company)
	set(&p.Website, u.Website)
	set(&p.Location, u.Location)
	set(&p.Bio, u.Bio)
	set(&p.Status, u.Status)
	set(&p.GitHubUsername, u.GitHubUsername)
	if u.Skills != nil {
		p.Skills = append([]string(nil), u.Skills...)
	}
	p.Social = p.Social.Merge(u.Social)
	p.UpdatedAt = now
}

type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Merge(ctx context.Context, userID uuid.UUID, u Update) (*Profile, error)
	SaveLists(ctx context.Context, p *Profile) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
