package http

import (
	"time"

	"github.com/google/uuid"

	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/application/validation"
	"github.com/khoahotran/devconnector/internal/domain/profile"
)

// Requests

type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r ProfileRequest) values() map[string]string {
	return map[string]string{
		"status":  r.Status,
		"skills":  r.Skills,
		"website": r.Website,
	}
}

func (r ProfileRequest) ToFields() profileUC.ProfileFields {
	return profileUC.ProfileFields{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		YouTube:        r.YouTube,
		Twitter:        r.Twitter,
		Facebook:       r.Facebook,
		LinkedIn:       r.LinkedIn,
		Instagram:      r.Instagram,
	}
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r ExperienceRequest) values() map[string]string {
	return map[string]string{
		"title":   r.Title,
		"company": r.Company,
		"from":    r.From,
		"to":      r.To,
	}
}

// ToInput expects the request to have passed validation.ExperienceRules.
func (r ExperienceRequest) ToInput() profileUC.ExperienceInput {
	from, to := parseDateRange(r.From, r.To)
	return profileUC.ExperienceInput{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          to,
		Current:     r.Current,
		Description: r.Description,
	}
}

type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r EducationRequest) values() map[string]string {
	return map[string]string{
		"school":       r.School,
		"degree":       r.Degree,
		"fieldofstudy": r.FieldOfStudy,
		"from":         r.From,
		"to":           r.To,
	}
}

// ToInput expects the request to have passed validation.EducationRules.
func (r EducationRequest) ToInput() profileUC.EducationInput {
	from, to := parseDateRange(r.From, r.To)
	return profileUC.EducationInput{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      r.Current,
		Description:  r.Description,
	}
}

func parseDateRange(rawFrom, rawTo string) (time.Time, *time.Time) {
	from, _ := validation.ParseDate(rawFrom)
	if rawTo == "" {
		return from, nil
	}
	to, err := validation.ParseDate(rawTo)
	if err != nil {
		return from, nil
	}
	return from, &to
}

// Responses

type OwnerDTO struct {
	ID     uuid.UUID `json:"_id"`
	Name   string    `json:"name,omitempty"`
	Avatar string    `json:"avatar,omitempty"`
}

type SocialDTO struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type ExperienceDTO struct {
	ID          uuid.UUID  `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationDTO struct {
	ID           uuid.UUID  `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type ProfileDTO struct {
	ID             uuid.UUID       `json:"_id"`
	User           OwnerDTO        `json:"user"`
	Company        string          `json:"company,omitempty"`
	Website        string          `json:"website,omitempty"`
	Location       string          `json:"location,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Status         string          `json:"status"`
	GitHubUsername string          `json:"githubusername,omitempty"`
	Skills         []string        `json:"skills"`
	Social         SocialDTO       `json:"social"`
	Experience     []ExperienceDTO `json:"experience"`
	Education      []EducationDTO  `json:"education"`
	Date           time.Time       `json:"date"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:             p.ID,
		User:           OwnerDTO{ID: p.UserID},
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         p.Skills,
		Social:         SocialDTO(p.Social),
		Date:           p.CreatedAt,
	}
	if p.Owner != nil {
		dto.User.Name = p.Owner.Name
		dto.User.Avatar = p.Owner.Avatar
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}

	dto.Experience = make([]ExperienceDTO, len(p.Experience))
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO(e)
	}
	dto.Education = make([]EducationDTO, len(p.Education))
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO(e)
	}
	return dto
}

func ToProfileDTOs(profiles []*profile.Profile) []ProfileDTO {
	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = ToProfileDTO(p)
	}
	return dtos
}
