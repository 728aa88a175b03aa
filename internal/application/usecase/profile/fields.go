package profile

import (
	"strings"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

// ProfileFields is the flat, all-optional shape of a create/update request.
type ProfileFields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         string
	YouTube        string
	Twitter        string
	Facebook       string
	LinkedIn       string
	Instagram      string
}

// BuildProfileUpdate keeps only the supplied (non-blank) fields. Skills is a
// comma-delimited string; an absent value leaves Skills nil rather than empty.
func BuildProfileUpdate(f ProfileFields) profile.Update {
	u := profile.Update{
		Company:        optional(f.Company),
		Website:        optional(f.Website),
		Location:       optional(f.Location),
		Bio:            optional(f.Bio),
		Status:         optional(f.Status),
		GitHubUsername: optional(f.GitHubUsername),
		Social: profile.Social{
			YouTube:   strings.TrimSpace(f.YouTube),
			Twitter:   strings.TrimSpace(f.Twitter),
			Facebook:  strings.TrimSpace(f.Facebook),
			LinkedIn:  strings.TrimSpace(f.LinkedIn),
			Instagram: strings.TrimSpace(f.Instagram),
		},
	}
	if strings.TrimSpace(f.Skills) != "" {
		u.Skills = SplitSkills(f.Skills)
	}
	return u
}

func SplitSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
