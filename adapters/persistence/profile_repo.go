package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const pgUniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var profileColumns = []string{
	"p.id", "p.user_id", "p.company", "p.website", "p.location", "p.bio", "p.status",
	"p.githubusername", "p.skills", "p.social", "p.experience", "p.education",
	"p.version", "p.created_at", "p.updated_at",
}

const returningColumns = `RETURNING id, user_id, company, website, location, bio, status,
	githubusername, skills, social, experience, education, version, created_at, updated_at`

type postgresProfileRepo struct {
	db     DBTX
	logger logger.Logger
}

func NewPostgresProfileRepo(db DBTX, log logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: log}
}

// scanProfile reads the profileColumns, followed by the owner's name and
// avatar when withOwner is set.
func (r *postgresProfileRepo) scanProfile(row pgx.Row, withOwner bool) (*profile.Profile, error) {
	p := &profile.Profile{}
	var socialBytes, experienceBytes, educationBytes []byte
	var ownerName, ownerAvatar string

	dest := []any{
		&p.ID, &p.UserID, &p.Company, &p.Website, &p.Location, &p.Bio, &p.Status,
		&p.GitHubUsername, &p.Skills, &socialBytes, &experienceBytes, &educationBytes,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	}
	if withOwner {
		dest = append(dest, &ownerName, &ownerAvatar)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile row: %w", err)
	}

	if withOwner {
		p.Owner = &profile.Owner{ID: p.UserID, Name: ownerName, Avatar: ownerAvatar}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		r.logger.Warn("Failed to unmarshal social", zap.String("user_id", p.UserID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil || p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil || p.Education == nil {
		p.Education = []profile.Education{}
	}
	return p, nil
}

func (r *postgresProfileRepo) selectWithOwner() sq.SelectBuilder {
	return psql.Select(append(profileColumns, "u.name", "u.avatar")...).
		From("profiles p").
		Join("users u ON u.id = p.user_id")
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query, args, err := r.selectWithOwner().Where(sq.Eq{"p.user_id": userID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile query: %w", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, query, args...), true)
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	query, args, err := r.selectWithOwner().OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scanProfile(rows, true)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	socialBytes, err := json.Marshal(p.Social)
	if err != nil {
		return fmt.Errorf("failed to marshal social: %w", err)
	}
	experienceBytes, err := json.Marshal(p.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationBytes, err := json.Marshal(p.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}

	query := `
		INSERT INTO profiles (
			id, user_id, company, website, location, bio, status, githubusername,
			skills, social, experience, education, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.Exec(ctx, query,
		p.ID, p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
		p.Skills, socialBytes, experienceBytes, educationBytes, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Merge updates only the columns present in u. Social networks are merged
// key by key into the stored object.
func (r *postgresProfileRepo) Merge(ctx context.Context, userID uuid.UUID, u profile.Update) (*profile.Profile, error) {
	socialBytes, err := json.Marshal(u.Social)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal social: %w", err)
	}

	var skills any
	if u.Skills != nil {
		skills = u.Skills
	}

	query, args, err := psql.Update("profiles").
		Set("company", sq.Expr("COALESCE(?, company)", u.Company)).
		Set("website", sq.Expr("COALESCE(?, website)", u.Website)).
		Set("location", sq.Expr("COALESCE(?, location)", u.Location)).
		Set("bio", sq.Expr("COALESCE(?, bio)", u.Bio)).
		Set("status", sq.Expr("COALESCE(?, status)", u.Status)).
		Set("githubusername", sq.Expr("COALESCE(?, githubusername)", u.GitHubUsername)).
		Set("skills", sq.Expr("COALESCE(?::text[], skills)", skills)).
		Set("social", sq.Expr("social || ?::jsonb", socialBytes)).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile merge: %w", err)
	}

	return r.scanProfile(r.db.QueryRow(ctx, query, args...), false)
}

// SaveLists writes the embedded lists only if nobody has written the profile
// since p was read.
func (r *postgresProfileRepo) SaveLists(ctx context.Context, p *profile.Profile) error {
	experienceBytes, err := json.Marshal(p.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationBytes, err := json.Marshal(p.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}

	query := `
		UPDATE profiles
		SET experience = $1, education = $2, updated_at = $3, version = version + 1
		WHERE user_id = $4 AND version = $5
		RETURNING version
	`
	var newVersion int64
	err = r.db.QueryRow(ctx, query, experienceBytes, educationBytes, p.UpdatedAt, p.UserID, p.Version).Scan(&newVersion)
	if err == nil {
		p.Version = newVersion
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to save profile lists: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id = $1)`, p.UserID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check profile existence: %w", err)
	}
	if !exists {
		return profile.ErrProfileNotFound
	}
	return profile.ErrVersionConflict
}

func (r *postgresProfileRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
