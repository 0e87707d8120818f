package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

var (
	// ErrQuizNotFound is returned when a quiz is not found
	ErrQuizNotFound = errors.New("quiz not found")

	// ErrSettingNotFound is returned when a setting key does not exist
	ErrSettingNotFound = errors.New("setting not found")
)

// QuizSummary is a compact listing row for quiz history.
type QuizSummary struct {
	ID             string
	Name           string
	PullRequestURL string
	AIProvider     string
	Complexity     int
	QuestionCount  int
	CreatedAt      time.Time
}

// Repository defines persistence operations for quizzes, settings and the
// pull request cache.
type Repository interface {
	SaveQuiz(ctx context.Context, q *quiz.Quiz) error
	GetQuizByID(ctx context.Context, id string) (*quiz.Quiz, error)
	ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	GetCachedPullRequest(ctx context.Context, owner, repo string, number int, ttl time.Duration) (*github.PullRequestRecord, error)
	PutCachedPullRequest(ctx context.Context, record *github.PullRequestRecord) error
}

// SQLRepository implements Repository using the SQLite database
type SQLRepository struct {
	db      *sql.DB
	logger  *loggy.Logger
	builder sq.StatementBuilderType
	now     func() time.Time
}

// NewSQLRepository creates a new SQL repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) *SQLRepository {
	return &SQLRepository{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now:     time.Now,
	}
}

// SaveQuiz persists a generated quiz
func (r *SQLRepository) SaveQuiz(ctx context.Context, q *quiz.Quiz) error {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return fmt.Errorf("marshaling questions: %w", err)
	}

	focusAreas, err := json.Marshal(q.Metadata.FocusAreas)
	if err != nil {
		return fmt.Errorf("marshaling focus areas: %w", err)
	}

	query, args, err := r.builder.
		Insert("quizzes").
		Columns(
			"id",
			"name",
			"pull_request_url",
			"ai_provider",
			"complexity",
			"processing_time_ms",
			"questions",
			"focus_areas",
			"created_at",
		).
		Values(
			q.ID,
			q.Name,
			q.PullRequestURL,
			q.Metadata.AIProvider,
			q.Metadata.Complexity,
			q.Metadata.ProcessingTimeMs,
			string(questions),
			string(focusAreas),
			q.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting quiz: %w", err)
	}

	r.logger.Info("Saved quiz", "id", q.ID, "name", q.Name, "questions", len(q.Questions))
	return nil
}

// GetQuizByID retrieves a stored quiz by id
func (r *SQLRepository) GetQuizByID(ctx context.Context, id string) (*quiz.Quiz, error) {
	query, args, err := r.builder.
		Select(
			"id",
			"name",
			"pull_request_url",
			"ai_provider",
			"complexity",
			"processing_time_ms",
			"questions",
			"focus_areas",
			"created_at",
		).
		From("quizzes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	var (
		q              quiz.Quiz
		questionsJSON  string
		focusAreasJSON string
	)
	err = row.Scan(
		&q.ID,
		&q.Name,
		&q.PullRequestURL,
		&q.Metadata.AIProvider,
		&q.Metadata.Complexity,
		&q.Metadata.ProcessingTimeMs,
		&questionsJSON,
		&focusAreasJSON,
		&q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("scanning quiz: %w", err)
	}

	if err := json.Unmarshal([]byte(questionsJSON), &q.Questions); err != nil {
		return nil, fmt.Errorf("unmarshaling questions: %w", err)
	}
	if err := json.Unmarshal([]byte(focusAreasJSON), &q.Metadata.FocusAreas); err != nil {
		return nil, fmt.Errorf("unmarshaling focus areas: %w", err)
	}

	return &q, nil
}

// ListQuizzes returns recent quizzes, newest first
func (r *SQLRepository) ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.builder.
		Select(
			"id",
			"name",
			"pull_request_url",
			"ai_provider",
			"complexity",
			"questions",
			"created_at",
		).
		From("quizzes").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing quizzes: %w", err)
	}
	defer rows.Close()

	var summaries []QuizSummary
	for rows.Next() {
		var (
			s             QuizSummary
			questionsJSON string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.PullRequestURL, &s.AIProvider, &s.Complexity, &questionsJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning quiz row: %w", err)
		}

		var questions []json.RawMessage
		if err := json.Unmarshal([]byte(questionsJSON), &questions); err == nil {
			s.QuestionCount = len(questions)
		}

		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetSetting returns a stored setting value
func (r *SQLRepository) GetSetting(ctx context.Context, key string) (string, error) {
	query, args, err := r.builder.
		Select("value").
		From("settings").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building select query: %w", err)
	}

	var value string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("scanning setting: %w", err)
	}

	return value, nil
}

// SetSetting stores a setting value, replacing any existing one
func (r *SQLRepository) SetSetting(ctx context.Context, key, value string) error {
	query, args, err := r.builder.
		Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, r.now()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting setting: %w", err)
	}

	return nil
}

// Settings adapts a Repository to the config.SettingsProvider interface.
type Settings struct {
	repo Repository
}

// NewSettings creates a settings provider backed by a repository
func NewSettings(repo Repository) *Settings {
	return &Settings{repo: repo}
}

// Get returns a stored setting value
func (s *Settings) Get(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// Set stores a setting value
func (s *Settings) Set(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// cacheKey builds the pr_cache primary key for a pull request
func cacheKey(owner, repo string, number int) string {
	return fmt.Sprintf("%s/%s#%d", owner, repo, number)
}

// GetCachedPullRequest returns a cached pull request record if one exists
// and is still fresh. A stale or missing entry returns (nil, nil).
func (r *SQLRepository) GetCachedPullRequest(ctx context.Context, owner, repo string, number int, ttl time.Duration) (*github.PullRequestRecord, error) {
	query, args, err := r.builder.
		Select("payload", "fetched_at").
		From("pr_cache").
		Where(sq.Eq{"cache_key": cacheKey(owner, repo, number)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	var (
		payload   string
		fetchedAt time.Time
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&payload, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	if ttl > 0 && r.now().Sub(fetchedAt) > ttl {
		r.logger.Debug("cache entry expired", "key", cacheKey(owner, repo, number))
		return nil, nil
	}

	var record github.PullRequestRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("unmarshaling cached record: %w", err)
	}

	return &record, nil
}

// PutCachedPullRequest stores a fetched pull request record in the cache
func (r *SQLRepository) PutCachedPullRequest(ctx context.Context, record *github.PullRequestRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	query, args, err := r.builder.
		Insert("pr_cache").
		Columns("cache_key", "payload", "fetched_at").
		Values(cacheKey(record.Owner, record.Repo, record.Number), string(payload), r.now()).
		Suffix("ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting cache entry: %w", err)
	}

	return nil
}
