package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scerios/quiz/domain"
)

// PostgresRepo implements the persistence gateway every other package talks
// to: auth, the session coordinator and the board endpoint all consume
// subsets of it through their own interfaces.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func (r *PostgresRepo) GetPool() *pgxpool.Pool {
	return r.pool
}

// wrapQueryError maps a pgx error onto the domain taxonomy. notFound is
// returned for pgx.ErrNoRows; cancellations pass through untouched.
func wrapQueryError(err error, notFound error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return notFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
}

func (r *PostgresRepo) CreatePlayer(ctx context.Context, name, passwordHash string) (int64, error) {
	row := r.pool.QueryRow(ctx,
		"INSERT INTO player(name, password_hash) VALUES($1, $2) RETURNING id", name, passwordHash)

	var id int64
	err := row.Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// "23505" is the PostgreSQL error code for unique_violation
			if pgErr.Code == "23505" {
				return 0, domain.ErrDuplicateName
			}
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}

		return 0, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}

	return id, nil
}

func (r *PostgresRepo) GetPlayerByID(ctx context.Context, id int64) (domain.Player, error) {
	player := domain.Player{ID: id}

	row := r.pool.QueryRow(ctx,
		"SELECT socket_id, name, point, is_logged_in FROM player WHERE id = $1", id)

	err := row.Scan(&player.ConnectionID, &player.Name, &player.Point, &player.IsLoggedIn)
	if err != nil {
		return domain.Player{}, wrapQueryError(err, domain.ErrPlayerNotFound)
	}

	return player, nil
}

func (r *PostgresRepo) GetPlayerByName(ctx context.Context, name string) (domain.PlayerCredentials, error) {
	creds := domain.PlayerCredentials{Name: name}

	row := r.pool.QueryRow(ctx,
		"SELECT id, password_hash, is_logged_in FROM player WHERE name = $1", name)

	err := row.Scan(&creds.ID, &creds.PasswordHash, &creds.IsLoggedIn)
	if err != nil {
		return domain.PlayerCredentials{}, wrapQueryError(err, domain.ErrPlayerNotFound)
	}

	return creds, nil
}

func (r *PostgresRepo) GetAdminByName(ctx context.Context, name string) (domain.AdminCredentials, error) {
	creds := domain.AdminCredentials{Name: name}

	row := r.pool.QueryRow(ctx,
		"SELECT id, password_hash FROM admin WHERE name = $1", name)

	err := row.Scan(&creds.ID, &creds.PasswordHash)
	if err != nil {
		return domain.AdminCredentials{}, wrapQueryError(err, domain.ErrAdminNotFound)
	}

	return creds, nil
}

func (r *PostgresRepo) SetPlayerStatus(ctx context.Context, id int64, loggedIn bool) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE player SET is_logged_in = $2 WHERE id = $1", id, loggedIn)
	if err != nil {
		return wrapQueryError(err, domain.ErrPlayerNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func (r *PostgresRepo) SetPlayerStatusAndConnection(ctx context.Context, id int64, loggedIn bool, connectionID string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE player SET is_logged_in = $2, socket_id = $3 WHERE id = $1", id, loggedIn, connectionID)
	if err != nil {
		return wrapQueryError(err, domain.ErrPlayerNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// ClearPlayerByConnection marks whichever player holds this connection id as
// logged out and detaches the connection. Clearing an unknown connection id
// is not an error: most connections never sign up for the game.
func (r *PostgresRepo) ClearPlayerByConnection(ctx context.Context, connectionID string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE player SET is_logged_in = FALSE, socket_id = '' WHERE socket_id = $1", connectionID)
	if err != nil {
		return wrapQueryError(err, domain.ErrPlayerNotFound)
	}
	return nil
}

func (r *PostgresRepo) AdjustPlayerPoint(ctx context.Context, id int64, delta int) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE player SET point = point + $2 WHERE id = $1", id, delta)
	if err != nil {
		return wrapQueryError(err, domain.ErrPlayerNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func (r *PostgresRepo) ListLoggedInPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, name, point, socket_id FROM player WHERE is_logged_in = TRUE")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		p := domain.Player{IsLoggedIn: true}
		if err := rows.Scan(&p.ID, &p.Name, &p.Point, &p.ConnectionID); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, domain.ErrUnexpectedDatabase)
	}

	return players, nil
}

func (r *PostgresRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, name, question_index FROM category ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.QuestionIndex); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, domain.ErrUnexpectedDatabase)
	}

	return categories, nil
}

func (r *PostgresRepo) SetCategoryQuestionIndex(ctx context.Context, categoryID int64, index int) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE category SET question_index = $2 WHERE id = $1", categoryID, index)
	if err != nil {
		return wrapQueryError(err, domain.ErrCategoryNotFound)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// NextTwoQuestions returns the question at offset index within the category
// plus a lookahead, ordered by question id. At the end of a category the
// lookahead is missing and a single question is returned.
func (r *PostgresRepo) NextTwoQuestions(ctx context.Context, categoryID int64, index int) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, c.id, c.name, q.question, q.answer
		FROM question q
		JOIN category c ON c.id = q.category_id
		WHERE c.id = $1
		ORDER BY q.id
		LIMIT 2 OFFSET $2`, categoryID, index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0, 2)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.CategoryName, &q.Text, &q.Answer); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnexpectedDatabase, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError(err, domain.ErrUnexpectedDatabase)
	}
	if len(questions) == 0 {
		return nil, domain.ErrCategoryNotFound
	}

	return questions, nil
}

func (r *PostgresRepo) GetRoundLimit(ctx context.Context) (int, error) {
	var limit int
	row := r.pool.QueryRow(ctx, "SELECT round_limit FROM round_count WHERE id = 1")
	if err := row.Scan(&limit); err != nil {
		return 0, wrapQueryError(err, domain.ErrUnexpectedDatabase)
	}
	return limit, nil
}

func (r *PostgresRepo) SetCategoryLimit(ctx context.Context, limit int) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE round_count SET round_limit = $1 WHERE id = 1", limit)
	if err != nil {
		return wrapQueryError(err, domain.ErrUnexpectedDatabase)
	}
	return nil
}
