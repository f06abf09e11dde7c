package storage_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scerios/quiz/domain"
	"github.com/scerios/quiz/migrations"
	"github.com/scerios/quiz/storage"
)

var repo *storage.PostgresRepo

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Println("skipping storage tests in short mode")
		os.Exit(0)
	}

	ctx := context.Background()

	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine3.22"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		panic(err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	repo, err = storage.NewPostgresRepo(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func seedCategory(t *testing.T, name string, questions ...[2]string) int64 {
	t.Helper()
	ctx := context.Background()

	var categoryID int64
	err := repo.GetPool().QueryRow(ctx,
		"INSERT INTO category(name) VALUES($1) RETURNING id", name).Scan(&categoryID)
	require.NoError(t, err)

	for _, q := range questions {
		_, err := repo.GetPool().Exec(ctx,
			"INSERT INTO question(category_id, question, answer) VALUES($1, $2, $3)",
			categoryID, q[0], q[1])
		require.NoError(t, err)
	}

	return categoryID
}

func TestPlayerAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatePlayer", func(t *testing.T) {
		id, err := repo.CreatePlayer(ctx, "oliver", "hashed_secret")
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("CreatePlayer_Duplicate", func(t *testing.T) {
		_, err := repo.CreatePlayer(ctx, "oliver", "new_hash")
		assert.ErrorIs(t, err, domain.ErrDuplicateName)
	})

	t.Run("GetPlayerByName", func(t *testing.T) {
		creds, err := repo.GetPlayerByName(ctx, "oliver")
		assert.NoError(t, err)
		assert.Equal(t, "oliver", creds.Name)
		assert.Equal(t, "hashed_secret", creds.PasswordHash)
		assert.False(t, creds.IsLoggedIn)
		assert.NotEmpty(t, creds.ID)
	})

	t.Run("GetPlayerByName_NotFound", func(t *testing.T) {
		_, err := repo.GetPlayerByName(ctx, "ghost_player")
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("GetPlayerByID", func(t *testing.T) {
		id, err := repo.CreatePlayer(ctx, "hanna", "hash2")
		require.NoError(t, err)

		player, err := repo.GetPlayerByID(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, "hanna", player.Name)
		assert.Equal(t, 0, player.Point)
		assert.Empty(t, player.ConnectionID)
	})

	t.Run("GetAdminByName_NotFound", func(t *testing.T) {
		_, err := repo.GetAdminByName(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrAdminNotFound)
	})
}

func TestPlayerPresence(t *testing.T) {
	ctx := context.Background()

	id, err := repo.CreatePlayer(ctx, "presence_player", "hash")
	require.NoError(t, err)

	t.Run("SetPlayerStatusAndConnection", func(t *testing.T) {
		err := repo.SetPlayerStatusAndConnection(ctx, id, true, "conn-1")
		assert.NoError(t, err)

		player, err := repo.GetPlayerByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, player.IsLoggedIn)
		assert.Equal(t, "conn-1", player.ConnectionID)
	})

	t.Run("ListLoggedInPlayers", func(t *testing.T) {
		players, err := repo.ListLoggedInPlayers(ctx)
		assert.NoError(t, err)

		names := make([]string, 0, len(players))
		for _, p := range players {
			names = append(names, p.Name)
		}
		assert.Contains(t, names, "presence_player")
	})

	t.Run("ClearPlayerByConnection", func(t *testing.T) {
		err := repo.ClearPlayerByConnection(ctx, "conn-1")
		assert.NoError(t, err)

		player, err := repo.GetPlayerByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, player.IsLoggedIn)
		assert.Empty(t, player.ConnectionID)
	})

	t.Run("ClearPlayerByConnection_UnknownIsNoop", func(t *testing.T) {
		err := repo.ClearPlayerByConnection(ctx, "never-seen")
		assert.NoError(t, err)
	})

	t.Run("SetPlayerStatus_NotFound", func(t *testing.T) {
		err := repo.SetPlayerStatus(ctx, 99999, true)
		assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})
}

func TestAdjustPlayerPoint(t *testing.T) {
	ctx := context.Background()

	id, err := repo.CreatePlayer(ctx, "score_player", "hash")
	require.NoError(t, err)

	require.NoError(t, repo.AdjustPlayerPoint(ctx, id, 300))
	require.NoError(t, repo.AdjustPlayerPoint(ctx, id, -100))

	player, err := repo.GetPlayerByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 200, player.Point)

	assert.ErrorIs(t, repo.AdjustPlayerPoint(ctx, 99999, 100), domain.ErrPlayerNotFound)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()

	categoryID := seedCategory(t, "history",
		[2]string{"Who crossed the Rubicon?", "Caesar"},
		[2]string{"Year of the French Revolution?", "1789"},
		[2]string{"First Roman emperor?", "Augustus"},
	)

	t.Run("ListCategories", func(t *testing.T) {
		categories, err := repo.ListCategories(ctx)
		assert.NoError(t, err)

		var found bool
		for _, c := range categories {
			if c.ID == categoryID {
				found = true
				assert.Equal(t, "history", c.Name)
				assert.Equal(t, 0, c.QuestionIndex)
			}
		}
		assert.True(t, found)
	})

	t.Run("SetCategoryQuestionIndex", func(t *testing.T) {
		assert.NoError(t, repo.SetCategoryQuestionIndex(ctx, categoryID, 2))
		assert.ErrorIs(t, repo.SetCategoryQuestionIndex(ctx, 99999, 1), domain.ErrCategoryNotFound)
	})

	t.Run("NextTwoQuestions", func(t *testing.T) {
		questions, err := repo.NextTwoQuestions(ctx, categoryID, 0)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, "Who crossed the Rubicon?", questions[0].Text)
		assert.Equal(t, "Caesar", questions[0].Answer)
		assert.Equal(t, "history", questions[0].CategoryName)
		assert.Equal(t, "Year of the French Revolution?", questions[1].Text)
	})

	t.Run("NextTwoQuestions_NoLookaheadAtEnd", func(t *testing.T) {
		questions, err := repo.NextTwoQuestions(ctx, categoryID, 2)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		assert.Equal(t, "Augustus", questions[0].Answer)
	})

	t.Run("NextTwoQuestions_PastEnd", func(t *testing.T) {
		_, err := repo.NextTwoQuestions(ctx, categoryID, 10)
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})
}

func TestRoundLimit(t *testing.T) {
	ctx := context.Background()

	limit, err := repo.GetRoundLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, limit)

	require.NoError(t, repo.SetCategoryLimit(ctx, 5))

	limit, err = repo.GetRoundLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
}
