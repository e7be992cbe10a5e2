// file: internal/services/question_service_test.go
package services

import (
	"context"
	"testing"

	"personahub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestionWithoutBody(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	question, err := env.questions.CreateQuestion(ctx, &CreateQuestionRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Title-only question",
	})
	require.NoError(t, err)
	assert.Nil(t, question.Body)

	stored, err := env.repos.Category.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.QuestionCount)
	assert.Equal(t, 0, stored.PostCount)
}

func TestSearchQuestionsSkipsNilBody(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	body := "The needle is in this body."
	_, err := env.questions.CreateQuestion(ctx, &CreateQuestionRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Question with a body",
		Body:       &body,
	})
	require.NoError(t, err)
	_, err = env.questions.CreateQuestion(ctx, &CreateQuestionRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Bodiless question",
	})
	require.NoError(t, err)

	result, err := env.questions.SearchQuestions(ctx, &SearchRequest{
		Term:       "needle",
		Pagination: models.PaginationParams{},
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Question with a body", result.Data[0].Title)
}

func TestAcceptAnswerOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	question, err := env.questions.CreateQuestion(ctx, &CreateQuestionRequest{
		ProfileID:  alice.Profiles[0].ID,
		CategoryID: category.ID,
		Title:      "Which answer wins?",
	})
	require.NoError(t, err)

	_, err = env.questions.AcceptAnswer(ctx, question.ID, 7, bob.Profiles[0].ID)
	requireServiceError(t, err, "FORBIDDEN", "")

	accepted, err := env.questions.AcceptAnswer(ctx, question.ID, 7, alice.Profiles[0].ID)
	require.NoError(t, err)
	assert.True(t, accepted.IsAnswered)
	require.NotNil(t, accepted.AcceptedAnswerID)
	assert.Equal(t, int64(7), *accepted.AcceptedAnswerID)
}

func TestDeleteQuestionRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	question, err := env.questions.CreateQuestion(ctx, &CreateQuestionRequest{
		ProfileID:  alice.Profiles[0].ID,
		CategoryID: category.ID,
		Title:      "A question to defend",
	})
	require.NoError(t, err)

	err = env.questions.DeleteQuestion(ctx, question.ID, bob.Profiles[0].ID)
	requireServiceError(t, err, "FORBIDDEN", "")

	require.NoError(t, env.questions.DeleteQuestion(ctx, question.ID, alice.Profiles[0].ID))

	stored, err := env.repos.Category.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.QuestionCount)
}
