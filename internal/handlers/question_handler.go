// file: internal/handlers/question_handler.go
package handlers

import (
	"context"
	"net/http"

	"personahub/internal/models"
	"personahub/internal/response"
	"personahub/internal/services"
)

// QuestionHandler serves question CRUD, listings, search and engagement
type QuestionHandler struct {
	*Base
	questions  services.QuestionService
	engagement services.EngagementService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(base *Base, questions services.QuestionService, engagement services.EngagementService) *QuestionHandler {
	return &QuestionHandler{Base: base, questions: questions, engagement: engagement}
}

// Create handles POST /api/v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	var req services.CreateQuestionRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	req.ProfileID = profileID

	question, err := h.questions.CreateQuestion(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteCreated(w, r, question)
}

// Get handles GET /api/v1/questions/{questionID}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r, "questionID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	question, err := h.questions.GetQuestion(r.Context(), questionID, viewerProfileID(r))
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, question)
}

// Update handles PATCH /api/v1/questions/{questionID}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	questionID, err := pathID(r, "questionID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	var req services.UpdateQuestionRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}
	req.QuestionID = questionID
	req.ProfileID = profileID

	question, err := h.questions.UpdateQuestion(r.Context(), &req)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, question)
}

// Delete handles DELETE /api/v1/questions/{questionID}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	questionID, err := pathID(r, "questionID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := h.questions.DeleteQuestion(r.Context(), questionID, profileID); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteNoContent(w, r)
}

// AcceptAnswer handles PUT /api/v1/questions/{questionID}/accepted-answer
func (h *QuestionHandler) AcceptAnswer(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	questionID, err := pathID(r, "questionID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	var req struct {
		AnswerID int64 `json:"answer_id"`
	}
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	question, err := h.questions.AcceptAnswer(r.Context(), questionID, req.AnswerID, profileID)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, question)
}

// List handles GET /api/v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.questions.ListQuestions(r.Context(), &services.ListContentRequest{
		Pagination: paginationFromQuery(r),
		CategoryID: optionalQueryID(r, "category_id"),
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	response.WritePaginated(h.builder, w, r, result)
}

// ListByProfile handles GET /api/v1/profiles/{profileID}/questions
func (h *QuestionHandler) ListByProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r, "profileID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	result, err := h.questions.ListQuestionsByProfile(r.Context(), profileID, paginationFromQuery(r))
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	response.WritePaginated(h.builder, w, r, result)
}

// Search handles GET /api/v1/questions/search?q=term
func (h *QuestionHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.questions.SearchQuestions(r.Context(), &services.SearchRequest{
		Term:       r.URL.Query().Get("q"),
		Pagination: paginationFromQuery(r),
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	response.WritePaginated(h.builder, w, r, result)
}

// ===============================
// ENGAGEMENT ROUTES
// ===============================

// Like handles PUT /api/v1/questions/{questionID}/like
func (h *QuestionHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.Like)
}

// Unlike handles DELETE /api/v1/questions/{questionID}/like
func (h *QuestionHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.Unlike)
}

// Dislike handles PUT /api/v1/questions/{questionID}/dislike
func (h *QuestionHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.Dislike)
}

// RemoveDislike handles DELETE /api/v1/questions/{questionID}/dislike
func (h *QuestionHandler) RemoveDislike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.RemoveDislike)
}

// Save handles PUT /api/v1/questions/{questionID}/save
func (h *QuestionHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.SaveContent)
}

// Unsave handles DELETE /api/v1/questions/{questionID}/save
func (h *QuestionHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.UnsaveContent)
}

// Share handles POST /api/v1/questions/{questionID}/share
func (h *QuestionHandler) Share(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagement.ShareContent)
}

// GetEngagement handles GET /api/v1/questions/{questionID}/engagement
func (h *QuestionHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	questionID, err := pathID(r, "questionID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	engagement, err := h.engagement.GetEngagement(r.Context(), &services.EngagementRequest{
		Kind:      models.ContentKindQuestion,
		ContentID: questionID,
		ProfileID: profileID,
	})
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteSuccess(w, r, engagement)
}

func (h *QuestionHandler) engage(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, req *services.EngagementRequest) error) {
	profileID, err := actingProfileID(r)
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	questionID, err := pathID(r, "questionID")
	if err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	if err := op(r.Context(), &services.EngagementRequest{
		Kind:      models.ContentKindQuestion,
		ContentID: questionID,
		ProfileID: profileID,
	}); err != nil {
		h.builder.WriteError(w, r, err)
		return
	}

	h.builder.WriteNoContent(w, r)
}
