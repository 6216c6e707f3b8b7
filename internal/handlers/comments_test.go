package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/pagination"
	"github.com/viewtube/backend/internal/repositories"
)

type commentRepoStub struct {
	comments map[models.Key]models.Comment

	byVideo    []models.CommentFeedItem
	total      int
	lastWindow pagination.Params
}

func newCommentRepoStub() *commentRepoStub {
	return &commentRepoStub{comments: make(map[models.Key]models.Comment)}
}

func (s *commentRepoStub) Create(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *commentRepoStub) FindByID(_ context.Context, id models.Key) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *commentRepoStub) Update(_ context.Context, comment models.Comment) error {
	if _, ok := s.comments[comment.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.comments[comment.ID] = comment
	return nil
}

func (s *commentRepoStub) Delete(_ context.Context, id models.Key) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *commentRepoStub) ByVideo(_ context.Context, _ models.Key, window pagination.Params) ([]models.CommentFeedItem, int, error) {
	s.lastWindow = window
	return s.byVideo, s.total, nil
}

var _ repositories.CommentRepository = (*commentRepoStub)(nil)

func TestCommentAddRequiresAuth(t *testing.T) {
	handler := CommentHandler{Comments: newCommentRepoStub(), Sessions: newStubSessions(nil)}

	video := models.NewKey()
	req := jsonRequest(t, http.MethodPost, "/api/v1/videos/"+video.String()+"/comments", map[string]string{"content": "hi"})
	req.SetPathValue("videoId", video.String())
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 got %d", rec.Code)
	}
}

func TestCommentAddRejectsEmptyContent(t *testing.T) {
	actor := models.NewKey()
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	handler := CommentHandler{Comments: newCommentRepoStub(), Sessions: sessions}

	video := models.NewKey()
	req := authorize(jsonRequest(t, http.MethodPost, "/api/v1/videos/"+video.String()+"/comments", map[string]string{"content": "   "}), "tok")
	req.SetPathValue("videoId", video.String())
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestCommentAdd(t *testing.T) {
	actor := models.NewKey()
	comments := newCommentRepoStub()
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	handler := CommentHandler{Comments: comments, Sessions: sessions}

	video := models.NewKey()
	req := authorize(jsonRequest(t, http.MethodPost, "/api/v1/videos/"+video.String()+"/comments", map[string]string{"content": "nice upload"}), "tok")
	req.SetPathValue("videoId", video.String())
	rec := httptest.NewRecorder()

	handler.Add(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(comments.comments) != 1 {
		t.Fatalf("expected one stored comment, got %d", len(comments.comments))
	}
	for _, comment := range comments.comments {
		if comment.Video != video || comment.Owner != actor || comment.Content != "nice upload" {
			t.Fatalf("unexpected stored comment: %+v", comment)
		}
	}
}

func TestCommentListPagination(t *testing.T) {
	comments := newCommentRepoStub()
	comments.byVideo = []models.CommentFeedItem{{ID: models.NewKey()}}
	comments.total = 21

	handler := CommentHandler{Comments: comments, Sessions: newStubSessions(nil)}

	video := models.NewKey()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.String()+"/comments?page=3&limit=10", nil)
	req.SetPathValue("videoId", video.String())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if comments.lastWindow.Page != 3 || comments.lastWindow.Limit != 10 {
		t.Fatalf("unexpected window: %+v", comments.lastWindow)
	}

	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", env.Data)
	}
	if got := data["totalPages"]; got != float64(3) {
		t.Fatalf("expected totalPages 3 got %v", got)
	}
}

func TestCommentUpdateRejectsNonOwner(t *testing.T) {
	owner := models.NewKey()
	intruder := models.NewKey()
	comments := newCommentRepoStub()

	comment := models.Comment{ID: models.NewKey(), Content: "mine", Owner: owner, Video: models.NewKey()}
	comments.comments[comment.ID] = comment

	sessions := newStubSessions(map[string]models.Key{"intruder": intruder})
	handler := CommentHandler{Comments: comments, Sessions: sessions}

	req := authorize(jsonRequest(t, http.MethodPatch, "/api/v1/comments/"+comment.ID.String(), map[string]string{"content": "defaced"}), "intruder")
	req.SetPathValue("commentId", comment.ID.String())
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}
	if comments.comments[comment.ID].Content != "mine" {
		t.Fatalf("content changed despite forbidden update")
	}
}

func TestCommentDeleteByOwner(t *testing.T) {
	owner := models.NewKey()
	comments := newCommentRepoStub()

	comment := models.Comment{ID: models.NewKey(), Owner: owner, Video: models.NewKey()}
	comments.comments[comment.ID] = comment

	sessions := newStubSessions(map[string]models.Key{"owner": owner})
	handler := CommentHandler{Comments: comments, Sessions: sessions}

	req := authorize(httptest.NewRequest(http.MethodDelete, "/api/v1/comments/"+comment.ID.String(), nil), "owner")
	req.SetPathValue("commentId", comment.ID.String())
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if _, ok := comments.comments[comment.ID]; ok {
		t.Fatalf("comment still present after delete")
	}
}
