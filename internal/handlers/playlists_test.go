package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

type playlistRepoStub struct {
	playlists map[models.Key]models.Playlist
	members   map[models.Key][]models.Key

	detail    models.PlaylistDetail
	detailErr error
}

func newPlaylistRepoStub() *playlistRepoStub {
	return &playlistRepoStub{
		playlists: make(map[models.Key]models.Playlist),
		members:   make(map[models.Key][]models.Key),
	}
}

func (s *playlistRepoStub) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *playlistRepoStub) FindByID(_ context.Context, id models.Key) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *playlistRepoStub) Update(_ context.Context, playlist models.Playlist) error {
	if _, ok := s.playlists[playlist.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *playlistRepoStub) Delete(_ context.Context, id models.Key) error {
	if _, ok := s.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

func (s *playlistRepoStub) ByOwner(_ context.Context, owner models.Key) ([]models.Playlist, error) {
	var out []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.Owner == owner {
			out = append(out, playlist)
		}
	}
	return out, nil
}

func (s *playlistRepoStub) AddVideo(_ context.Context, playlist, video models.Key) error {
	for _, member := range s.members[playlist] {
		if member == video {
			return nil
		}
	}
	s.members[playlist] = append(s.members[playlist], video)
	return nil
}

func (s *playlistRepoStub) RemoveVideo(_ context.Context, playlist, video models.Key) error {
	members := s.members[playlist]
	for i, member := range members {
		if member == video {
			s.members[playlist] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *playlistRepoStub) Detail(_ context.Context, _ models.Key) (models.PlaylistDetail, error) {
	return s.detail, s.detailErr
}

var _ repositories.PlaylistRepository = (*playlistRepoStub)(nil)

func TestPlaylistCreateRequiresName(t *testing.T) {
	actor := models.NewKey()
	sessions := newStubSessions(map[string]models.Key{"tok": actor})
	handler := PlaylistHandler{Playlists: newPlaylistRepoStub(), Sessions: sessions}

	req := authorize(jsonRequest(t, http.MethodPost, "/api/v1/playlists", map[string]string{"description": "no name"}), "tok")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestPlaylistAddVideoRejectsNonOwner(t *testing.T) {
	owner := models.NewKey()
	intruder := models.NewKey()
	playlists := newPlaylistRepoStub()

	playlist := models.Playlist{ID: models.NewKey(), Name: "mix", Owner: owner}
	playlists.playlists[playlist.ID] = playlist

	sessions := newStubSessions(map[string]models.Key{"intruder": intruder})
	handler := PlaylistHandler{Playlists: playlists, Sessions: sessions}

	video := models.NewKey()
	req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/playlists/"+playlist.ID.String()+"/videos/"+video.String(), nil), "intruder")
	req.SetPathValue("playlistId", playlist.ID.String())
	req.SetPathValue("videoId", video.String())
	rec := httptest.NewRecorder()

	handler.AddVideo(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 got %d", rec.Code)
	}
	if len(playlists.members[playlist.ID]) != 0 {
		t.Fatalf("video added despite forbidden request")
	}
}

func TestPlaylistAddVideoTwiceIsNoOp(t *testing.T) {
	owner := models.NewKey()
	playlists := newPlaylistRepoStub()

	playlist := models.Playlist{ID: models.NewKey(), Name: "mix", Owner: owner}
	playlists.playlists[playlist.ID] = playlist

	sessions := newStubSessions(map[string]models.Key{"owner": owner})
	handler := PlaylistHandler{Playlists: playlists, Sessions: sessions}

	video := models.NewKey()
	for i := 0; i < 2; i++ {
		req := authorize(httptest.NewRequest(http.MethodPost, "/api/v1/playlists/"+playlist.ID.String()+"/videos/"+video.String(), nil), "owner")
		req.SetPathValue("playlistId", playlist.ID.String())
		req.SetPathValue("videoId", video.String())
		rec := httptest.NewRecorder()

		handler.AddVideo(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status 200 got %d", i+1, rec.Code)
		}
	}

	if got := len(playlists.members[playlist.ID]); got != 1 {
		t.Fatalf("expected one member after duplicate add, got %d", got)
	}
}

func TestPlaylistRemoveMissingVideo(t *testing.T) {
	owner := models.NewKey()
	playlists := newPlaylistRepoStub()

	playlist := models.Playlist{ID: models.NewKey(), Name: "mix", Owner: owner}
	playlists.playlists[playlist.ID] = playlist

	sessions := newStubSessions(map[string]models.Key{"owner": owner})
	handler := PlaylistHandler{Playlists: playlists, Sessions: sessions}

	video := models.NewKey()
	req := authorize(httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/"+playlist.ID.String()+"/videos/"+video.String(), nil), "owner")
	req.SetPathValue("playlistId", playlist.ID.String())
	req.SetPathValue("videoId", video.String())
	rec := httptest.NewRecorder()

	handler.RemoveVideo(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 got %d", rec.Code)
	}
}
