package controllers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/saiyam0211/smart-urban-backend/internal/dtos"
	"github.com/saiyam0211/smart-urban-backend/internal/middleware"
	"github.com/saiyam0211/smart-urban-backend/internal/models"
	"github.com/saiyam0211/smart-urban-backend/internal/routes"
	"github.com/saiyam0211/smart-urban-backend/internal/services"
)

// stubProblemService serves canned data so routing and response shape
// can be tested without a store.
type stubProblemService struct {
	boards services.Leaderboards
}

func (s *stubProblemService) Report(context.Context, uuid.UUID, string, string, models.ProblemCategoryType, float64, float64, string) (*models.Problem, error) {
	return nil, nil
}

func (s *stubProblemService) Transition(context.Context, uuid.UUID, models.ProblemStatusType, uuid.UUID) (*models.Problem, error) {
	return nil, nil
}

func (s *stubProblemService) ListAll(context.Context) ([]*models.Problem, error) {
	return nil, nil
}

func (s *stubProblemService) ListAssigned(context.Context, uuid.UUID) ([]*models.Problem, error) {
	return nil, nil
}

func (s *stubProblemService) Leaderboards(context.Context) (*services.Leaderboards, error) {
	return &s.boards, nil
}

// newTestRouter mirrors the wiring in cmd/main.go: leaderboards on the
// public router, problem listing behind the auth middleware.
func newTestRouter(t *testing.T, c *ProblemsController) *mux.Router {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	router := mux.NewRouter()
	router.HandleFunc(routes.ProblemsLeaderboards, c.LeaderboardsHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(&priv.PublicKey))
	secured.HandleFunc(routes.ProblemsBase, c.ListProblemsHandler).Methods(http.MethodGet)

	return router
}

func TestLeaderboardsServedWithoutCredential(t *testing.T) {
	stub := &stubProblemService{
		boards: services.Leaderboards{
			Users:      []*models.User{{ID: uuid.New(), Name: "Asha", Contributions: 3}},
			Volunteers: []*models.Volunteer{{ID: uuid.New(), Name: "Ravi", Points: 20}},
		},
	}
	router := newTestRouter(t, NewProblemsController(stub, t.TempDir()))

	req := httptest.NewRequest(http.MethodGet, routes.ProblemsLeaderboards, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dtos.LeaderboardsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 1)
	require.Equal(t, "Asha", resp.Users[0].Name)
	require.Len(t, resp.Volunteers, 1)
	require.Equal(t, 20, resp.Volunteers[0].Points)
}

func TestProblemListingStillRequiresCredential(t *testing.T) {
	router := newTestRouter(t, NewProblemsController(&stubProblemService{}, t.TempDir()))

	req := httptest.NewRequest(http.MethodGet, routes.ProblemsBase, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
