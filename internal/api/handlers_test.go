package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"example.com/octofit/internal/auth"
	"example.com/octofit/internal/domain"
	"example.com/octofit/internal/persistence/memory"
)

type fixture struct {
	router    *mux.Router
	directory *domain.Directory
	ledger    *domain.Ledger
	running   *domain.ActivityType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := memory.NewRepository()
	ledger := domain.NewLedger(repo, logger)
	ranker := domain.NewRanker(repo, logger)
	directory := domain.NewDirectory(repo, logger)

	running, err := directory.CreateActivityType(context.Background(), domain.ActivityType{
		Name:            "Running",
		PointsPerMinute: 10,
		Category:        domain.CategoryCardio,
	})
	if err != nil {
		t.Fatalf("seed activity type: %v", err)
	}

	router := mux.NewRouter()
	NewHandler(ledger, ranker, directory, domain.NewCoach(repo, logger), logger).RegisterRoutes(router)
	return &fixture{router: router, directory: directory, ledger: ledger, running: running}
}

func (f *fixture) register(t *testing.T, id, username string) {
	t.Helper()
	if _, err := f.directory.RegisterUser(context.Background(), domain.User{ID: id, Username: username}); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
}

func (f *fixture) do(method, path string, body interface{}, claims *auth.Claims) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func claimsFor(subject string, scopes ...string) *auth.Claims {
	set := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return &auth.Claims{
		Subject:   subject,
		Username:  subject,
		Scopes:    set,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func allScopes(subject string) *auth.Claims {
	return claimsFor(subject, auth.AllScopes()...)
}

func TestLogActivityAwardsPointsAndUpdatesTotal(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	rr := f.do(http.MethodPost, "/v1/activities", map[string]interface{}{
		"activity_type_id": f.running.ID,
		"duration_minutes": 30,
		"intensity":        "high",
	}, allScopes("user-1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ledgerEntryView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Activity.PointsAwarded != 390 {
		t.Fatalf("expected 390 points got %d", resp.Activity.PointsAwarded)
	}
	if resp.TotalPoints != 390 {
		t.Fatalf("expected total 390 got %d", resp.TotalPoints)
	}
	if resp.Activity.ActivityTypeName != "Running" {
		t.Fatalf("unexpected activity type name %q", resp.Activity.ActivityTypeName)
	}

	rr = f.do(http.MethodGet, "/v1/profile", nil, allScopes("user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var profile profileView
	if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.TotalPoints != 390 {
		t.Fatalf("expected profile total 390 got %d", profile.TotalPoints)
	}
}

func TestLogActivityRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero duration", map[string]interface{}{"activity_type_id": f.running.ID, "duration_minutes": 0, "intensity": "low"}},
		{"negative duration", map[string]interface{}{"activity_type_id": f.running.ID, "duration_minutes": -5, "intensity": "low"}},
		{"duration over a day", map[string]interface{}{"activity_type_id": f.running.ID, "duration_minutes": 1441, "intensity": "low"}},
		{"duration overflows", map[string]interface{}{"activity_type_id": f.running.ID, "duration_minutes": int64(1) << 62, "intensity": "high"}},
		{"unknown intensity", map[string]interface{}{"activity_type_id": f.running.ID, "duration_minutes": 10, "intensity": "extreme"}},
		{"unknown type", map[string]interface{}{"activity_type_id": "missing", "duration_minutes": 10, "intensity": "low"}},
		{"client points", map[string]interface{}{"activity_type_id": f.running.ID, "duration_minutes": 10, "intensity": "low", "points_awarded": 999}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := f.do(http.MethodPost, "/v1/activities", tc.body, allScopes("user-1"))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}

	profile, err := f.ledger.Profile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalPoints != 0 {
		t.Fatalf("rejected requests changed total to %d", profile.TotalPoints)
	}
}

func TestIntensityIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	rr := f.do(http.MethodPost, "/v1/activities", map[string]interface{}{
		"activity_type_id": f.running.ID,
		"duration_minutes": 30,
		"intensity":        "HIGH",
	}, allScopes("user-1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var created ledgerEntryView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Activity.Intensity != "high" || created.Activity.PointsAwarded != 390 {
		t.Fatalf("unexpected activity %+v", created.Activity)
	}

	rr = f.do(http.MethodPatch, "/v1/activities/"+created.Activity.ID, map[string]interface{}{
		"intensity": " Low ",
	}, allScopes("user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	var revised ledgerEntryView
	if err := json.Unmarshal(rr.Body.Bytes(), &revised); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if revised.Activity.Intensity != "low" || revised.TotalPoints != 240 {
		t.Fatalf("unexpected revision %+v", revised)
	}
}

// conflictingStore fails every ledger write the way a serialization
// failure in Postgres does.
type conflictingStore struct {
	*memory.Repository
}

func (conflictingStore) RecordActivity(context.Context, domain.Activity) (int, error) {
	return 0, &domain.ConsistencyError{Op: "record activity", Err: errors.New("could not serialize access")}
}

func TestLedgerConflictIsReportedAs409(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx := context.Background()

	repo := memory.NewRepository()
	directory := domain.NewDirectory(repo, logger)
	running, err := directory.CreateActivityType(ctx, domain.ActivityType{Name: "Running", PointsPerMinute: 10, Category: domain.CategoryCardio})
	if err != nil {
		t.Fatalf("seed activity type: %v", err)
	}
	if _, err := directory.RegisterUser(ctx, domain.User{ID: "user-1", Username: "ada"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	router := mux.NewRouter()
	ledger := domain.NewLedger(conflictingStore{repo}, logger)
	NewHandler(ledger, domain.NewRanker(repo, logger), directory, domain.NewCoach(repo, logger), logger).RegisterRoutes(router)

	raw, _ := json.Marshal(map[string]interface{}{"activity_type_id": running.ID, "duration_minutes": 30, "intensity": "high"})
	req := httptest.NewRequest(http.MethodPost, "/v1/activities", bytes.NewReader(raw))
	req = req.WithContext(auth.WithClaims(req.Context(), allScopes("user-1")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["type"] != "conflict" {
		t.Fatalf("expected conflict type got %q", body["type"])
	}

	profile, err := ledger.Profile(ctx, "user-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalPoints != 0 {
		t.Fatalf("conflicting write changed total to %d", profile.TotalPoints)
	}
}

func TestLogActivityForUnregisteredUserIsNotFound(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPost, "/v1/activities", map[string]interface{}{
		"activity_type_id": f.running.ID,
		"duration_minutes": 10,
		"intensity":        "medium",
	}, allScopes("stranger"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["type"] != "not_found" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestScopesAreEnforced(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	rr := f.do(http.MethodPost, "/v1/activities", map[string]interface{}{
		"activity_type_id": f.running.ID,
		"duration_minutes": 10,
		"intensity":        "medium",
	}, claimsFor("user-1", auth.ScopeActivitiesRead))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}

	rr = f.do(http.MethodGet, "/v1/leaderboard/users", nil, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestUpdateActivityRecomputesPoints(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	entry, err := f.ledger.LogActivity(context.Background(), domain.LogActivityInput{
		UserID:         "user-1",
		ActivityTypeID: f.running.ID,
		DurationMin:    30,
		Intensity:      "medium",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	rr := f.do(http.MethodPatch, "/v1/activities/"+entry.Activity.ID, map[string]interface{}{
		"intensity": "low",
	}, allScopes("user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	var resp ledgerEntryView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Activity.PointsAwarded != 240 || resp.TotalPoints != 240 {
		t.Fatalf("expected 240/240 got %d/%d", resp.Activity.PointsAwarded, resp.TotalPoints)
	}

	rr = f.do(http.MethodGet, "/v1/activities/"+entry.Activity.ID, nil, allScopes("someone-else"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's activity got %d", rr.Code)
	}

	rr = f.do(http.MethodPatch, "/v1/activities/"+entry.Activity.ID, map[string]interface{}{}, allScopes("user-1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty revision got %d", rr.Code)
	}
}

func TestListActivitiesPaginatesWithCursor(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	base := time.Date(2025, time.March, 1, 7, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := f.ledger.LogActivity(context.Background(), domain.LogActivityInput{
			UserID:         "user-1",
			ActivityTypeID: f.running.ID,
			DurationMin:    10 + i,
			Intensity:      "medium",
			LoggedAt:       base.Add(time.Duration(i) * 24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
	}

	rr := f.do(http.MethodGet, "/v1/activities?limit=2", nil, allScopes("user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var page activityListView
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 items and a cursor, got %d items cursor=%q", len(page.Items), page.NextCursor)
	}
	if page.Items[0].DurationMin != 12 {
		t.Fatalf("expected newest first, got %d minutes", page.Items[0].DurationMin)
	}

	rr = f.do(http.MethodGet, "/v1/activities?limit=2&cursor="+page.NextCursor, nil, allScopes("user-1"))
	var rest activityListView
	if err := json.Unmarshal(rr.Body.Bytes(), &rest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rest.Items) != 1 || rest.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d cursor=%q", len(rest.Items), rest.NextCursor)
	}

	rr = f.do(http.MethodGet, "/v1/activities?start_date=2025-03-02&end_date=2025-03-02", nil, allScopes("user-1"))
	var filtered activityListView
	if err := json.Unmarshal(rr.Body.Bytes(), &filtered); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].DurationMin != 11 {
		t.Fatalf("date filter returned %+v", filtered.Items)
	}

	rr = f.do(http.MethodGet, "/v1/activities?cursor=not-a-cursor!", nil, allScopes("user-1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad cursor got %d", rr.Code)
	}
}

func TestActivityStats(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")
	for _, minutes := range []int{10, 20} {
		if _, err := f.ledger.LogActivity(context.Background(), domain.LogActivityInput{
			UserID: "user-1", ActivityTypeID: f.running.ID, DurationMin: minutes, Intensity: "medium",
		}); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	rr := f.do(http.MethodGet, "/v1/activities/stats", nil, allScopes("user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var stats statsView
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalActivities != 2 || stats.TotalMinutes != 30 || stats.TotalPoints != 300 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(stats.Breakdown) != 1 || stats.Breakdown[0].ActivityType != "Running" {
		t.Fatalf("unexpected breakdown %+v", stats.Breakdown)
	}
}

func TestPutProfileRegistersAndUpdates(t *testing.T) {
	f := newFixture(t)

	rr := f.do(http.MethodPut, "/v1/profile", nil, allScopes("new-user"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	rr = f.do(http.MethodPut, "/v1/profile", map[string]interface{}{
		"fitness_level": "advanced",
		"height_cm":     180.5,
		"date_of_birth": "1990-04-12",
	}, allScopes("new-user"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	var profile profileView
	if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.FitnessLevel != "advanced" || profile.HeightCM == nil || *profile.HeightCM != 180.5 {
		t.Fatalf("profile not updated: %+v", profile)
	}
	if profile.DateOfBirth == nil || *profile.DateOfBirth != "1990-04-12" {
		t.Fatalf("unexpected date of birth %v", profile.DateOfBirth)
	}
	if profile.TotalPoints != 0 {
		t.Fatalf("expected zero total got %d", profile.TotalPoints)
	}

	rr = f.do(http.MethodPut, "/v1/profile", map[string]interface{}{"fitness_level": "elite"}, allScopes("new-user"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestLeaderboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, minutes := range map[string]int{"u-a": 10, "u-b": 30, "u-c": 10} {
		f.register(t, i, i)
		if _, err := f.ledger.LogActivity(ctx, domain.LogActivityInput{
			UserID: i, ActivityTypeID: f.running.ID, DurationMin: minutes, Intensity: "medium",
		}); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	team, err := f.directory.CreateTeam(ctx, "Avengers", "", "u-a")
	if err != nil {
		t.Fatalf("team: %v", err)
	}
	if err := f.directory.AddMember(ctx, team.ID, "u-b"); err != nil {
		t.Fatalf("add member: %v", err)
	}

	rr := f.do(http.MethodGet, "/v1/leaderboard/users?limit=2", nil, allScopes("u-a"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	var users []userStandingView
	if err := json.Unmarshal(rr.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 rows got %d", len(users))
	}
	if users[0].UserID != "u-b" || users[0].Rank != 1 || users[1].UserID != "u-a" || users[1].Rank != 2 {
		t.Fatalf("unexpected order %+v", users)
	}

	rr = f.do(http.MethodGet, "/v1/leaderboard/teams", nil, allScopes("u-a"))
	var teams []teamStandingView
	if err := json.Unmarshal(rr.Body.Bytes(), &teams); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(teams) != 1 || teams[0].TotalPoints != 400 || teams[0].MemberCount != 2 {
		t.Fatalf("unexpected teams %+v", teams)
	}

	rr = f.do(http.MethodGet, "/v1/teams", nil, allScopes("u-b"))
	var mine []teamView
	if err := json.Unmarshal(rr.Body.Bytes(), &mine); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Avengers" {
		t.Fatalf("unexpected team list %+v", mine)
	}

	rr = f.do(http.MethodGet, "/v1/leaderboard/users?limit=-1", nil, allScopes("u-a"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit got %d", rr.Code)
	}
}

func TestHealthzNeedsNoClaims(t *testing.T) {
	f := newFixture(t)
	rr := f.do(http.MethodGet, "/healthz", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestWorkoutSuggestionsAreScopedToTheirOwner(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")
	f.register(t, "user-2", "grace")

	rr := f.do(http.MethodPost, "/v1/workout-suggestions", map[string]interface{}{
		"title":                "Tempo run",
		"recommended_duration": 45,
		"activity_type_ids":    []string{f.running.ID},
	}, allScopes("user-1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var created suggestionView
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UserID != "user-1" || created.DifficultyLevel != "beginner" || created.IsCompleted {
		t.Fatalf("unexpected suggestion %+v", created)
	}
	if len(created.ActivityTypes) != 1 || created.ActivityTypes[0].Name != "Running" {
		t.Fatalf("unexpected activity types %+v", created.ActivityTypes)
	}

	rr = f.do(http.MethodGet, "/v1/workout-suggestions/"+created.ID, nil, allScopes("user-2"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user got %d", rr.Code)
	}
	rr = f.do(http.MethodPost, "/v1/workout-suggestions/"+created.ID+"/complete", nil, allScopes("user-2"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 completing another user's suggestion got %d", rr.Code)
	}
	rr = f.do(http.MethodGet, "/v1/workout-suggestions", nil, allScopes("user-2"))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list for another user got %d: %s", rr.Code, rr.Body.String())
	}

	rr = f.do(http.MethodPost, "/v1/workout-suggestions/"+created.ID+"/complete", nil, allScopes("user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	var completed suggestionView
	if err := json.Unmarshal(rr.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !completed.IsCompleted || completed.CompletedAt == nil {
		t.Fatalf("suggestion not completed: %+v", completed)
	}

	rr = f.do(http.MethodGet, "/v1/workout-suggestions?completed=false", nil, allScopes("user-1"))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected no open suggestions got %d: %s", rr.Code, rr.Body.String())
	}
	rr = f.do(http.MethodGet, "/v1/workout-suggestions?completed=true", nil, allScopes("user-1"))
	var done []suggestionView
	if err := json.Unmarshal(rr.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(done) != 1 || done[0].ID != created.ID {
		t.Fatalf("unexpected completed list %+v", done)
	}
}

func TestCreateWorkoutSuggestionRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	f.register(t, "user-1", "ada")

	cases := map[string]map[string]interface{}{
		"missing title":      {"recommended_duration": 30},
		"zero duration":      {"title": "Rest", "recommended_duration": 0},
		"duration over day":  {"title": "Ultra", "recommended_duration": 1441},
		"unknown difficulty": {"title": "Climb", "recommended_duration": 30, "difficulty_level": "elite"},
		"unknown type":       {"title": "Swim", "recommended_duration": 30, "activity_type_ids": []string{"does-not-exist"}},
		"empty type id":      {"title": "Swim", "recommended_duration": 30, "activity_type_ids": []string{""}},
	}
	for name, body := range cases {
		rr := f.do(http.MethodPost, "/v1/workout-suggestions", body, allScopes("user-1"))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d: %s", name, rr.Code, rr.Body.String())
		}
	}

	rr := f.do(http.MethodGet, "/v1/workout-suggestions?completed=maybe", nil, allScopes("user-1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad filter got %d", rr.Code)
	}
	rr = f.do(http.MethodPost, "/v1/workout-suggestions", map[string]interface{}{"title": "Walk", "recommended_duration": 20},
		claimsFor("user-1", auth.ScopeActivitiesRead))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without write scope got %d", rr.Code)
	}
}
