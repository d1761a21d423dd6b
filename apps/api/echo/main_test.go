package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/ligi/core"
	"github.com/trezcool/ligi/core/group"
	"github.com/trezcool/ligi/core/post"
	"github.com/trezcool/ligi/core/result"
	"github.com/trezcool/ligi/core/standings"
	"github.com/trezcool/ligi/core/team"
	"github.com/trezcool/ligi/core/user"
	emailsvc "github.com/trezcool/ligi/services/email"
	logsvc "github.com/trezcool/ligi/services/logger"
	inmemdb "github.com/trezcool/ligi/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app Server

	usrRepo  user.Repository
	teamRepo team.Repository
	grpRepo  group.Repository
	resRepo  result.Repository
	postRepo post.Repository

	usrSvc  user.Service
	postSvc post.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	core.Conf = &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Ligi",
		SecretKey: "test-secret-key",
		DefaultFromEmail: mail.Address{
			Name:    "Ligi",
			Address: "noreply@ligi.test",
		},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
	core.InitValidators()
	user.InitValidators()

	logger := logsvc.NewTestLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))

	// set up DB & repos
	db = inmemdb.Open()
	usrRepo = inmemdb.NewUserRepository(db)
	teamRepo = inmemdb.NewTeamRepository(db)
	grpRepo = inmemdb.NewGroupRepository(db)
	resRepo = inmemdb.NewResultRepository(db)
	postRepo = inmemdb.NewPostRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc = user.NewServiceMock(usrRepo, mailSvc)
	teamSvc := team.NewService(teamRepo)
	grpSvc := group.NewService(grpRepo, teamRepo)
	resSvc := result.NewService(resRepo, teamRepo)
	standingsSvc := standings.NewService(teamRepo, grpRepo, resRepo, logger)
	postSvc = post.NewService(postRepo)

	// set up server
	app = NewServer("", ServerDeps{
		Logger:         logger,
		UserSvc:        usrSvc,
		TeamSvc:        teamSvc,
		GroupSvc:       grpSvc,
		ResultSvc:      resSvc,
		StandingsSvc:   standingsSvc,
		PostSvc:        postSvc,
		DisableReqLogs: true,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// fixtures

func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createTeam(t *testing.T, name, college string) team.Team {
	t.Helper()
	now := time.Now().UTC()
	tm, err := teamRepo.CreateTeam(team.Team{Name: name, College: college, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("createTeam() failed: %v", err)
	}
	return tm
}

func createGroup(t *testing.T, name string, teamIDs ...string) group.Group {
	t.Helper()
	now := time.Now().UTC()
	grp, err := grpRepo.CreateGroup(group.Group{Name: name, TeamIDs: teamIDs, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("createGroup() failed: %v", err)
	}
	if err = teamRepo.SetTeamsGroup(grp.ID, teamIDs); err != nil {
		t.Fatalf("createGroup() failed: %v", err)
	}
	return grp
}

func createResult(t *testing.T, homeID, awayID string, homeScore, awayScore int) result.Result {
	t.Helper()
	now := time.Now().UTC()
	res, err := resRepo.CreateResult(result.Result{
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		PlayedAt:   now,
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("createResult() failed: %v", err)
	}
	return res
}

func createPost(t *testing.T, kind, title, body, mediaURL, status string, publishAt time.Time) post.Post {
	t.Helper()
	now := time.Now().UTC()
	p, err := postRepo.CreatePost(post.Post{
		Kind:      kind,
		Title:     title,
		Slug:      post.Slugify(title),
		Body:      body,
		MediaURL:  mediaURL,
		Status:    status,
		PublishAt: publishAt,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createPost() failed: %v", err)
	}
	return p
}
