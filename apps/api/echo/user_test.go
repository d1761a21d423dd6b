package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/ligi/core/user"
)

func Test_userApi_login(t *testing.T) {
	db.Reset()

	createUser(t, "Jane Admin", "janeadmin", "jane@ligi.test", "LeagueP@ss1", []string{user.RoleAdmin}, true)
	createUser(t, "Inactive Ivo", "inactivo", "ivo@ligi.test", "LeagueP@ss1", nil, false)

	tests := []httpTest{
		{
			name:     "empty credentials fail",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "username is a required field",
				"password": "password is a required field",
			}),
		},
		{
			name:     "unknown username fails",
			body:     []byte(`{"username": "nobody", "password": "LeagueP@ss1"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password fails",
			body:     []byte(`{"username": "janeadmin", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "deactivated account is rejected",
			body:     []byte(`{"username": "inactivo", "password": "LeagueP@ss1"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("valid credentials return a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			[]byte(`{"username": "janeadmin", "password": "LeagueP@ss1"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		if rec.Body.Len() == 0 {
			t.Error("failed! empty response body")
		}
	})

	t.Run("login by email works too", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			[]byte(`{"username": "jane@ligi.test", "password": "LeagueP@ss1"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})
}

func Test_userApi_query(t *testing.T) {
	db.Reset()

	admin := createUser(t, "Jane Admin", "janeadmin", "jane@ligi.test", "LeagueP@ss1", []string{user.RoleAdmin}, true)
	editor := createUser(t, "Ed Editor", "ededitor", "ed@ligi.test", "LeagueP@ss1", []string{user.RoleEditor}, true)

	tests := []httpTest{
		{
			name:     "anonymous is rejected",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "non-admin is rejected",
			token:    getToken(t, editor),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "admin gets all users",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallList(t, admin, editor),
		},
		{
			name:     "search filters",
			path:     "/v1/users?search=editor",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallList(t, editor),
		},
		{
			name:     "role filter matches prefix",
			path:     "/v1/users?role=admin:",
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallList(t, admin),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = "/v1/users"
			}
			req, rec := newAuthRequest(http.MethodGet, path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	db.Reset()

	admin := createUser(t, "Jane Admin", "janeadmin", "jane@ligi.test", "LeagueP@ss1", []string{user.RoleAdmin}, true)
	coach := createUser(t, "Carl Coach", "carlcoach", "carl@ligi.test", "LeagueP@ss1", []string{user.RoleCoach}, true)

	tests := []httpTest{
		{
			name:     "user can retrieve themselves",
			path:     "/v1/users/" + coach.ID,
			token:    getToken(t, coach),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, coach),
		},
		{
			name:     "non-admin cannot see others",
			path:     "/v1/users/" + admin.ID,
			token:    getToken(t, coach),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "admin can see anyone",
			path:     "/v1/users/" + coach.ID,
			token:    getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, coach),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	db.Reset()

	admin := createUser(t, "Jane Admin", "janeadmin", "jane@ligi.test", "LeagueP@ss1", []string{user.RoleAdminLeague}, true)
	editor := createUser(t, "Ed Editor", "ededitor", "ed@ligi.test", "LeagueP@ss1", []string{user.RoleEditor}, true)

	body := []byte(`{
		"name": "New Coach",
		"username": "newcoach",
		"email": "coach@ligi.test",
		"password": "LeagueP@ss1",
		"password_confirm": "LeagueP@ss1",
		"roles": ["coach:"]
	}`)

	t.Run("non-admin cannot register users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, editor), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("admin registers a user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})

	t.Run("cannot grant a role above own max", func(t *testing.T) {
		body := []byte(`{
			"name": "Side Door",
			"username": "sidedoor",
			"email": "side@ligi.test",
			"password": "LeagueP@ss1",
			"password_confirm": "LeagueP@ss1",
			"roles": ["admin:owner"]
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"roles": errNoPermsToSetRoles}),
		}
		checkCodeAndData(t, tt, rec)
	})
}

func Test_userApi_destroy(t *testing.T) {
	db.Reset()

	admin := createUser(t, "Jane Admin", "janeadmin", "jane@ligi.test", "LeagueP@ss1", []string{user.RoleAdmin}, true)
	coach := createUser(t, "Carl Coach", "carlcoach", "carl@ligi.test", "LeagueP@ss1", []string{user.RoleCoach}, true)

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+coach.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNoContent)
		}
		if _, err := usrSvc.GetByID(coach.ID); err != user.ErrNotFound {
			t.Errorf("user still exists; err = %v", err)
		}
	})
}
