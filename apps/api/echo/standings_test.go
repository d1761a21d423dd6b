package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/ligi/core/standings"
)

func Test_standingsApi_retrieve(t *testing.T) {
	db.Reset()

	simba := createTeam(t, "Simba FC", "Hilltop College")
	twiga := createTeam(t, "Twiga United", "Riverside College")
	chui := createTeam(t, "Chui City", "Lakeside College")
	createGroup(t, "Group A", simba.ID, twiga.ID)

	createResult(t, simba.ID, twiga.ID, 3, 1)
	createResult(t, chui.ID, simba.ID, 2, 2) // cross-group: ungrouped only

	req, rec := newRequest(http.MethodGet, "/v1/standings")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var snap standings.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshalling snapshot: %v", err)
	}

	if len(snap.Tables) != 2 {
		t.Fatalf("tables = %d; want 2 (group + ungrouped)", len(snap.Tables))
	}
	if snap.Tables[0].GroupName != "Group A" {
		t.Errorf("first table = %q; want %q", snap.Tables[0].GroupName, "Group A")
	}
	if snap.Tables[1].GroupID != standings.UngroupedID {
		t.Errorf("last table = %q; want %q", snap.Tables[1].GroupID, standings.UngroupedID)
	}
	if snap.SkippedResults != 0 {
		t.Errorf("skipped = %d; want 0", snap.SkippedResults)
	}

	groupA := snap.Tables[0]
	if groupA.Rows[0].TeamID != simba.ID || groupA.Rows[0].Points != 3 {
		t.Errorf("group A leader = %+v; want %s with 3 points", groupA.Rows[0], simba.ID)
	}
}
