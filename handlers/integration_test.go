// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Voters register and log in
// 2. Admin creates an election with candidates
// 3. Admin activates the election
// 4. Voters cast votes
// 5. A double vote is rejected
// 6. Admin closes the election
// 7. Votes after close are rejected
// 8. Verify results and stats
func TestFullElectionWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	accountHandler := NewAccountHandler(db, cfg)
	electionHandler := NewElectionHandler(db, cfg)
	voteHandler := NewVoteHandler(db, cfg)
	resultsHandler := NewResultsHandler(db, cfg)

	// Step 1: Register two voters and log the first one in
	voterIDs := make([]string, 2)
	for i, email := range []string{"alice@example.com", "bob@example.com"} {
		req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
			Email:    email,
			Password: "password123",
		}, nil)
		w := httptest.NewRecorder()
		accountHandler.Register(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 1 - Registration failed: %d - %s", w.Code, w.Body.String())
		}

		var resp models.RegisterResponse
		testutil.AssertJSON(t, w, &resp)
		voterIDs[i] = resp.AccountID
	}

	loginReq := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()
	accountHandler.Login(w, loginReq)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Login failed: %d - %s", w.Code, w.Body.String())
	}

	var loginResp models.LoginResponse
	testutil.AssertJSON(t, w, &loginResp)

	identity, err := auth.ParseToken(loginResp.Token, []byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("Step 1 - Issued token does not verify: %v", err)
	}
	if identity.AccountID != voterIDs[0] {
		t.Fatalf("Step 1 - Token identity mismatch: %s", identity.AccountID)
	}
	t.Logf("Step 1 - Registered and logged in voters")

	// Step 2: Create an election with two candidates
	now := time.Now()
	req := testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
		Title:       "Integration Test Election",
		Description: "Testing the full election workflow",
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(time.Hour),
		Candidates: []models.NewCandidate{
			{Name: "Carol", Party: "Progress"},
			{Name: "Dave", Party: "Unity"},
		},
	}, nil)
	w = httptest.NewRecorder()
	electionHandler.CreateElection(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create election failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateElectionResponse
	testutil.AssertJSON(t, w, &createResp)
	electionID := createResp.ElectionID
	carol, dave := createResp.CandidateIDs[0], createResp.CandidateIDs[1]
	t.Logf("Step 2 - Created election: %s", electionID)

	// Step 3: Voting before activation must fail
	req = testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
		ElectionID:  electionID,
		CandidateID: carol,
	}, nil)
	req = middleware.WithIdentity(req, auth.Identity{AccountID: voterIDs[0], Role: auth.RoleVoter})
	w = httptest.NewRecorder()
	voteHandler.CastVote(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("Step 3 - Expected conflict voting on pending election, got %d", w.Code)
	}

	status := models.StatusActive
	req = testutil.MakeRequest("PUT", "/elections/"+electionID, models.UpdateElectionRequest{
		Status: &status,
	}, nil)
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	electionHandler.UpdateElection(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Activation failed: %d - %s", w.Code, w.Body.String())
	}
	t.Logf("Step 3 - Activated election")

	// Step 4: Both voters cast votes
	for i, vote := range []struct {
		accountID   string
		candidateID string
	}{
		{voterIDs[0], carol},
		{voterIDs[1], dave},
	} {
		req = testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
			ElectionID:  electionID,
			CandidateID: vote.candidateID,
		}, nil)
		req = middleware.WithIdentity(req, auth.Identity{AccountID: vote.accountID, Role: auth.RoleVoter})
		w = httptest.NewRecorder()
		voteHandler.CastVote(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 4 - Vote %d failed: %d - %s", i, w.Code, w.Body.String())
		}
	}
	t.Logf("Step 4 - Both voters cast votes")

	// Step 5: First voter tries to vote again
	req = testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
		ElectionID:  electionID,
		CandidateID: dave,
	}, nil)
	req = middleware.WithIdentity(req, auth.Identity{AccountID: voterIDs[0], Role: auth.RoleVoter})
	w = httptest.NewRecorder()
	voteHandler.CastVote(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("Step 5 - Expected conflict on double vote, got %d", w.Code)
	}

	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.Code != models.CodeAlreadyVoted {
		t.Fatalf("Step 5 - Expected code %s, got %s", models.CodeAlreadyVoted, errResp.Code)
	}
	t.Logf("Step 5 - Double vote rejected")

	// Step 6: My-vote reflects the recorded choice
	req = testutil.MakeRequest("GET", "/elections/"+electionID+"/my-vote", nil, nil)
	req.SetPathValue("id", electionID)
	req = middleware.WithIdentity(req, auth.Identity{AccountID: voterIDs[0], Role: auth.RoleVoter})
	w = httptest.NewRecorder()
	voteHandler.MyVote(w, req)

	var myVote models.MyVoteResponse
	testutil.AssertJSON(t, w, &myVote)
	if !myVote.HasVoted || myVote.CandidateID == nil || *myVote.CandidateID != carol {
		t.Fatalf("Step 6 - Unexpected my-vote response: %+v", myVote)
	}

	// Step 7: Close the election; further votes are rejected
	status = models.StatusClosed
	req = testutil.MakeRequest("PUT", "/elections/"+electionID, models.UpdateElectionRequest{
		Status: &status,
	}, nil)
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	electionHandler.UpdateElection(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Close failed: %d - %s", w.Code, w.Body.String())
	}

	lateVoter := testutil.CreateTestAccount(t, db, "late@example.com", "password123", auth.RoleVoter)
	req = testutil.MakeRequest("POST", "/votes", models.CastVoteRequest{
		ElectionID:  electionID,
		CandidateID: carol,
	}, nil)
	req = middleware.WithIdentity(req, auth.Identity{AccountID: lateVoter, Role: auth.RoleVoter})
	w = httptest.NewRecorder()
	voteHandler.CastVote(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("Step 7 - Expected conflict voting on closed election, got %d", w.Code)
	}
	t.Logf("Step 7 - Closed election, late vote rejected")

	// Step 8: Results and stats
	req = testutil.MakeRequest("GET", "/elections/"+electionID+"/results", nil, nil)
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 8 - Results failed: %d - %s", w.Code, w.Body.String())
	}

	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 2 {
		t.Errorf("Step 8 - Expected 2 total votes, got %d", results.TotalVotes)
	}
	for _, res := range results.Results {
		if res.VoteCount != 1 || res.Percentage != 50.0 {
			t.Errorf("Step 8 - Expected an even split, got %+v", res)
		}
	}

	req = testutil.MakeRequest("GET", "/elections/"+electionID+"/stats", nil, nil)
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	resultsHandler.GetStats(w, req)

	var stats models.StatsResponse
	testutil.AssertJSON(t, w, &stats)
	if stats.TotalVoters != 2 || stats.TotalVotes != 2 {
		t.Errorf("Step 8 - Unexpected stats: %+v", stats)
	}
	// alice, bob, late
	if stats.EligibleVoters != 3 {
		t.Errorf("Step 8 - Expected 3 eligible voters, got %d", stats.EligibleVoters)
	}
	t.Logf("Step 8 - Verified results and stats")

	// Step 9: History shows the vote for both voters
	for _, accountID := range voterIDs {
		req = testutil.MakeRequest("GET", "/votes/history", nil, nil)
		req = middleware.WithIdentity(req, auth.Identity{AccountID: accountID, Role: auth.RoleVoter})
		w = httptest.NewRecorder()
		voteHandler.History(w, req)

		var history []models.HistoryEntry
		testutil.AssertJSON(t, w, &history)
		if len(history) != 1 {
			t.Errorf("Step 9 - Expected 1 history entry, got %d", len(history))
		}
	}
	t.Logf("Step 9 - Verified voting history")
}
