package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seals-cli/internal/core/services"
)

func startTestServer(t *testing.T) (*Server, *services.LabelingSession) {
	t.Helper()

	dataset, err := domain.NewDataset([][]float32{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}}, []int{0, 1, 0})
	require.NoError(t, err)

	session := services.NewLabelingSession(dataset, 3)
	srv := NewServer(session, 0)
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv, session
}

func postLabel(t *testing.T, base string, id, label string) *http.Response {
	t.Helper()
	form := url.Values{"id": {id}, "label": {label}}
	resp, err := http.Post(base+"/label", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func TestCandidate_NoPending(t *testing.T) {
	srv, _ := startTestServer(t)

	resp, err := http.Get(srv.URL() + "/candidate")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLabelExchange(t *testing.T) {
	srv, session := startTestServer(t)

	result := make(chan int, 1)
	go func() {
		label, err := session.Label(context.Background(), 1)
		if err != nil {
			result <- -1
			return
		}
		result <- label
	}()

	// Poll until the oracle has published the candidate.
	var candidate driving.Candidate
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL() + "/candidate")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		return json.NewDecoder(resp.Body).Decode(&candidate) == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, uint32(1), candidate.ID)
	assert.Contains(t, candidate.Preview, "0.300")

	resp := postLabel(t, srv.URL(), "1", "1")
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case label := <-result:
		assert.Equal(t, 1, label)
	case <-time.After(2 * time.Second):
		t.Fatal("oracle did not receive the submitted label")
	}

	var progress driving.Progress
	presp, err := http.Get(srv.URL() + "/progress")
	require.NoError(t, err)
	defer presp.Body.Close()
	require.NoError(t, json.NewDecoder(presp.Body).Decode(&progress))
	assert.Equal(t, 1, progress.Labeled)
	assert.Equal(t, 1, progress.Positives)
	assert.Equal(t, 3, progress.Budget)
}

func TestLabel_Invalid(t *testing.T) {
	srv, _ := startTestServer(t)

	resp := postLabel(t, srv.URL(), "0", "2")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postLabel(t, srv.URL(), "not-a-number", "1")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No candidate pending: a well-formed submission conflicts.
	resp = postLabel(t, srv.URL(), "0", "1")
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSessionClosed(t *testing.T) {
	srv, session := startTestServer(t)
	session.Close()

	resp, err := http.Get(srv.URL() + "/candidate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)

	lresp := postLabel(t, srv.URL(), "0", "1")
	lresp.Body.Close()
	assert.Equal(t, http.StatusGone, lresp.StatusCode)
}

func TestIndex_ServesPage(t *testing.T) {
	srv, _ := startTestServer(t)

	resp, err := http.Get(srv.URL() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := startTestServer(t)

	resp, err := http.Get(srv.URL() + "/label")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
