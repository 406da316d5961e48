package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"spotfinder/internal/config"
	"spotfinder/internal/models"
	"spotfinder/internal/observability"
	contextutils "spotfinder/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	return NewClient(&config.APIConfig{BaseURL: server.URL + "/", Timeout: 5 * time.Second}, logger)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListStudySpots_Envelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/study-spots", r.URL.Path)
		_, _ = io.WriteString(w, `{"study_spots":[{"id":1,"location":"Dana Porter","busyness_estimate":2},{"id":2,"location":"SLC","busyness_estimate":"5"}]}`)
	})

	spots, err := client.ListStudySpots(context.Background())
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, "Dana Porter", spots[0].Location)
	assert.Equal(t, 5, spots[1].BusynessValue())
}

func TestListStudySpots_BareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":7,"location":"DC Library"}]`)
	})

	spots, err := client.ListStudySpots(context.Background())
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, 7, spots[0].ID)
}

func TestListStudySpots_ObjectWithoutKeyIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	spots, err := client.ListStudySpots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, spots)
}

func TestListStudySpots_Non2xxIsNetworkError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"db down"}`, http.StatusInternalServerError)
	})

	spots, err := client.ListStudySpots(context.Background())
	require.Error(t, err)
	assert.Nil(t, spots)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, OpListStudySpots, netErr.Op)
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Contains(t, netErr.Body, "db down")
	assert.True(t, errors.Is(err, contextutils.ErrNetwork))
}

func TestListStudySpots_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	logger := observability.NewLogger(&config.OpenTelemetryConfig{EnableLogging: false})
	client := NewClientWithHTTP(server.URL, http.DefaultClient, logger)

	_, err := client.ListStudySpots(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contextutils.ErrNetwork))

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.StatusCode)
	assert.NotNil(t, netErr.Cause)
}

func TestListStudySpots_MalformedReply(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"study_spots":[{"id":"one"}]}`)
	})

	_, err := client.ListStudySpots(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contextutils.ErrNetwork))
}

func TestListStudySpots_ConcurrentCallsShareRequest(t *testing.T) {
	var hits int32
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		once.Do(func() { close(entered) })
		<-release
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	})

	var wg sync.WaitGroup
	results := make([][]models.StudySpot, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = client.ListStudySpots(context.Background())
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = client.ListStudySpots(context.Background())
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	require.Len(t, results[0], 2)
	require.Len(t, results[1], 2)

	results[0][0].Location = "mutated"
	assert.Empty(t, results[1][0].Location)
}

func TestListStudySpots_CancelledCallerDoesNotFailOthers(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := client.ListStudySpots(ctxA)
		errA <- err
	}()
	<-entered

	type result struct {
		spots []models.StudySpot
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		spots, err := client.ListStudySpots(context.Background())
		resB <- result{spots, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	err := <-errA
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, contextutils.ErrNetwork)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Len(t, b.spots, 2)
}

func TestListStudySpots_UnreadableBusynessKeepsList(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"study_spots":[
			{"id":1,"location":"DC Library","busyness_estimate":2},
			{"id":2,"location":"SLC","busyness_estimate":""},
			{"id":3,"location":"E7","busyness_estimate":"very"}
		]}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(&config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
		&observability.Logger{Logger: zap.New(core)})

	spots, err := client.ListStudySpots(context.Background())
	require.NoError(t, err)
	require.Len(t, spots, 3)
	assert.Equal(t, 2, spots[0].BusynessValue())
	assert.Nil(t, spots[1].BusynessEstimate)
	assert.Nil(t, spots[2].BusynessEstimate)

	warnings := logs.FilterMessage("Ignoring unreadable busyness estimate").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, int64(2), warnings[0].ContextMap()["study_spot_id"])
	assert.Equal(t, `"very"`, warnings[1].ContextMap()["busyness_estimate"])
}

func TestGetStudySpot_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/study-spots/42", r.URL.Path)
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "Study spot not found"})
	})

	spot, err := client.GetStudySpot(context.Background(), 42)
	assert.Nil(t, spot)
	assert.True(t, IsNotFound(err))

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, contextutils.ErrorCodeRecordNotFound, netErr.AppError().Code)
}

func TestStudySpotCRUD(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var spot models.StudySpot
			require.NoError(t, json.NewDecoder(r.Body).Decode(&spot))
			spot.ID = 10
			writeJSON(t, w, http.StatusCreated, spot)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"noise_level":"Loud"}`, string(body))
			writeJSON(t, w, http.StatusOK, models.StudySpot{ID: 10, Location: "MC", NoiseLevel: "Loud"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(t, w, http.StatusOK, models.StudySpot{ID: 10, Location: "MC"})
		}
	})
	ctx := context.Background()

	created, err := client.CreateStudySpot(ctx, models.StudySpot{Location: "MC"})
	require.NoError(t, err)
	assert.Equal(t, 10, created.ID)

	got, err := client.GetStudySpot(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "MC", got.Location)

	noise := "Loud"
	updated, err := client.UpdateStudySpot(ctx, 10, models.SpotPatch{NoiseLevel: &noise})
	require.NoError(t, err)
	assert.Equal(t, "Loud", updated.NoiseLevel)

	require.NoError(t, client.DeleteStudySpot(ctx, 10))

	assert.Equal(t, []string{
		"POST /study-spots",
		"GET /study-spots/10",
		"PUT /study-spots/10",
		"DELETE /study-spots/10",
	}, calls)
}

func TestGetRecommendations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/study-spots/recommend", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var prefs map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&prefs))
		assert.Equal(t, "Library", prefs["locationType"])
		assert.Len(t, prefs, 8)

		_, _ = io.WriteString(w, `{"recommended_spots":[{"id":2,"location":"SLC","match_score":90}]}`)
	})

	prefs := models.NewSurveyResponse()
	prefs[models.KeyLocationType] = "Library"

	spots, err := client.GetRecommendations(context.Background(), prefs)
	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, 90, *spots[0].MatchScore)
}

func TestListReviews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews/3", r.URL.Path)
		_, _ = io.WriteString(w, `{"reviews":[{"id":1,"studySpotId":3,"name":"Ana","stars":4,"review":"Nice","created_at":"2025-01-02 10:00:00"}]}`)
	})

	reviews, err := client.ListReviews(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Ana", reviews[0].Name)
	assert.Equal(t, 2025, reviews[0].CreatedAt.Year())
}

func TestListReviewsByQuery(t *testing.T) {
	tests := []struct {
		name   string
		spotID int
		query  string
		body   string
	}{
		{name: "bare array", spotID: 3, query: "studySpotId=3", body: `[{"id":1,"studySpotId":3}]`},
		{name: "envelope", spotID: 3, query: "studySpotId=3", body: `{"reviews":[{"id":1,"studySpotId":3}]}`},
		{name: "all reviews", spotID: 0, query: "", body: `{"reviews":[{"id":1,"studySpotId":3}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/reviews", r.URL.Path)
				assert.Equal(t, tt.query, r.URL.RawQuery)
				_, _ = io.WriteString(w, tt.body)
			})

			reviews, err := client.ListReviewsByQuery(context.Background(), tt.spotID)
			require.NoError(t, err)
			require.Len(t, reviews, 1)
			assert.Equal(t, 3, reviews[0].StudySpotID)
		})
	}
}

func TestCreateReview_AcknowledgementOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"studySpotId":4,"name":"Kai","stars":5,"review":"Bright"}`, string(body))
		writeJSON(t, w, http.StatusCreated, map[string]string{"message": "Review added successfully", "status": "success"})
	})

	review, err := client.CreateReview(context.Background(), models.NewReview{StudySpotID: 4, Name: "Kai", Stars: 5, Review: "Bright"})
	require.NoError(t, err)
	assert.Equal(t, 4, review.StudySpotID)
	assert.Equal(t, "Kai", review.Name)
	assert.Equal(t, 5, review.Stars)
}

func TestCreateReview_ServerCopy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id":99,"studySpotId":4,"name":"Kai","stars":3,"review":"Ok","created_at":"2025-05-05T10:00:00Z"}`)
	})

	review, err := client.CreateReview(context.Background(), models.NewReview{StudySpotID: 4, Name: "Kai", Stars: 3, Review: "Ok"})
	require.NoError(t, err)
	assert.Equal(t, 99, review.ID)
	assert.False(t, review.CreatedAt.IsZero())
}

func TestCreateReview_BadRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "Missing required field: name"})
	})

	_, err := client.CreateReview(context.Background(), models.NewReview{StudySpotID: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.False(t, IsNotFound(err))
}

func TestNetworkError_Messages(t *testing.T) {
	assert.Equal(t, "recommend: backend returned 503", (&NetworkError{Op: OpRecommend, StatusCode: 503}).Error())
	assert.Equal(t, "recommend: boom", (&NetworkError{Op: OpRecommend, Cause: errors.New("boom")}).Error())
	assert.Equal(t, "recommend: request failed", (&NetworkError{Op: OpRecommend}).Error())
	assert.Equal(t, contextutils.ErrorCodeNetwork, (&NetworkError{Op: OpRecommend, StatusCode: 500}).AppError().Code)
}

func TestDecodeList(t *testing.T) {
	items, err := decodeList[models.Review](json.RawMessage(`null`), "reviews")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = decodeList[models.Review](json.RawMessage(`{"reviews":null}`), "reviews")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = decodeList[models.Review](json.RawMessage(`"nope"`), "reviews")
	assert.Error(t, err)
}

func TestBaseURLTrimmed(t *testing.T) {
	client := NewClientWithHTTP("http://backend:5001/", http.DefaultClient, observability.NewLogger(nil))
	assert.Equal(t, "http://backend:5001", client.BaseURL())
}
