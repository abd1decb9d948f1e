package integration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valter-silva-au/taskboard/pkg/models"
)

type memTokens struct {
	token   string
	cleared bool
}

func (m *memTokens) Load() (string, error) { return m.token, nil }
func (m *memTokens) Clear() error {
	m.token = ""
	m.cleared = true
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPIClient(APIClientConfig{BaseURL: srv.URL, Retries: 0}, tokens)
}

func TestGetTasks_UnwrapsDataEnvelopeAndSendsToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[
			{"id":1,"title":"Write docs","due_date":"2025-02-20","project_id":3,"status":"in_progress","tags":[{"id":1,"name":"docs","color":"#f00"}]},
			{"id":"abc","title":"Ship","dueDate":"2025-02-10","tagIds":[2]}
		]}`)
	}, &memTokens{token: "secret"})

	tasks, err := client.GetTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, models.ID("1"), tasks[0].ID)
	require.NotNil(t, tasks[0].DueDateSnake)
	assert.Equal(t, "2025-02-20", *tasks[0].DueDateSnake)
	require.NotNil(t, tasks[0].ProjectIDSnake)
	assert.Equal(t, models.ID("3"), *tasks[0].ProjectIDSnake)
	assert.Equal(t, []models.Tag{{ID: "1", Name: "docs", Color: "#f00"}}, tasks[0].Tags)
	assert.Nil(t, tasks[0].TagIDs)

	assert.Equal(t, models.ID("abc"), tasks[1].ID)
	assert.Equal(t, []models.ID{"2"}, tasks[1].TagIDs)
}

func TestGetProjects_PlainArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"Work","color":"#00f"}]`)
	}, &memTokens{})

	projects, err := client.GetProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Project{{ID: "1", Name: "Work", Color: "#00f"}}, projects)
}

func TestCreateTask_SendsMultipartForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/add-tasks", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Test Task", r.FormValue("title"))
		assert.Equal(t, "Test Description", r.FormValue("description"))
		assert.Equal(t, "1", r.FormValue("project_id"))
		assert.Equal(t, "2025-02-20", r.FormValue("due_date"))
		assert.Equal(t, "todo", r.FormValue("status"))
		assert.Equal(t, "1", r.FormValue("tags[0]"))
		assert.Equal(t, "2", r.FormValue("tags[1]"))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":42,"title":"Test Task","due_date":"2025-02-20","status":"todo","tags":[{"id":1},{"id":2}]}}`)
	}, nil)

	created, err := client.CreateTask(context.Background(), models.TaskInput{
		Title:       "Test Task",
		Description: "Test Description",
		ProjectID:   "1",
		DueDate:     "2025-02-20",
		Status:      models.StatusTodo,
		TagIDs:      []models.ID{"1", "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ID("42"), created.ID)
	assert.Len(t, created.Tags, 2)
}

func TestUpdateTask_SendsJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/update-tasks/7", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Updated Title", body["title"])
		assert.Equal(t, "done", body["status"])
		assert.Equal(t, "2025-03-01", body["due_date"])
		assert.Equal(t, float64(2), body["project_id"])
		assert.Equal(t, []any{float64(5)}, body["tags"])

		_, _ = io.WriteString(w, `{"id":7,"title":"Updated Title","status":"done","due_date":"2025-03-01"}`)
	}, nil)

	updated, err := client.UpdateTask(context.Background(), "7", models.TaskInput{
		Title:     "Updated Title",
		ProjectID: "2",
		DueDate:   "2025-03-01",
		Status:    models.StatusDone,
		TagIDs:    []models.ID{"5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", updated.Title)
}

func TestDeleteTask_NoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/delete-tasks/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	require.NoError(t, client.DeleteTask(context.Background(), "9"))
}

func TestUnauthorized_ClearsToken(t *testing.T) {
	tokens := &memTokens{token: "expired"}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, tokens)

	_, err := client.GetTasks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, tokens.cleared)
	assert.Empty(t, tokens.token)
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", http.StatusUnprocessableEntity, `{"message":"Title is required"}`, "Title is required"},
		{"errors field", http.StatusUnprocessableEntity, `{"errors":{"title":["required"]}}`, `{"title":["required"]}`},
		{"empty object", http.StatusBadRequest, `{}`, "an unknown error occurred"},
		{"not json", http.StatusNotFound, `not found`, "HTTP error! Status: 404"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}, nil)

			_, err := client.GetProjects(context.Background())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected *APIError, got %v", err)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	client := NewAPIClient(APIClientConfig{BaseURL: srv.URL, Retries: 1}, nil)
	projects, err := client.GetProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLogin(t *testing.T) {
	cases := map[string]string{
		"token":        `{"token":"t1"}`,
		"access_token": `{"access_token":"t1"}`,
		"data envelope": `{"data":{"token":"t1"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/login", r.URL.Path)
				var creds map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "me@example.com", creds["email"])
				assert.Equal(t, "pw", creds["password"])
				_, _ = io.WriteString(w, body)
			}, nil)

			token, err := client.Login(context.Background(), "me@example.com", "pw")
			require.NoError(t, err)
			assert.Equal(t, "t1", token)
		})
	}
}

func TestLogin_MissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"user":{"id":1}}`)
	}, nil)

	_, err := client.Login(context.Background(), "me@example.com", "pw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not contain a token")
}
