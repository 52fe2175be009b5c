package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"planify/internal/auth"
	apperrors "planify/internal/errors"
	"planify/internal/model"
	"planify/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uint, task *model.Task) (*model.Task, error) {
	args := m.Called(ctx, ownerID, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) List(ctx context.Context, ownerID uint) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, ownerID uint, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID uint, id uuid.UUID, fields map[string]interface{}) (*model.Task, error) {
	args := m.Called(ctx, ownerID, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID uint, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTaskService) BulkCreate(ctx context.Context, ownerID uint, tasks []model.Task) ([]model.Task, error) {
	args := m.Called(ctx, ownerID, tasks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Stats(ctx context.Context, ownerID uint) (*service.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskStats), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// newTaskEcho wires the task routes behind a middleware that injects the
// authenticated user, standing in for the real auth chain.
func newTaskEcho(svc service.TaskService, user *model.User) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	h := NewTaskHandler(svc)
	withUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(auth.ContextUserKey, user)
			return next(c)
		}
	}

	g := e.Group("/api", withUser)
	g.GET("/task/gp", h.List)
	g.POST("/task/gp", h.Create)
	g.GET("/task/gp/:id", h.Get)
	g.PUT("/task/gp/:id", h.Update)
	g.DELETE("/task/gp/:id", h.Delete)
	g.POST("/task/bulk", h.BulkCreate)
	g.GET("/task/stats", h.Stats)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFlexBool_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{"bool true", `true`, true, false},
		{"bool false", `false`, false, false},
		{"legacy yes", `"yes"`, true, false},
		{"legacy true string", `"true"`, true, false},
		{"legacy no", `"no"`, false, false},
		{"arbitrary string", `"whatever"`, false, false},
		{"number rejected", `1`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b FlexBool
			err := json.Unmarshal([]byte(tt.input), &b)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, bool(b))
			}
		})
	}
}

func TestTaskHandler_Create(t *testing.T) {
	user := &model.User{ID: 1, Email: "a@example.com"}

	t.Run("created with caller as owner", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Create", mock.Anything, uint(1), mock.AnythingOfType("*model.Task")).
			Return(&model.Task{ID: uuid.New(), Title: "T1", Priority: "high", OwnerID: 1}, nil)

		e := newTaskEcho(svc, user)
		rec := doJSON(e, http.MethodPost, "/api/task/gp",
			`{"title":"T1","priority":"high","dueDate":"2099-01-01T00:00:00Z"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"T1"`)
		svc.AssertExpectations(t)
	})

	t.Run("missing title", func(t *testing.T) {
		svc := new(MockTaskService)
		e := newTaskEcho(svc, user)
		rec := doJSON(e, http.MethodPost, "/api/task/gp", `{"priority":"high"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("bad priority", func(t *testing.T) {
		svc := new(MockTaskService)
		e := newTaskEcho(svc, user)
		rec := doJSON(e, http.MethodPost, "/api/task/gp", `{"title":"T1","priority":"urgent"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create")
	})
}

func TestTaskHandler_GetNotFound(t *testing.T) {
	user := &model.User{ID: 2}
	id := uuid.New()

	svc := new(MockTaskService)
	svc.On("Get", mock.Anything, uint(2), id).Return(nil, apperrors.ErrTaskNotFound)

	e := newTaskEcho(svc, user)

	rec := doJSON(e, http.MethodGet, "/api/task/gp/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// a non-uuid id is the same not-found, without reaching the service
	rec = doJSON(e, http.MethodGet, "/api/task/gp/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.AssertExpectations(t)
}

func TestTaskHandler_UpdateLegacyCompleted(t *testing.T) {
	user := &model.User{ID: 1}
	id := uuid.New()

	svc := new(MockTaskService)
	svc.On("Update", mock.Anything, uint(1), id, map[string]interface{}{"completed": true}).
		Return(&model.Task{ID: id, Completed: true, OwnerID: 1}, nil)

	e := newTaskEcho(svc, user)
	rec := doJSON(e, http.MethodPut, "/api/task/gp/"+id.String(), `{"completed":"yes"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)
	svc.AssertExpectations(t)
}

func TestTaskHandler_Delete(t *testing.T) {
	user := &model.User{ID: 1}
	id := uuid.New()

	svc := new(MockTaskService)
	svc.On("Delete", mock.Anything, uint(1), id).Return(nil)

	e := newTaskEcho(svc, user)
	rec := doJSON(e, http.MethodDelete, "/api/task/gp/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestTaskHandler_BulkCreateEmpty(t *testing.T) {
	user := &model.User{ID: 1}

	svc := new(MockTaskService)
	e := newTaskEcho(svc, user)

	rec := doJSON(e, http.MethodPost, "/api/task/bulk", `{"tasks":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/task/bulk", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "BulkCreate")
}

func TestTaskHandler_Stats(t *testing.T) {
	user := &model.User{ID: 1}

	svc := new(MockTaskService)
	svc.On("Stats", mock.Anything, uint(1)).Return(&service.TaskStats{
		Total: 3, Completed: 1, Pending: 2, Overdue: 1,
		ByPriority: service.PriorityCounts{Low: 1, Medium: 1, High: 1},
	}, nil)

	e := newTaskEcho(svc, user)
	rec := doJSON(e, http.MethodGet, "/api/task/stats", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"byPriority"`)
	svc.AssertExpectations(t)
}
