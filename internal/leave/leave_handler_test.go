package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leavedesk/internal/domain"
	"leavedesk/internal/leave"
	leaveerrors "leavedesk/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	applyFn   func(ctx context.Context, actor domain.Identity, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	getMineFn func(ctx context.Context, actor domain.Identity, status string) ([]leave.LeaveResponse, error)
	getAllFn  func(ctx context.Context, f leave.ListFilter) ([]leave.LeaveResponse, error)
	getByIDFn func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error)
	updateFn  func(ctx context.Context, actor domain.Identity, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	cancelFn  func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error)
	rejectFn  func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error)
}

func (f *fakeService) Apply(ctx context.Context, actor domain.Identity, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return f.applyFn(ctx, actor, req)
}
func (f *fakeService) GetMine(ctx context.Context, actor domain.Identity, status string) ([]leave.LeaveResponse, error) {
	return f.getMineFn(ctx, actor, status)
}
func (f *fakeService) GetAll(ctx context.Context, f2 leave.ListFilter) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx, f2)
}
func (f *fakeService) GetByID(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeService) Update(ctx context.Context, actor domain.Identity, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, actor, id, req)
}
func (f *fakeService) Cancel(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, actor, id)
}
func (f *fakeService) Approve(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actor, id)
}
func (f *fakeService) Reject(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actor, id)
}

func injectIdentity(ident domain.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", ident)
		c.Next()
	}
}

func setupRouter(svc leave.Service, ident domain.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := leave.NewHandler(svc)
	g := r.Group("", injectIdentity(ident))
	g.POST("/leaves", handler.Apply)
	g.GET("/leaves/my-leaves", handler.GetMine)
	g.GET("/leaves/:id", handler.GetByID)
	g.PUT("/leaves/:id", handler.Update)
	g.PATCH("/leaves/:id/cancel", handler.Cancel)
	g.PATCH("/leaves/:id/approve", handler.Approve)
	g.PATCH("/leaves/:id/reject", handler.Reject)
	return r
}

func TestHandler_Apply(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Name: "Jamie Park", Role: domain.RoleEmployee}

	svc := &fakeService{
		applyFn: func(ctx context.Context, actor domain.Identity, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, ident.ID, actor.ID)
			return leave.LeaveResponse{ID: uuid.NewString(), Status: "pending"}, nil
		},
	}
	router := setupRouter(svc, ident)

	body, _ := json.Marshal(leave.ApplyLeaveRequest{
		LeaveType: "vacation",
		FromDate:  "2027-03-01",
		ToDate:    "2027-03-05",
		Reason:    "Family trip out of town",
	})
	req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var res map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, true, res["ok"])
	assert.Equal(t, "pending", res["data"].(map[string]any)["status"])
}

func TestHandler_Apply_BindingError(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Role: domain.RoleEmployee}
	svc := &fakeService{
		applyFn: func(ctx context.Context, actor domain.Identity, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
			t.Fatal("service must not be called on a binding failure")
			return leave.LeaveResponse{}, nil
		},
	}
	router := setupRouter(svc, ident)

	// leave_type fails the oneof constraint at binding.
	body := []byte(`{"leave_type":"sabbatical","from_date":"2027-03-01","to_date":"2027-03-05","reason":"Family trip out of town"}`)
	req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var res map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, false, res["ok"])
	assert.Equal(t, "INVALID_INPUT", res["error"].(map[string]any)["code"])
}

func TestHandler_GetByID_Forbidden(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Role: domain.RoleEmployee}
	svc := &fakeService{
		getByIDFn: func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrNotOwner
		},
	}
	router := setupRouter(svc, ident)

	req := httptest.NewRequest(http.MethodGet, "/leaves/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var res map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "FORBIDDEN", res["error"].(map[string]any)["code"])
}

func TestHandler_Approve_IllegalTransition(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Role: domain.RoleAdmin}
	svc := &fakeService{
		approveFn: func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, leaveerrors.ErrIllegalTransition
		},
	}
	router := setupRouter(svc, ident)

	req := httptest.NewRequest(http.MethodPatch, "/leaves/"+uuid.NewString()+"/approve", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var res map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "INVALID_STATE", res["error"].(map[string]any)["code"])
}

func TestHandler_GetMine_PassesStatusFilter(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Role: domain.RoleEmployee}
	var gotStatus string
	svc := &fakeService{
		getMineFn: func(ctx context.Context, actor domain.Identity, status string) ([]leave.LeaveResponse, error) {
			gotStatus = status
			return []leave.LeaveResponse{}, nil
		},
	}
	router := setupRouter(svc, ident)

	req := httptest.NewRequest(http.MethodGet, "/leaves/my-leaves?status=approved", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", gotStatus)
}

func TestHandler_GetAll_Paginates(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Role: domain.RoleAdmin}

	all := make([]leave.LeaveResponse, 25)
	for i := range all {
		all[i] = leave.LeaveResponse{ID: uuid.NewString(), Status: "pending"}
	}
	svc := &fakeService{
		getAllFn: func(ctx context.Context, f leave.ListFilter) ([]leave.LeaveResponse, error) {
			return all, nil
		},
	}
	router := setupRouter(svc, ident)
	router.GET("/all-leaves", injectIdentity(ident), leave.NewHandler(svc).GetAll)

	req := httptest.NewRequest(http.MethodGet, "/all-leaves?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res["data"].([]any), 10)
	meta := res["meta"].(map[string]any)
	assert.Equal(t, float64(25), meta["total"])
	assert.Equal(t, float64(3), meta["totalPages"])
	assert.Equal(t, float64(2), meta["page"])

	// Past the last page: empty slice, same meta.
	req = httptest.NewRequest(http.MethodGet, "/all-leaves?page=4&page_size=10", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	_, hasData := res["data"]
	assert.False(t, hasData)
}

func TestHandler_Cancel(t *testing.T) {
	ident := domain.Identity{ID: uuid.New(), Role: domain.RoleEmployee}
	leaveID := uuid.NewString()
	svc := &fakeService{
		cancelFn: func(ctx context.Context, actor domain.Identity, id string) (leave.LeaveResponse, error) {
			assert.Equal(t, leaveID, id)
			return leave.LeaveResponse{ID: leaveID, Status: "cancelled"}, nil
		},
	}
	router := setupRouter(svc, ident)

	req := httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_NoIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := leave.NewHandler(&fakeService{})
	r.GET("/leaves/my-leaves", handler.GetMine)

	req := httptest.NewRequest(http.MethodGet, "/leaves/my-leaves", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
