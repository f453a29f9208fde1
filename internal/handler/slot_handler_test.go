package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/section-scheduler/internal/service"
)

func TestSlotHandlerDeleteRequiresSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := &backendMock{schedule: sampleSchedule()}
	schedules := newScheduleServiceFor(backend)
	conflicts := service.NewConflictService(backend, nil, nil)
	placements := service.NewPlacementService(backend, conflicts, schedules, nil, nil, nil, testGridConfig(), nil, nil)
	handler := NewSlotHandler(schedules, placements)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/slots/slot-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "slot-1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, backend.deleted)
}

func TestSlotHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := &backendMock{schedule: sampleSchedule()}
	schedules := newScheduleServiceFor(backend)
	conflicts := service.NewConflictService(backend, nil, nil)
	placements := service.NewPlacementService(backend, conflicts, schedules, nil, nil, nil, testGridConfig(), nil, nil)
	handler := NewSlotHandler(schedules, placements)

	require.NoError(t, schedules.Refresh(context.Background(), "sec-1"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/slots/slot-1?section=sec-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "slot-1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"slot-1"}, backend.deleted)
}
