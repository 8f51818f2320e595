package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dglmedia/adops-backend/internal/apperrors"
	"github.com/dglmedia/adops-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubDeploymentService lets each test plug in just the method under test.
type stubDeploymentService struct {
	allocateSlot    func(ctx context.Context, materialID, driverID string, adID primitive.ObjectID, startTime, endTime time.Time) (*models.Slot, error)
	getByID         func(ctx context.Context, id primitive.ObjectID) (*models.Deployment, error)
	removeAds       func(ctx context.Context, materialID string, adIDs []primitive.ObjectID, removedBy, reason string) (*models.RemovalResult, error)
	reassignSlots   func(ctx context.Context, materialID string) ([]models.SlotReassignment, error)
	getActive       func(ctx context.Context) ([]*models.Deployment, error)
	updateDepStatus func(ctx context.Context, id primitive.ObjectID, status models.DeploymentStatus) (*models.Deployment, error)
}

func (s *stubDeploymentService) CreateDeployment(context.Context, primitive.ObjectID, string, string, time.Time, time.Time) (*models.Deployment, error) {
	return nil, apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) Deploy(context.Context, *models.Ad, *models.Material) (*models.Deployment, error) {
	return nil, apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) AllocateSlot(ctx context.Context, materialID, driverID string, adID primitive.ObjectID, startTime, endTime time.Time) (*models.Slot, error) {
	return s.allocateSlot(ctx, materialID, driverID, adID, startTime, endTime)
}

func (s *stubDeploymentService) UpdateDeploymentStatus(ctx context.Context, id primitive.ObjectID, status models.DeploymentStatus) (*models.Deployment, error) {
	return s.updateDepStatus(ctx, id, status)
}

func (s *stubDeploymentService) UpdateSlotStatus(context.Context, string, primitive.ObjectID, models.DeploymentStatus, string) (*models.Deployment, error) {
	return nil, apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) RemoveAds(ctx context.Context, materialID string, adIDs []primitive.ObjectID, removedBy, reason string) (*models.RemovalResult, error) {
	return s.removeAds(ctx, materialID, adIDs, removedBy, reason)
}

func (s *stubDeploymentService) ReassignSlots(ctx context.Context, materialID string) ([]models.SlotReassignment, error) {
	return s.reassignSlots(ctx, materialID)
}

func (s *stubDeploymentService) DeleteDeployment(context.Context, primitive.ObjectID) error {
	return apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) GetDeploymentByID(ctx context.Context, id primitive.ObjectID) (*models.Deployment, error) {
	return s.getByID(ctx, id)
}

func (s *stubDeploymentService) GetDeploymentsByDriver(context.Context, string) ([]*models.Deployment, error) {
	return nil, apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) GetDeploymentsByAd(context.Context, primitive.ObjectID) ([]*models.Deployment, error) {
	return nil, apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) GetDeploymentByMaterial(context.Context, string) (*models.Deployment, error) {
	return nil, apperrors.E(apperrors.CodeInternal, "not stubbed")
}

func (s *stubDeploymentService) GetActiveDeployments(ctx context.Context) ([]*models.Deployment, error) {
	return s.getActive(ctx)
}

func newTestRouter(stub *stubDeploymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewDeploymentHandler(stub, nil)
	router := gin.New()
	router.POST("/deployments/material/:materialId/slots", handler.AllocateSlot)
	router.GET("/deployments/:id", handler.GetDeploymentByID)
	router.GET("/deployments-active", handler.GetActiveDeployments)
	router.PATCH("/deployments/:id/status", handler.UpdateDeploymentStatus)
	router.POST("/deployments/material/:materialId/remove-ads", handler.RemoveAds)
	return router
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAllocateSlotEndpoint(t *testing.T) {
	adID := primitive.NewObjectID()
	stub := &stubDeploymentService{
		allocateSlot: func(_ context.Context, materialID, driverID string, gotAdID primitive.ObjectID, _, _ time.Time) (*models.Slot, error) {
			assert.Equal(t, "DGL-LCD-CAR-001", materialID)
			assert.Equal(t, "driver-1", driverID)
			assert.Equal(t, adID, gotAdID)
			return &models.Slot{AdID: gotAdID, SlotNumber: 2, Status: models.DeploymentStatusRunning}, nil
		},
	}
	router := newTestRouter(stub)

	w := performJSON(t, router, http.MethodPost, "/deployments/material/DGL-LCD-CAR-001/slots", gin.H{
		"adId":      adID.Hex(),
		"driverId":  "driver-1",
		"startTime": "2025-06-01T12:00:00Z",
		"endTime":   "2025-06-02T12:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var slot models.Slot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slot))
	assert.Equal(t, 2, slot.SlotNumber)
}

func TestAllocateSlotEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"capacity", apperrors.E(apperrors.CodeCapacityExceeded, "full"), http.StatusConflict, "CAPACITY_EXCEEDED"},
		{"duplicate", apperrors.E(apperrors.CodeDuplicateAssignment, "dup"), http.StatusConflict, "DUPLICATE_ASSIGNMENT"},
		{"not found", apperrors.E(apperrors.CodeNotFound, "missing"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", apperrors.E(apperrors.CodeValidation, "bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"upstream", apperrors.E(apperrors.CodeUpstreamDependencyMissing, "no driver"), http.StatusUnprocessableEntity, "UPSTREAM_DEPENDENCY_MISSING"},
		{"internal", apperrors.E(apperrors.CodeInternal, "boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubDeploymentService{
				allocateSlot: func(context.Context, string, string, primitive.ObjectID, time.Time, time.Time) (*models.Slot, error) {
					return nil, tc.err
				},
			}
			router := newTestRouter(stub)

			w := performJSON(t, router, http.MethodPost, "/deployments/material/DGL-LCD-CAR-001/slots", gin.H{
				"adId":      primitive.NewObjectID().Hex(),
				"driverId":  "driver-1",
				"startTime": "2025-06-01T12:00:00Z",
				"endTime":   "2025-06-02T12:00:00Z",
			})

			assert.Equal(t, tc.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body["code"])
		})
	}
}

func TestAllocateSlotEndpointRejectsBadBody(t *testing.T) {
	router := newTestRouter(&stubDeploymentService{})

	w := performJSON(t, router, http.MethodPost, "/deployments/material/DGL-LCD-CAR-001/slots", gin.H{
		"driverId": "driver-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, router, http.MethodPost, "/deployments/material/DGL-LCD-CAR-001/slots", gin.H{
		"adId":      "not-an-objectid",
		"driverId":  "driver-1",
		"startTime": "2025-06-01T12:00:00Z",
		"endTime":   "2025-06-02T12:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDeploymentByIDEndpoint(t *testing.T) {
	id := primitive.NewObjectID()
	stub := &stubDeploymentService{
		getByID: func(_ context.Context, gotID primitive.ObjectID) (*models.Deployment, error) {
			assert.Equal(t, id, gotID)
			return &models.Deployment{ID: gotID, MaterialID: "DGL-LCD-CAR-001"}, nil
		},
	}
	router := newTestRouter(stub)

	w := performJSON(t, router, http.MethodGet, "/deployments/"+id.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, router, http.MethodGet, "/deployments/zzz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDeploymentStatusEndpointRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(&stubDeploymentService{})

	w := performJSON(t, router, http.MethodPatch, "/deployments/"+primitive.NewObjectID().Hex()+"/status", gin.H{
		"status": "LAUNCHED",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveAdsEndpoint(t *testing.T) {
	adID := primitive.NewObjectID()
	stub := &stubDeploymentService{
		removeAds: func(_ context.Context, materialID string, adIDs []primitive.ObjectID, removedBy, reason string) (*models.RemovalResult, error) {
			assert.Equal(t, "DGL-LCD-CAR-001", materialID)
			assert.Equal(t, []primitive.ObjectID{adID}, adIDs)
			assert.Equal(t, "ops@dglmedia", removedBy)
			return &models.RemovalResult{AvailableSlots: []int{1, 2, 3, 4, 5}}, nil
		},
	}
	router := newTestRouter(stub)

	w := performJSON(t, router, http.MethodPost, "/deployments/material/DGL-LCD-CAR-001/remove-ads", gin.H{
		"adIds":     []string{adID.Hex()},
		"removedBy": "ops@dglmedia",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.RemovalResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.AvailableSlots)
}
