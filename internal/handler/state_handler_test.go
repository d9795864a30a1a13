package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gift-exchange/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStateService is a mock implementation of StateService.
type MockStateService struct {
	mock.Mock
}

func (m *MockStateService) Get(ctx context.Context) (*model.StateResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StateResponse), args.Error(1)
}

func (m *MockStateService) Patch(ctx context.Context, patch *model.StatePatch) (*model.StateResponse, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StateResponse), args.Error(1)
}

func TestStateHandler_Get(t *testing.T) {
	state := model.DefaultState()
	state.Assignments["ana"] = "wes"

	mockService := new(MockStateService)
	mockService.On("Get", mock.Anything).Return(&model.StateResponse{State: state, Stale: true}, nil)
	handler := NewStateHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	handler.Get(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"ana": "wes"}, body["assignments"])
	assert.Equal(t, []interface{}{}, body["messages"])
	assert.Equal(t, true, body["stale"])
	assert.NotContains(t, body, "updatedAt")
}

func TestStateHandler_Patch(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Messages only",
			method:         http.MethodPost,
			body:           `{"messages":[{"authorId":"ana","text":"Budget is $50"}]}`,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Empty patch",
			method:         http.MethodPost,
			body:           `{}`,
			mockError:      model.ErrEmptyStatePatch,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid assignments",
			method:         http.MethodPost,
			body:           `{"assignments":{"erin":"thomas"}}`,
			mockError:      model.NewParticipantError(model.ErrCodeExcludedPair, "Erin", "Erin cannot draw Thomas."),
			expectedStatus: http.StatusUnprocessableEntity,
			expectService:  true,
		},
		{
			name:           "Malformed body",
			method:         http.MethodPost,
			body:           `{"messages":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPut,
			body:           `{}`,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockStateService)
			handler := NewStateHandler(mockService, zerolog.Nop())

			if tt.expectService {
				var resp *model.StateResponse
				if tt.mockError == nil {
					resp = &model.StateResponse{State: model.DefaultState()}
				}
				mockService.On("Patch", mock.Anything, mock.AnythingOfType("*model.StatePatch")).Return(resp, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/state", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Patch(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything)
			}
		})
	}
}
