package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/kinnet/internal/api"
	"github.com/persistorai/kinnet/internal/models"
)

func setupPersonRouter() *gin.Engine {
	svc := &mockPersonService{
		getFn: func(_ context.Context, id models.PersonID) (models.PersonAttributes, error) {
			switch {
			case !id.Valid():
				return models.PersonAttributes{}, fmt.Errorf("%w: %d", models.ErrInvalidPersonID, id)
			case id == 1762:
				birth := 1021

				return models.PersonAttributes{ID: id, Name: "Wang Anshi", NameChn: "王安石", BirthYear: &birth}, nil
			case id == 9:
				return models.PersonAttributes{ID: id}, nil
			default:
				return models.PersonAttributes{}, fmt.Errorf("%w: %d", models.ErrPersonNotFound, id)
			}
		},
	}

	h := api.NewPersonHandler(svc, testLogger())
	r := newTestRouter()
	r.GET("/persons/:id", h.Get)

	return r
}

func TestGetPerson(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantLabel string
	}{
		{"english label", "/persons/1762", http.StatusOK, "Wang Anshi"},
		{"chinese label", "/persons/1762?locale=zh", http.StatusOK, "王安石"},
		{"unnamed person", "/persons/9", http.StatusOK, "Person 9"},
		{"not found", "/persons/5", http.StatusNotFound, ""},
		{"non-positive", "/persons/0", http.StatusBadRequest, ""},
		{"not a number", "/persons/abc", http.StatusBadRequest, ""},
	}

	r := setupPersonRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tt.path, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}

			if tt.wantCode != http.StatusOK {
				decodeError(t, w)

				return
			}

			var resp struct {
				ID        models.PersonID `json:"id"`
				Label     string          `json:"label"`
				BirthYear *int            `json:"birth_year"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding: %v", err)
			}

			if resp.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", resp.Label, tt.wantLabel)
			}
		})
	}
}
