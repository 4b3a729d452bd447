package dashboard

import (
	"net/http"

	"github.com/go-chi/render"
)

// apiError is the JSON error body of the API routes.
type apiError struct {
	StatusCode int         `json:"-"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *apiError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func errDatasetUnavailable(err error) *apiError {
	return &apiError{StatusCode: http.StatusInternalServerError, ErrorCode: "DATASET_UNAVAILABLE", Message: err.Error()}
}

func errMissingColumns(err error, columns []string) *apiError {
	return &apiError{
		StatusCode: http.StatusUnprocessableEntity,
		ErrorCode:  "MISSING_COLUMNS",
		Message:    err.Error(),
		Details:    map[string][]string{"columns": columns},
	}
}

func errViewNotFound(view string) *apiError {
	return &apiError{StatusCode: http.StatusNotFound, ErrorCode: "VIEW_NOT_FOUND", Message: "unknown view " + view}
}

func errInvalidParameter(msg string) *apiError {
	return &apiError{StatusCode: http.StatusBadRequest, ErrorCode: "INVALID_PARAMETER", Message: msg}
}

func errSnapshotsDisabled() *apiError {
	return &apiError{StatusCode: http.StatusServiceUnavailable, ErrorCode: "SNAPSHOTS_DISABLED", Message: "chart snapshots are not enabled"}
}
