package helper

import (
	"encoding/json"
	"net/http"

	"github.com/restrolabs/Restro_Ordering_Backend/apperrors"
)

// RespondJSON writes the standard success envelope.
func RespondJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": message,
		"data":    data,
	})
}

var statusByCode = map[string]int{
	apperrors.CodeValidation: http.StatusBadRequest,
	apperrors.CodeNotFound:   http.StatusNotFound,
	apperrors.CodeConflict:   http.StatusConflict,
	apperrors.CodeStoreError: http.StatusInternalServerError,
}

// RespondError writes the structured error envelope. The wrapped internal
// cause is only included in development mode; production callers see the
// stable code and message alone.
func RespondError(w http.ResponseWriter, err error, development bool) {
	appErr := apperrors.From(err)

	status, ok := statusByCode[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	payload := map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if development && appErr.Err != nil {
		payload["detail"] = appErr.Err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   payload,
	})
}

// RestaurantID extracts the tenant partition key from the request.
func RestaurantID(r *http.Request) string {
	return r.Header.Get("X-Restaurant-ID")
}
