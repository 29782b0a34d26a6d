package handler

import "net/http"

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates a bodiless 204 No Content response.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus creates a bodiless response with a custom status code.
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}
