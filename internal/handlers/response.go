package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

// Response is what an API operation produces. The router writes it to the
// client once the handler lock has been released, then runs After, if set,
// still outside the lock.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	After       func(ctx context.Context)
}

func (r Response) Write(w http.ResponseWriter) {
	if r.ContentType != "" {
		w.Header().Set("Content-Type", r.ContentType)
	}
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}

func jsonResponse(status int, data any) Response {
	body, err := json.Marshal(data)
	if err != nil {
		return textResponse(http.StatusInternalServerError, "internal server error")
	}
	return Response{Status: status, ContentType: contentTypeJSON, Body: body}
}

func textResponse(status int, message string) Response {
	return Response{Status: status, ContentType: contentTypeText, Body: []byte(message)}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	jsonResponse(status, data).Write(w)
}
