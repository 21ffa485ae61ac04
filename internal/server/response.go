package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-amlich/internal/config"
)

// Response is the standard API envelope.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 envelope around data.
func WriteSuccess(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteError writes an error envelope.
func WriteError(w http.ResponseWriter, status int, message, code string) {
	write(w, status, Response{
		Success: false,
		Error:   &ErrorInfo{Message: message, Code: code},
	})
}

// WriteBadRequest writes a 400 envelope.
func WriteBadRequest(w http.ResponseWriter, message, code string) {
	WriteError(w, http.StatusBadRequest, message, code)
}

// WriteNotFound writes a 404 envelope.
func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, config.HTTPMsgNotFound, config.CodeNotFound)
}

func write(w http.ResponseWriter, status int, resp Response) {
	if err := WriteJSON(w, status, resp); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompAPI,
			config.LogKeyError, err,
		)
	}
}
