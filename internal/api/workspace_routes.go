package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"ChartVault/internal/workspace"
)

const maxWorkspaceBytes = 1 << 20

func (s *Server) handleWorkspaceSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWorkspaceBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	code, err := s.workspaces.Save(string(body))
	if err != nil {
		log.Printf("[ERROR] failed to save workspace: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (s *Server) handleWorkspaceLoad(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	body, err := s.workspaces.Load(code)
	if err != nil {
		if errors.Is(err, workspace.ErrInvalidCode) {
			writeError(w, http.StatusBadRequest, "invalid workspace code")
			return
		}
		log.Printf("[ERROR] failed to load workspace %s: %v", code, err)
		writeError(w, http.StatusInternalServerError, "failed to load workspace")
		return
	}
	if body == "" {
		writeError(w, http.StatusNotFound, "workspace not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}
