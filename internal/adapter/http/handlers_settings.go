package adapthttp

import (
	"net/http"

	"calorietrack/internal/domain"
)

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Get(r.Context(), r.PathValue("userId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var body domain.SettingsUpdate
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := s.settings.Update(r.Context(), r.PathValue("userId"), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "settings updated", "settings": st})
}
