package adapthttp

import (
	"net/http"

	"calorietrack/internal/domain"
)

func (s *Server) handleFoodSearch(w http.ResponseWriter, r *http.Request) {
	foods, err := s.foods.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"foods": foods})
}

func (s *Server) handleFoodGet(w http.ResponseWriter, r *http.Request) {
	food, err := s.foods.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

func (s *Server) handleFoodAdd(w http.ResponseWriter, r *http.Request) {
	var body domain.Food
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	food, err := s.foods.Add(r.Context(), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      food.ID,
		"message": "food added",
		"food":    food,
	})
}
