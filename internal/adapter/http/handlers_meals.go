package adapthttp

import (
	"net/http"

	"calorietrack/internal/domain"
)

func (s *Server) handleMealAdd(w http.ResponseWriter, r *http.Request) {
	var body domain.MealRecord
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// The body may omit userId; when given it must be the caller.
	caller := userID(r)
	if body.UserID == "" {
		body.UserID = caller
	}
	if body.UserID != caller {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}

	id, err := s.meals.Add(r.Context(), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "meal recorded"})
}

func (s *Server) handleMealList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	meals, err := s.meals.MealsInRange(r.Context(), r.PathValue("userId"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if meals == nil {
		meals = []domain.MealRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"meals": meals})
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.meals.DailySummary(r.Context(), r.PathValue("userId"), r.PathValue("date"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMealDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.Delete(r.Context(), r.PathValue("userId"), r.PathValue("mealId")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "meal deleted"})
}
