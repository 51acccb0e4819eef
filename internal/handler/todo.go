package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/service"
)

// TodoHandler serves the caller's to-do items. Every handler runs behind
// RequireAuth and scopes its work to the authenticated user.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// HandleCreate adds a to-do owned by the caller.
// POST /todos
// Request:  {"text":"..."}
// Response: the created to-do
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	todo, err := h.todos.Create(r.Context(), user.ID, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoDTO(todo))
}

// HandleList returns the caller's to-dos.
// GET /todos
// Response: {"todos": [...]}
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	todos, err := h.todos.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": toTodoDTOs(todos)})
}

// HandleGet returns one of the caller's to-dos.
// GET /todos/{id}
// Response: {"todo": {...}}
func (h *TodoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	todo, err := h.todos.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": toTodoDTO(todo)})
}

// HandleUpdate changes the text and/or completion state of a to-do.
// PATCH /todos/{id}
// Request:  {"text":"...","completed":true}
// Response: {"todo": {...}}
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id := r.PathValue("id")
	if !domain.ValidID(id) {
		writeServiceError(w, r, domain.ErrNotFound)
		return
	}

	// An empty body is an empty patch.
	var req struct {
		Text      *string `json:"text"`
		Completed any     `json:"completed"`
	}
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	// A non-boolean completed value counts as false.
	patch := service.TodoPatch{Text: req.Text}
	if completed, ok := req.Completed.(bool); ok {
		patch.Completed = &completed
	}

	todo, err := h.todos.Update(r.Context(), user.ID, id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": toTodoDTO(todo)})
}

// HandleDelete removes a to-do and returns it.
// DELETE /todos/{id}
// Response: {"todo": {...}}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	todo, err := h.todos.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": toTodoDTO(todo)})
}
