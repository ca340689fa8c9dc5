package http

import (
	"net/http"

	applog "smartbudget/internal/log"
)

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	entry, err := ParseEntryForm(r.PostForm)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	if _, err := s.budget.CreateEntry(r.Context(), entry); err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	RedirectWithNotice("/dashboard", NoticeEntryAdded).Write(w)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := ParseEntryID(r)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	entry, err := ParseEntryForm(r.PostForm)
	if err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	entry.ID = id

	if _, err := s.budget.UpdateEntry(r.Context(), entry); err != nil {
		writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	RedirectWithNotice("/dashboard", NoticeEntryUpdated).Write(w)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := ParseEntryID(r)
	if err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}

	if err := s.budget.DeleteEntry(r.Context(), id); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	RedirectWithNotice("/dashboard", NoticeEntryDeleted).Write(w)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	name := sanitizeInput(r.PostForm.Get("new_category"))
	if _, err := s.budget.AddCategory(r.Context(), name); err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	RedirectWithNotice("/dashboard", NoticeCategoryAdded).Write(w)
}
